package icons

// StatusAndConclusion is the observed state of a run or job. A nil field
// means the host reported no value.
type StatusAndConclusion struct {
	Status     *string `json:"status"`
	Conclusion *string `json:"conclusion"`
}

// RunState builds a StatusAndConclusion, treating empty strings as absent.
func RunState(status, conclusion string) *StatusAndConclusion {
	s := &StatusAndConclusion{}
	if status != "" {
		s.Status = &status
	}
	if conclusion != "" {
		s.Conclusion = &conclusion
	}
	return s
}

// Outcome is the abstract result of classifying a run state. Renderers
// translate outcomes into concrete icons.
type Outcome int

const (
	// OutcomeNoData means there was no run state at all.
	OutcomeNoData Outcome = iota
	OutcomeSuccess
	OutcomeFailure
	// OutcomeCancelled covers both skipped and cancelled conclusions.
	OutcomeCancelled
	// OutcomeCompletedOther is a completed run with an unrecognized or
	// missing conclusion (neutral, timed_out, action_required, ...).
	OutcomeCompletedOther
	OutcomeQueued
	OutcomeWaiting
	OutcomeInProgress
	// OutcomeUnknown is any unrecognized or missing status.
	OutcomeUnknown
)

// Status and conclusion values reported by the host.
const (
	StatusCompleted  = "completed"
	StatusQueued     = "queued"
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"

	// statusInProgressLegacy is the underscore-less spelling some payloads use.
	statusInProgressLegacy = "inprogress"

	ConclusionSuccess   = "success"
	ConclusionFailure   = "failure"
	ConclusionSkipped   = "skipped"
	ConclusionCancelled = "cancelled"
)

// Classify maps a run state onto exactly one Outcome. It is total: every
// input, including nil, has an outcome.
func Classify(s *StatusAndConclusion) Outcome {
	if s == nil {
		return OutcomeNoData
	}

	switch deref(s.Status) {
	case StatusCompleted:
		switch deref(s.Conclusion) {
		case ConclusionSuccess:
			return OutcomeSuccess
		case ConclusionFailure:
			return OutcomeFailure
		case ConclusionSkipped, ConclusionCancelled:
			return OutcomeCancelled
		}
		return OutcomeCompletedOther
	case StatusQueued:
		return OutcomeQueued
	case StatusWaiting:
		return OutcomeWaiting
	case statusInProgressLegacy, StatusInProgress:
		return OutcomeInProgress
	}
	return OutcomeUnknown
}

// Known reports whether the outcome has a dedicated indicator rather than a
// fallback.
func (o Outcome) Known() bool {
	switch o {
	case OutcomeSuccess, OutcomeFailure, OutcomeCancelled,
		OutcomeQueued, OutcomeWaiting, OutcomeInProgress:
		return true
	}
	return false
}

// String returns the display name for an outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoData:
		return "no-data"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeCompletedOther:
		return "completed"
	case OutcomeQueued:
		return "queued"
	case OutcomeWaiting:
		return "waiting"
	case OutcomeInProgress:
		return "in-progress"
	case OutcomeUnknown:
		return "unknown"
	}
	return "invalid"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
