package icons

// Icon is a visual indicator for a run or job. It is exactly one of
// AssetPair, BuiltinIcon or Empty.
type Icon interface {
	// Kind names the variant ("asset", "builtin" or "empty").
	Kind() string
	isIcon()
}

// AssetPair is an indicator drawn from two image files, one per theme.
type AssetPair struct {
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

// BuiltinIcon is an indicator from the editor's built-in icon catalog.
type BuiltinIcon struct {
	Name string `json:"name"`
}

// Empty renders as no icon at all.
type Empty struct{}

// Kind implements Icon.
func (AssetPair) Kind() string { return "asset" }

// Kind implements Icon.
func (BuiltinIcon) Kind() string { return "builtin" }

// Kind implements Icon.
func (Empty) Kind() string { return "empty" }

func (AssetPair) isIcon()   {}
func (BuiltinIcon) isIcon() {}
func (Empty) isIcon()       {}

// Built-in icon names.
const (
	BuiltinPass          = "pass"
	BuiltinError         = "error"
	BuiltinCircleSlash   = "circle-slash"
	BuiltinPrimitiveDot  = "primitive-dot"
	BuiltinBell          = "bell"
	BuiltinSyncSpin      = "sync~spin"
	BuiltinCircle        = "circle"
	BuiltinCircleOutline = "circle-outline"
)

// builtinNames is the built-in rendering of every outcome.
var builtinNames = map[Outcome]string{
	OutcomeSuccess:        BuiltinPass,
	OutcomeFailure:        BuiltinError,
	OutcomeCancelled:      BuiltinCircleSlash,
	OutcomeCompletedOther: BuiltinCircle,
	OutcomeQueued:         BuiltinPrimitiveDot,
	OutcomeWaiting:        BuiltinBell,
	OutcomeInProgress:     BuiltinSyncSpin,
	OutcomeUnknown:        BuiltinCircle,
	OutcomeNoData:         BuiltinCircleOutline,
}

// BuiltinNameFor renders an outcome as a built-in icon name.
func BuiltinNameFor(o Outcome) string {
	if name, ok := builtinNames[o]; ok {
		return name
	}
	return BuiltinCircle
}

// BuiltinName returns the built-in icon name for a run state. A nil state
// gets circle-outline so "no data" is distinguishable from an unknown status.
func BuiltinName(s *StatusAndConclusion) string {
	return BuiltinNameFor(Classify(s))
}

// BuiltinIconFor is BuiltinName wrapped as an Icon.
func BuiltinIconFor(s *StatusAndConclusion) Icon {
	return BuiltinIcon{Name: BuiltinName(s)}
}
