package output

import (
	"github.com/detent/runview/internal/icons"
	"github.com/detent/runview/internal/workflow"
)

// WorkflowView is the rendered summary of one workflow file.
type WorkflowView struct {
	Path               string                  `json:"path"`
	Name               string                  `json:"name,omitempty"`
	Status             workflow.TriggerStatus  `json:"status"`
	Triggers           []workflow.TriggerEvent `json:"triggers"`
	Tag                workflow.Tag            `json:"tag"`
	RepositoryDispatch bool                    `json:"repository_dispatch"`
	WorkflowDispatch   bool                    `json:"workflow_dispatch"`
	Error              string                  `json:"error,omitempty"`
}

// NewWorkflowView builds a view from a tag result.
func NewWorkflowView(res workflow.TagResult, name string) WorkflowView {
	v := WorkflowView{
		Path:               res.Path,
		Name:               name,
		Status:             res.Status,
		Triggers:           res.Events,
		Tag:                res.Tag,
		RepositoryDispatch: res.Tag.AllowsRepositoryDispatch(),
		WorkflowDispatch:   res.Tag.AllowsWorkflowDispatch(),
	}
	if v.Triggers == nil {
		v.Triggers = []workflow.TriggerEvent{}
	}
	if res.Err != nil {
		v.Error = res.Err.Error()
	}
	return v
}

// IconView is the JSON form of an icons.Icon.
type IconView struct {
	Kind  string `json:"kind"`
	Light string `json:"light,omitempty"`
	Dark  string `json:"dark,omitempty"`
	Name  string `json:"name,omitempty"`
}

// NewIconView flattens an icon into its JSON form.
func NewIconView(icon icons.Icon) IconView {
	switch v := icon.(type) {
	case icons.AssetPair:
		return IconView{Kind: v.Kind(), Light: v.Light, Dark: v.Dark}
	case icons.BuiltinIcon:
		return IconView{Kind: v.Kind(), Name: v.Name}
	}
	return IconView{Kind: icons.Empty{}.Kind()}
}

// RunView is one run or job with its resolved indicators.
type RunView struct {
	Name       string    `json:"name"`
	Status     string    `json:"status,omitempty"`
	Conclusion string    `json:"conclusion,omitempty"`
	Outcome    string    `json:"outcome"`
	Builtin    string    `json:"builtin"`
	Icon       *IconView `json:"icon,omitempty"`
	Jobs       []RunView `json:"jobs,omitempty"`
}
