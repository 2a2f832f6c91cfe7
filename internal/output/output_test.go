package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/detent/runview/internal/icons"
	"github.com/detent/runview/internal/workflow"
)

func TestNewIconView(t *testing.T) {
	tests := []struct {
		name string
		icon icons.Icon
		want IconView
	}{
		{
			name: "asset pair",
			icon: icons.AssetPair{Light: "/l/a.svg", Dark: "/d/a.svg"},
			want: IconView{Kind: "asset", Light: "/l/a.svg", Dark: "/d/a.svg"},
		},
		{
			name: "builtin",
			icon: icons.BuiltinIcon{Name: "sync~spin"},
			want: IconView{Kind: "builtin", Name: "sync~spin"},
		},
		{name: "empty", icon: icons.Empty{}, want: IconView{Kind: "empty"}},
		{name: "nil", icon: nil, want: IconView{Kind: "empty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewIconView(tt.icon); got != tt.want {
				t.Errorf("NewIconView() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewWorkflowView(t *testing.T) {
	res := workflow.TagResult{
		Path:   "ci.yml",
		Tag:    "rdispatchwdispatch",
		Status: workflow.TriggersFound,
		Events: []workflow.TriggerEvent{{Event: "repository_dispatch"}, {Event: "workflow_dispatch"}},
	}
	v := NewWorkflowView(res, "CI")
	if !v.RepositoryDispatch || !v.WorkflowDispatch {
		t.Errorf("dispatch flags = %v/%v, want true/true", v.RepositoryDispatch, v.WorkflowDispatch)
	}
	if v.Name != "CI" || v.Error != "" {
		t.Errorf("view = %+v", v)
	}

	failed := NewWorkflowView(workflow.TagResult{Path: "x.yml", Status: workflow.InvalidInput, Err: errors.New("bad yaml")}, "")
	if failed.Error != "bad yaml" {
		t.Errorf("Error = %q, want %q", failed.Error, "bad yaml")
	}
	if failed.Triggers == nil {
		t.Error("Triggers should never be nil")
	}
}

func TestFormatJSON_WorkflowView(t *testing.T) {
	var buf bytes.Buffer
	view := WorkflowView{
		Path:     "ci.yml",
		Status:   workflow.TriggersFound,
		Triggers: []workflow.TriggerEvent{{Event: "push", Branches: []string{"main"}}},
		Tag:      "",
	}
	if err := FormatJSON(&buf, view); err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}
	if decoded["status"] != "found" {
		t.Errorf("status = %v, want found", decoded["status"])
	}
	if decoded["tag"] != "" {
		t.Errorf("tag = %v, want empty string", decoded["tag"])
	}
	triggers, ok := decoded["triggers"].([]any)
	if !ok || len(triggers) != 1 {
		t.Fatalf("triggers = %v", decoded["triggers"])
	}
	first := triggers[0].(map[string]any)
	if _, has := first["types"]; has {
		t.Error("absent types should be omitted")
	}
}

func TestPrinter_Workflows(t *testing.T) {
	tests := []struct {
		name     string
		views    []WorkflowView
		validate func(t *testing.T, out string)
	}{
		{
			name:  "no workflows",
			views: nil,
			validate: func(t *testing.T, out string) {
				if !strings.Contains(out, "No workflows found") {
					t.Error("expected 'No workflows found'")
				}
			},
		},
		{
			name: "workflow with triggers",
			views: []WorkflowView{{
				Path: ".github/workflows/ci.yml",
				Name: "CI",
				Triggers: []workflow.TriggerEvent{
					{Event: "push", Branches: []string{"main", "dev"}},
					{Event: "workflow_dispatch"},
				},
				Tag:              "wdispatch",
				WorkflowDispatch: true,
			}},
			validate: func(t *testing.T, out string) {
				for _, want := range []string{"CI", "push (branches: main, dev)", "workflow_dispatch", "✓ workflow", "✗ repository"} {
					if !strings.Contains(out, want) {
						t.Errorf("output missing %q:\n%s", want, out)
					}
				}
				if strings.Contains(out, "\x1b[") {
					t.Error("plain printer should not emit ANSI escapes")
				}
			},
		},
		{
			name:  "workflow with error",
			views: []WorkflowView{{Path: "bad.yml", Error: "parsing workflow YAML: boom"}},
			validate: func(t *testing.T, out string) {
				if !strings.Contains(out, "✗ parsing workflow YAML: boom") {
					t.Errorf("expected error line, got:\n%s", out)
				}
				if strings.Contains(out, "dispatch:") {
					t.Error("failed workflow should not show dispatch line")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPlainPrinter(&buf).Workflows(tt.views)
			tt.validate(t, buf.String())
		})
	}
}

func TestPrinter_Tags(t *testing.T) {
	var buf bytes.Buffer
	NewPlainPrinter(&buf).Tags([]WorkflowView{
		{Path: "a.yml", Tag: "rdispatchwdispatch"},
		{Path: "b.yml"},
	})
	want := "a.yml\trdispatchwdispatch\nb.yml\t-\n"
	if buf.String() != want {
		t.Errorf("Tags() = %q, want %q", buf.String(), want)
	}
}

func TestPrinter_Runs(t *testing.T) {
	var buf bytes.Buffer
	NewPlainPrinter(&buf).Runs([]RunView{
		{
			Name: "CI", Status: "completed", Conclusion: "failure", Builtin: "error",
			Jobs: []RunView{
				{Name: "lint", Status: "completed", Conclusion: "success", Builtin: "pass"},
				{Name: "test", Status: "in_progress", Builtin: "sync~spin"},
			},
		},
	})

	out := buf.String()
	for _, want := range []string{
		"✗ CI (completed, failure)",
		"├─ ✓ lint (completed, success)",
		"└─ ↻ test (in_progress)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrinter_Icon(t *testing.T) {
	var buf bytes.Buffer
	NewPlainPrinter(&buf).Icon(RunView{
		Name: "run", Status: "queued", Outcome: "queued", Builtin: "primitive-dot",
		Icon: &IconView{Kind: "asset", Light: "/l/q.svg", Dark: "/d/q.svg"},
	})
	out := buf.String()
	if !strings.Contains(out, "builtin: primitive-dot") || !strings.Contains(out, "light=/l/q.svg dark=/d/q.svg") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestGlyph(t *testing.T) {
	if Glyph("pass") != "✓" {
		t.Errorf("Glyph(pass) = %q", Glyph("pass"))
	}
	if Glyph("not-an-icon") != Glyph("circle") {
		t.Error("unknown names should fall back to the circle glyph")
	}
}

func TestNewPrinter_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if NewPrinter(&buf).color {
		t.Error("color should be disabled for non-terminal writers")
	}
}

func TestPrinter_Triggers(t *testing.T) {
	var buf bytes.Buffer
	NewPlainPrinter(&buf).Triggers([]WorkflowView{{
		Path:     "ci.yml",
		Triggers: []workflow.TriggerEvent{{Event: "schedule", Schedule: []string{"0 0 * * *"}}},
	}})
	out := buf.String()
	if !strings.Contains(out, "schedule (schedule: 0 0 * * *)") {
		t.Errorf("missing trigger line:\n%s", out)
	}
	if strings.Contains(out, "dispatch:") {
		t.Error("Triggers() should not print the dispatch line")
	}
}
