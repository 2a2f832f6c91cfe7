package output

import (
	"fmt"
	"strings"

	"github.com/detent/runview/internal/workflow"
)

// Workflows writes each workflow with its triggers and dispatch capabilities.
func (p *Printer) Workflows(views []WorkflowView) {
	p.workflows(views, true)
}

// Triggers writes each workflow with its normalized triggers only.
func (p *Printer) Triggers(views []WorkflowView) {
	p.workflows(views, false)
}

func (p *Printer) workflows(views []WorkflowView, showDispatch bool) {
	if len(views) == 0 {
		_, _ = fmt.Fprintln(p.w, p.render(mutedStyle, "No workflows found"))
		return
	}

	for i, v := range views {
		if i > 0 {
			_, _ = fmt.Fprintln(p.w)
		}
		title := v.Name
		if title == "" {
			title = v.Path
		}
		_, _ = fmt.Fprintf(p.w, "%s %s\n", p.render(boldStyle, title), p.render(mutedStyle, v.Path))

		if v.Error != "" {
			_, _ = fmt.Fprintf(p.w, "  %s %s\n", p.render(errorStyle, "✗"), p.render(mutedStyle, v.Error))
			continue
		}
		if len(v.Triggers) == 0 {
			_, _ = fmt.Fprintf(p.w, "  %s\n", p.render(mutedStyle, "no triggers"))
		}
		for _, e := range v.Triggers {
			_, _ = fmt.Fprintf(p.w, "  %s %s%s\n", p.render(mutedStyle, "·"), e.Event, p.render(mutedStyle, triggerDetail(e)))
		}
		if !showDispatch {
			continue
		}
		_, _ = fmt.Fprintf(p.w, "  %s %s  %s\n",
			p.render(mutedStyle, "dispatch:"),
			p.check("workflow", v.WorkflowDispatch),
			p.check("repository", v.RepositoryDispatch))
	}
}

// Tags writes one "path<TAB>tag" line per workflow.
func (p *Printer) Tags(views []WorkflowView) {
	for _, v := range views {
		tag := string(v.Tag)
		if tag == "" {
			tag = p.render(mutedStyle, "-")
		}
		_, _ = fmt.Fprintf(p.w, "%s\t%s\n", v.Path, tag)
	}
}

// Icon writes a single resolved indicator.
func (p *Printer) Icon(run RunView) {
	_, _ = fmt.Fprintf(p.w, "%s %s %s\n",
		p.render(glyphStyle(run.Builtin), Glyph(run.Builtin)),
		p.render(boldStyle, run.Outcome),
		p.render(mutedStyle, stateLabel(run)))
	_, _ = fmt.Fprintf(p.w, "  %s %s\n", p.render(mutedStyle, "builtin:"), run.Builtin)
	if run.Icon != nil {
		_, _ = fmt.Fprintf(p.w, "  %s %s\n", p.render(mutedStyle, "asset:"), describeIcon(*run.Icon))
	}
}

// Runs writes runs and their jobs as a tree.
func (p *Printer) Runs(runs []RunView) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(p.w, p.render(mutedStyle, "No runs"))
		return
	}
	for _, run := range runs {
		p.runLine(run, "")
		for i, job := range run.Jobs {
			branch := "├─ "
			if i == len(run.Jobs)-1 {
				branch = "└─ "
			}
			p.runLine(job, p.render(mutedStyle, branch))
		}
	}
}

func (p *Printer) runLine(run RunView, prefix string) {
	_, _ = fmt.Fprintf(p.w, "%s%s %s %s\n",
		prefix,
		p.render(glyphStyle(run.Builtin), Glyph(run.Builtin)),
		run.Name,
		p.render(mutedStyle, stateLabel(run)))
}

func (p *Printer) check(label string, ok bool) string {
	if ok {
		return p.render(successStyle, "✓ "+label)
	}
	return p.render(mutedStyle, "✗ "+label)
}

// Banner writes the command header.
func (p *Printer) Banner(version, command string) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n\n", p.render(brandStyle, "runview v"+version), command)
}

func triggerDetail(e workflow.TriggerEvent) string {
	var parts []string
	if len(e.Types) > 0 {
		parts = append(parts, "types: "+strings.Join(e.Types, ", "))
	}
	if len(e.Branches) > 0 {
		parts = append(parts, "branches: "+strings.Join(e.Branches, ", "))
	}
	if len(e.Schedule) > 0 {
		parts = append(parts, "schedule: "+strings.Join(e.Schedule, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, "; ") + ")"
}

func stateLabel(run RunView) string {
	switch {
	case run.Status == "" && run.Conclusion == "":
		return ""
	case run.Conclusion == "":
		return "(" + run.Status + ")"
	default:
		return "(" + run.Status + ", " + run.Conclusion + ")"
	}
}

func describeIcon(v IconView) string {
	switch v.Kind {
	case "asset":
		return fmt.Sprintf("light=%s dark=%s", v.Light, v.Dark)
	case "builtin":
		return "builtin " + v.Name
	}
	return "(none)"
}
