// Package render turns the journey catalog and progress snapshots into
// terminal text, markdown and JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/tidwall/pretty"

	"github.com/alexander-akhmetov/wayfinder/internal/debug"
	"github.com/alexander-akhmetov/wayfinder/internal/domain"
)

// Markers prefixed to phase and task lines.
const (
	MarkerCurrent  = "▸"
	MarkerComplete = "✓"
	MarkerPending  = "·"
	TaskDone       = "[x]"
	TaskOpen       = "[ ]"
)

const defaultWidth = 80

// Options control text output.
type Options struct {
	// Plain disables colors.
	Plain bool
	// Tasks lists each task under its phase.
	Tasks bool
	// Width is the terminal width; 0 means 80.
	Width int
}

func (o Options) width() int {
	if o.Width <= 0 {
		return defaultWidth
	}
	return o.Width
}

// Snapshot writes a text view of snap. phases supplies task titles and
// subtitles and must be the phases snap was computed from.
func Snapshot(w io.Writer, phases []domain.Phase, snap domain.Snapshot, opts Options) error {
	_, err := io.WriteString(w, SnapshotString(w, phases, snap, opts))
	return err
}

// SnapshotString renders what Snapshot writes. w is only used to detect
// the color profile.
func SnapshotString(w io.Writer, phases []domain.Phase, snap domain.Snapshot, opts Options) string {
	st := newStyles(w, opts.Plain)

	var b strings.Builder
	b.WriteString(st.title.Render("Progress for " + snap.UserID))
	b.WriteString("\n")
	b.WriteString(st.value.Render(fmt.Sprintf("%d%%", snap.OverallPercent)))
	b.WriteString(st.label.Render(fmt.Sprintf(" (%d/%d tasks)", snap.CompletedTasks, snap.TotalTasks)))
	b.WriteString("\n")
	b.WriteString(progressBar(snap.OverallPercent, opts))
	b.WriteString("\n\n")

	nameWidth := 0
	for _, p := range snap.Phases {
		nameWidth = max(nameWidth, len(p.Name))
	}

	for i, p := range snap.Phases {
		marker, style := MarkerPending, st.pending
		switch {
		case p.IsCurrent:
			marker, style = MarkerCurrent, st.current
		case p.IsComplete:
			marker, style = MarkerComplete, st.complete
		}

		line := fmt.Sprintf("%s %-*s %d/%d", marker, nameWidth, p.Name, p.CompletedTasks, p.TotalTasks)
		b.WriteString(style.Render(line))
		if i < len(phases) && phases[i].Subtitle != "" {
			b.WriteString("  ")
			b.WriteString(st.subtle.Render(phases[i].Subtitle))
		}
		b.WriteString("\n")

		if opts.Tasks && i < len(phases) {
			writeTasks(&b, st, phases[i], p)
		}
	}

	return b.String()
}

func writeTasks(b *strings.Builder, st styles, phase domain.Phase, status domain.PhaseStatus) {
	done := make(map[string]bool, len(status.Tasks))
	for _, t := range status.Tasks {
		done[t.ID] = t.Done
	}
	for _, t := range phase.Tasks {
		box, style := TaskOpen, st.value
		if done[t.ID] {
			box, style = TaskDone, st.complete
		}
		b.WriteString("    ")
		b.WriteString(style.Render(box + " " + t.Title))
		b.WriteString(st.label.Render("  " + t.Target))
		b.WriteString("\n")
	}
}

func progressBar(percent int, opts Options) string {
	width := min(opts.width()-4, 60)
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	if opts.Plain {
		bar = progress.New(
			progress.WithWidth(width),
			progress.WithoutPercentage(),
			progress.WithColorProfile(termenv.Ascii),
		)
		bar.Full = '#'
		bar.Empty = '-'
	}
	return bar.ViewAs(float64(percent) / 100)
}

// Catalog writes the phases and their tasks.
func Catalog(w io.Writer, phases []domain.Phase, opts Options) error {
	st := newStyles(w, opts.Plain)

	var b strings.Builder
	for i, p := range phases {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(st.title.Render(fmt.Sprintf("%d. %s", i+1, p.Name)))
		if p.Subtitle != "" {
			b.WriteString(st.subtle.Render(" - " + p.Subtitle))
		}
		b.WriteString(st.label.Render(fmt.Sprintf("  [%s]", p.ID)))
		b.WriteString("\n")
		for _, t := range p.Tasks {
			b.WriteString("   ")
			b.WriteString(st.value.Render(fmt.Sprintf("%-20s", t.ID)))
			b.WriteString(" ")
			b.WriteString(t.Title)
			b.WriteString(st.label.Render("  " + t.Check.String()))
			b.WriteString("\n")
		}
	}
	if len(phases) > 0 {
		b.WriteString("\n")
		b.WriteString(st.subtle.Render(fmt.Sprintf("%d tasks in %d phases", domain.TaskCount(phases), len(phases))))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// PhaseMarkdown describes one phase and its tasks as markdown.
func PhaseMarkdown(p domain.Phase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	if p.Subtitle != "" {
		fmt.Fprintf(&b, "_%s_\n\n", p.Subtitle)
	}
	if d := strings.TrimSpace(p.Description); d != "" {
		b.WriteString(d)
		b.WriteString("\n\n")
	}
	b.WriteString("## Tasks\n\n")
	for i, t := range p.Tasks {
		fmt.Fprintf(&b, "%d. **%s** (`%s`)", i+1, t.Title, t.ID)
		if t.Description != "" {
			fmt.Fprintf(&b, ": %s", t.Description)
		}
		fmt.Fprintf(&b, " Go to `%s`.\n", t.Target)
	}
	return b.String()
}

// Markdown writes md, styled with glamour unless plain is set. If the
// renderer cannot be built the raw markdown is written.
func Markdown(w io.Writer, md string, width int, plain bool) error {
	out := md
	if !plain {
		if width <= 0 {
			width = defaultWidth
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(max(width-6, 40)),
		)
		if err != nil {
			debug.Logf("render: failed to create glamour renderer: %v", err)
		} else if styled, err := r.Render(md); err == nil {
			out = styled
		} else {
			debug.Logf("render: glamour render failed: %v", err)
		}
	}
	_, err := io.WriteString(w, out)
	return err
}

// JSON writes v as indented JSON, colorized when color is set.
func JSON(w io.Writer, v any, color bool) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = pretty.Pretty(data)
	if color {
		data = pretty.Color(data, nil)
	}
	_, err = w.Write(data)
	return err
}
