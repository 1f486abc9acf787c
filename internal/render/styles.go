package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	current  lipgloss.Style
	complete lipgloss.Style
	pending  lipgloss.Style
	subtle   lipgloss.Style
}

func newStyles(w io.Writer, plain bool) styles {
	var r *lipgloss.Renderer
	if plain {
		r = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	} else {
		r = lipgloss.NewRenderer(w)
	}

	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		label: r.NewStyle().
			Foreground(lipgloss.Color("241")),
		value: r.NewStyle().
			Foreground(lipgloss.Color("255")),
		current: r.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true),
		complete: r.NewStyle().
			Foreground(lipgloss.Color("42")),
		pending: r.NewStyle().
			Foreground(lipgloss.Color("245")),
		subtle: r.NewStyle().
			Foreground(lipgloss.Color("243")).
			Faint(true),
	}
}
