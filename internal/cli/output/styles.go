package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Money   lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusSkipped lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	green := lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}
	red := lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}
	yellow := lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"}
	blue := lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
	grey := lipgloss.AdaptiveColor{Light: "#6e7781", Dark: "#8b949e"}

	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(blue),
		Header2: r.NewStyle().Bold(true),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(grey),
		Success: r.NewStyle().Foreground(green),
		Warning: r.NewStyle().Foreground(yellow),
		Error:   r.NewStyle().Foreground(red),
		Info:    r.NewStyle().Foreground(blue),
		Money:   r.NewStyle().Foreground(green),

		StatusSuccess: r.NewStyle().Foreground(green).SetString("✓"),
		StatusFailed:  r.NewStyle().Foreground(red).SetString("✗"),
		StatusSkipped: r.NewStyle().Foreground(grey).SetString("-"),
	}
}
