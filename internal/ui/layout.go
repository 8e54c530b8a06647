package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jarvis/internal/theme"
)

// minSideWidth keeps the detail panel readable on narrow terminals.
const minSideWidth = 28

// Layout splits the terminal into a one-line header, a body and a
// one-line footer.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the width of the body.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height of the body, between header and footer.
func (l Layout) ContentHeight() int {
	return max(l.Height-2, 0)
}

// Columns splits the body into the schedule column and the side panel.
func (l Layout) Columns() (main, side int) {
	side = max(l.Width/3, minSideWidth)
	return max(l.Width-side, 0), side
}

// RenderHeader renders the title on the left and the status on the right.
func (l Layout) RenderHeader(title, status string) string {
	return l.bar(theme.HeaderStyle, title, status)
}

// RenderStatusBar renders key hints on the left. A non-empty flash
// replaces the hints and is right aligned in the flash style.
func (l Layout) RenderStatusBar(hints, flash string) string {
	if flash != "" {
		return l.bar(theme.FlashStyle, "", flash)
	}
	return l.bar(theme.StatusBarStyle, hints, "")
}

// RenderWithFrame stacks header, body and footer.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// bar renders a full-width line with left and right segments, padding the
// gap with the style's background.
func (l Layout) bar(style lipgloss.Style, left, right string) string {
	var parts []string
	if left != "" {
		parts = append(parts, style.Render(left))
	}
	var r string
	if right != "" {
		r = style.Render(right)
	}

	used := lipgloss.Width(r)
	for _, p := range parts {
		used += lipgloss.Width(p)
	}
	gap := max(l.Width-used, 0)
	parts = append(parts, lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render(""))
	if r != "" {
		parts = append(parts, r)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
