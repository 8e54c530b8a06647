package tasklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nhle/jarvis/internal/model"
	"github.com/nhle/jarvis/internal/theme"
)

// DueLabel describes when a task is due relative to now, e.g.
// "05:00 PM · 8 hours from now". Unscheduled tasks read "TBD".
func DueLabel(t model.Task, now time.Time) string {
	if t.Instant == nil {
		return model.TimeTBD
	}
	rel := humanize.RelTime(*t.Instant, now, "ago", "from now")
	if sameDay(*t.Instant, now) {
		return fmt.Sprintf("%s · %s", t.Time, rel)
	}
	return fmt.Sprintf("%s %s · %s", t.Instant.Format("Mon Jan 2"), t.Time, rel)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// badges renders the matrix flags and the conflict marker.
func badges(t model.Task) string {
	var parts []string
	if t.Type == model.TypeConflict {
		parts = append(parts, theme.TypeStyle(model.TypeConflict).Render("CONFLICT"))
	}
	if t.IsUrgent {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorRed).Render("urgent"))
	}
	if t.IsImportant {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorYellow).Render("important"))
	}
	return strings.Join(parts, " ")
}

// renderItem draws one schedule row.
func renderItem(t model.Task, now time.Time, selected bool, width int) string {
	marker := "◆"
	if t.Type == model.TypeSuggestion {
		marker = "◇"
	}
	if t.Notified {
		marker = "✓"
	}

	title := theme.TypeStyle(t.Type).Render(marker) + " " + t.Text
	if b := badges(t); b != "" {
		title += "  " + b
	}
	line := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		theme.DimmedStyle.Render("  "+DueLabel(t, now)),
	)

	style := theme.ListItemStyle
	if selected {
		style = theme.SelectedItemStyle
	}
	return style.MaxWidth(width).Render(line)
}
