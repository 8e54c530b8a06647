package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/jarvis/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorCyan    = lipgloss.AdaptiveColor{Dark: "#22D3EE", Light: "#0E7490"}
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Apply forces the light or dark palette. Any other name keeps terminal
// background detection.
func Apply(name string) {
	switch name {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}

// HeaderStyle is used for the top bar and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// FlashStyle renders transient feedback in the status bar.
var FlashStyle = StatusBarStyle.
	Bold(true).
	Foreground(ColorYellow)

// PanelStyle wraps a content pane.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ActivePanelStyle marks the pane that receives keys.
var ActivePanelStyle = PanelStyle.
	BorderForeground(ColorCyan)

// TitleStyle renders pane titles.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorCyan)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorCyan).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorCyan)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle renders secondary text.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// StatusStyle returns a color-coded style for the assistant status.
func StatusStyle(st model.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch st {
	case model.StatusListening:
		return base.Foreground(ColorRed)
	case model.StatusProcessing:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGreen)
	}
}

// SeverityStyle colors an event log entry.
func SeverityStyle(sev model.Severity) lipgloss.Style {
	switch sev {
	case model.SeveritySuccess:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case model.SeverityWarning:
		return lipgloss.NewStyle().Foreground(ColorOrange)
	case model.SeverityError:
		return lipgloss.NewStyle().Foreground(ColorRed)
	default:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	}
}

// TypeStyle colors a schedule item by its type.
func TypeStyle(t model.TaskType) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch t {
	case model.TypeConflict:
		return base.Foreground(ColorRed)
	case model.TypeSuggestion:
		return base.Foreground(ColorMagenta).Italic(true)
	case model.TypeSystem:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorCyan)
	}
}

// QuadrantStyle colors a priority matrix cell title.
func QuadrantStyle(q model.Quadrant) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch q {
	case model.QuadrantDoFirst:
		return base.Foreground(ColorRed)
	case model.QuadrantSchedule:
		return base.Foreground(ColorBlue)
	case model.QuadrantDelegate:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}
