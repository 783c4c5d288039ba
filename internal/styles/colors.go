package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette
const (
	// Base colors
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	// Accent colors
	Red     = "#FF6188" // Errors, danger
	Orange  = "#FC9867" // Warnings, quotes
	Yellow  = "#FFD866" // Headings
	Green   = "#A9DC76" // Success, lists
	Cyan    = "#78DCE8" // Code
	Blue    = "#AB9DF2" // Links, images
	Magenta = "#FF6188" // Titles

	// UI colors
	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	// Table styles
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Magenta))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Yellow))

	PreviewStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(1)
)

// kindColors maps block kinds to badge colors.
var kindColors = map[string]string{
	"heading":        Yellow,
	"paragraph":      Foreground,
	"quote":          Orange,
	"list":           Green,
	"image":          Blue,
	"code":           Cyan,
	"thematic_break": Comment,
}

// Badge renders a fixed-width label for a block kind.
func Badge(kind string) string {
	color, ok := kindColors[kind]
	if !ok {
		color = Comment
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Bold(true).
		Width(15).
		Render(kind)
}
