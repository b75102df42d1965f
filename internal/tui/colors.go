package tui

// Color constants for the goalie terminal theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Titles, values
	ColorSecondaryText = "#B1B8C7" // Labels
	ColorDisabledText  = "#6D7383" // Empty cells, muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Logo, active borders
	ColorAccentBright = "#A78BFA" // Highlights, selected row

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)

// activityColors shade the heatmap from one completion to a busy day
var activityColors = []string{
	ColorDisabledText,
	"#4C1D95",
	"#6D28D9",
	ColorAccentBright,
}
