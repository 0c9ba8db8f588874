package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Level colors, cycled by depth below the root
	levels = []lipgloss.Color{
		lipgloss.Color("#6366F1"), // Indigo
		lipgloss.Color("#10B981"), // Green
		lipgloss.Color("#60A5FA"), // Blue
		lipgloss.Color("#EC4899"), // Pink
		lipgloss.Color("#F97316"), // Orange
	}

	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree node styles
	NodeRoot = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	NodeLeaf = lipgloss.NewStyle()

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	NodeBounds = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree indicators
	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "

	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Highlight marks the move destination
	Highlight = lipgloss.NewStyle().
			Background(Warning).
			Foreground(lipgloss.Color("#000000"))

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// DepthColor returns the color for nodes at the given depth.
func DepthColor(depth int) lipgloss.Color {
	if depth <= 0 {
		return Primary
	}
	return levels[(depth-1)%len(levels)]
}

// NodeStyle returns the style for an unselected node at depth.
func NodeStyle(depth int, leaf bool) lipgloss.Style {
	if depth == 0 {
		return NodeRoot
	}
	if leaf {
		return NodeLeaf
	}
	return lipgloss.NewStyle().Bold(true).Foreground(DepthColor(depth))
}
