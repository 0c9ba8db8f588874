package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"nestedset/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		}
	}

	return m, nil
}

var helpSections = []struct {
	title    string
	bindings []key.Binding
}{
	{"Navigation", []key.Binding{
		BrowserKeys.Up, BrowserKeys.Down, BrowserKeys.PageUp, BrowserKeys.PageDown,
		BrowserKeys.Left, BrowserKeys.Right, BrowserKeys.Enter, BrowserKeys.ExpandAll,
	}},
	{"Editing", []key.Binding{
		BrowserKeys.New, BrowserKeys.Sibling, BrowserKeys.Rename, BrowserKeys.Move, BrowserKeys.Delete,
	}},
	{"General", []key.Binding{
		BrowserKeys.Bounds, BrowserKeys.Copy, BrowserKeys.Verify, BrowserKeys.Help, BrowserKeys.Quit,
	}},
}

// View renders the help view
func (m *HelpModel) View() string {
	v := NewViewBuilder().
		Title("Help").
		Subtitle("Each node stores a [left,right] interval; descendants nest inside it.")

	for _, s := range helpSections {
		v.Line(styles.InputLabel.Render(s.title))
		for _, b := range s.bindings {
			h := b.Help()
			v.Raw(helpLine(h.Key, h.Desc))
		}
		v.BlankLine()
	}

	v.Muted("Deleting a node moves its children up to its parent.")
	v.Muted("Moving takes the whole subtree; a node cannot move into itself.")
	v.BlankLine()

	return v.Raw(styles.HelpDesc.Render("Press ")).
		Raw(styles.HelpKey.Render("esc")).
		Raw(styles.HelpDesc.Render(" or ")).
		Raw(styles.HelpKey.Render("?")).
		Raw(styles.HelpDesc.Render(" to close")).
		String()
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 12)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if n := len([]rune(s)); n < length {
		return s + strings.Repeat(" ", length-n)
	}
	return s
}
