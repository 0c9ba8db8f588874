package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"nestedset/internal/adapters/tui/views"
	"nestedset/internal/application/commands"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewCreate
	ViewMove
	ViewDelete
	ViewHelp
)

// App is the main TUI application model
type App struct {
	state   ViewState
	browser *views.BrowserModel
	create  *views.CreateModel
	move    *views.MoveModel
	delete  *views.DeleteModel
	help    *views.HelpModel
}

// NewApp creates a new TUI application over tree.
func NewApp(tree commands.Tree) *App {
	return &App{
		state:   ViewBrowser,
		browser: views.NewBrowserModel(tree),
		create:  views.NewCreateModel(tree),
		move:    views.NewMoveModel(tree),
		delete:  views.NewDeleteModel(tree),
		help:    views.NewHelpModel(),
	}
}

// Browser exposes the browser view.
func (a *App) Browser() *views.BrowserModel {
	return a.browser
}

// State returns the active view.
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.browser.SetSize(msg.Width, msg.Height)
		a.create.SetSize(msg.Width, msg.Height)
		a.move.SetSize(msg.Width, msg.Height)
		a.delete.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToCreateMsg:
		a.state = ViewCreate
		a.create.SetTarget(msg.Target, msg.Mode)
		return a, a.create.Init()

	case views.SwitchToMoveMsg:
		a.state = ViewMove
		a.move.SetSource(msg.Source, msg.Root)
		return a, nil

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.delete.SetTarget(msg.Target)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, a.browser.Reload("")

	case views.DoneMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, a.browser.Reload(msg.Select)

	case views.FailedMsg:
		// Form views keep their input so the user can fix it; the
		// confirmation goes back to the tree.
		switch a.state {
		case ViewCreate:
			a.create.SetMessage(msg.Err.Error(), true)
		case ViewMove:
			a.move.SetMessage(msg.Err.Error(), true)
		default:
			a.state = ViewBrowser
			a.browser.SetMessage(msg.Err.Error(), true)
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewCreate:
		_, cmd = a.create.Update(msg)
	case ViewMove:
		_, cmd = a.move.Update(msg)
	case ViewDelete:
		_, cmd = a.delete.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewCreate:
		return a.create.View()
	case ViewMove:
		return a.move.View()
	case ViewDelete:
		return a.delete.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
