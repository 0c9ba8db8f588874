package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"nestedset/internal/application/commands"
	"nestedset/internal/domain"
)

// CreateMode says what the label form does with its target node.
type CreateMode int

const (
	// CreateModeChild adds a last child of the target, or the root when
	// there is no target.
	CreateModeChild CreateMode = iota
	// CreateModeAfter adds a next sibling of the target.
	CreateModeAfter
	// CreateModeRename changes the target's label.
	CreateModeRename
)

// CreateModel is the label form used to add and rename nodes.
type CreateModel struct {
	ViewState
	tree   commands.Tree
	form   *InputForm
	target *domain.TreeNode
	mode   CreateMode
}

// NewCreateModel creates a new create view model
func NewCreateModel(tree commands.Tree) *CreateModel {
	return &CreateModel{
		tree: tree,
		form: NewInputForm(NewInputField("Label:", "Label", 200)),
	}
}

// SetTarget prepares the form for mode on target.
func (m *CreateModel) SetTarget(target *domain.TreeNode, mode CreateMode) {
	m.target = target
	m.mode = mode
	m.ClearMessage()
	m.form.Reset()
	if mode == CreateModeRename && target != nil {
		m.form.SetValue(target.Label)
	}
}

// Init initializes the create view
func (m *CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the create view
func (m *CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit(m.form.Value())
		}
	}

	return m, m.form.Update(msg)
}

func (m *CreateModel) placement() domain.Placement {
	if m.target == nil {
		return domain.Placement{}
	}
	if m.mode == CreateModeAfter {
		return domain.After(m.target.ID)
	}
	return domain.ChildOf(m.target.ID)
}

func (m *CreateModel) submit(label string) tea.Cmd {
	mode, target, placement := m.mode, m.target, m.placement()
	return func() tea.Msg {
		ctx := context.Background()

		if mode == CreateModeRename {
			if target == nil {
				return FailedMsg{Err: fmt.Errorf("no target selected")}
			}
			res, err := commands.NewRenameCommand(m.tree, target.ID, label).Execute(ctx)
			if err != nil {
				return FailedMsg{Err: err}
			}
			return DoneMsg{Message: res.Message, Select: target.ID}
		}

		res, err := commands.NewCreateCommand(m.tree, label, placement).Execute(ctx)
		if err != nil {
			return FailedMsg{Err: err}
		}
		return DoneMsg{Message: res.Message, Select: res.Record.ID}
	}
}

func (m *CreateModel) title() (string, string) {
	switch {
	case m.mode == CreateModeRename:
		return "Rename Node", "Renaming keeps the node's position."
	case m.target == nil:
		return "Create Root", "The tree is empty. The new node becomes its root."
	case m.mode == CreateModeAfter:
		return "Add Sibling", "Adding after " + m.target.Label + "."
	default:
		return "Add Child", "Adding as the last child of " + m.target.Label + "."
	}
}

// View renders the create view
func (m *CreateModel) View() string {
	title, subtitle := m.title()
	submit := "create"
	if m.mode == CreateModeRename {
		submit = "rename"
	}

	return NewViewBuilder().
		Title(title).
		Subtitle(subtitle).
		Line(m.form.Render()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp(submit)).
		String()
}
