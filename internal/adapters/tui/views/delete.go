package views

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"nestedset/internal/adapters/tui/styles"
	"nestedset/internal/application/commands"
)

// DeleteModel is the model for the delete confirmation view
type DeleteModel struct {
	ConfirmationModel
	tree commands.Tree
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(tree commands.Tree) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		tree:              tree,
	}
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		_, cmd := m.HandleKeyMsg(msg,
			m.doDelete,
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		return m, cmd
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	if m.TargetNode == nil {
		return FailedMsg{Err: errors.New("no target selected")}
	}

	res, err := commands.NewDeleteCommand(m.tree, m.TargetNode.ID).Execute(context.Background())
	if err != nil {
		return FailedMsg{Err: err}
	}

	return DoneMsg{Message: res.Message, Select: res.ParentID}
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	v := NewViewBuilder().
		Title("Delete Node").
		Line(RenderTargetInfo(m.TargetNode, "Delete")).
		BlankLine()

	if n := m.TargetNode; n != nil && n.HasChildren() {
		if n.Parent == nil {
			v.Line(styles.ErrorMsg.Render("The root cannot be deleted while it has children.")).BlankLine()
		} else {
			v.Muted(fmt.Sprintf("  %d descendants move up one level under %s.", n.Bounds.DescendantCount(), n.Parent.Label)).BlankLine()
		}
	}

	return v.Message(m.Message, m.MessageErr).
		Raw(RenderConfirmPrompt("Are you sure?")).
		String()
}
