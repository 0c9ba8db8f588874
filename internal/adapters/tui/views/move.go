package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nestedset/internal/adapters/tui/styles"
	"nestedset/internal/application/commands"
	"nestedset/internal/domain"
)

// MoveKeyMap defines key bindings for the move view
type MoveKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Relation key.Binding
	Submit   key.Binding
	Cancel   key.Binding
}

var MoveKeys = MoveKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Relation: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "child/before/after"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "move"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// MoveModel picks a destination node and a relation to it.
type MoveModel struct {
	ViewState
	tree       commands.Tree
	source     *domain.TreeNode
	candidates []*domain.TreeNode
	relation   domain.PlacementKind
	pager      *Paginator
}

// NewMoveModel creates a new move view model
func NewMoveModel(tree commands.Tree) *MoveModel {
	return &MoveModel{
		tree:  tree,
		pager: NewPaginator(15),
	}
}

// SetSource lists every node of root outside source's subtree as a
// destination.
func (m *MoveModel) SetSource(source, root *domain.TreeNode) {
	m.source = source
	m.relation = domain.PlaceChildOf
	m.candidates = nil
	m.ClearMessage()
	if root != nil && source != nil {
		root.Walk(func(n *domain.TreeNode) {
			if n.ID == source.ID || domain.IsAncestorOf(source.Bounds, n.Bounds) {
				return
			}
			m.candidates = append(m.candidates, n)
		})
	}
	m.pager.SetTotal(len(m.candidates))
	m.pager.SetCursor(0)
}

// SetSize updates the view dimensions and the visible window.
func (m *MoveModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(height - 14)
}

// Init initializes the move view
func (m *MoveModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the move view
func (m *MoveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, MoveKeys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, MoveKeys.Up):
			m.pager.CursorUp()
		case key.Matches(msg, MoveKeys.Down):
			m.pager.CursorDown()
		case key.Matches(msg, MoveKeys.Relation):
			m.relation = nextRelation(m.relation)
		case key.Matches(msg, MoveKeys.Submit):
			return m, m.move()
		}
	}

	return m, nil
}

func nextRelation(k domain.PlacementKind) domain.PlacementKind {
	switch k {
	case domain.PlaceChildOf:
		return domain.PlacePrevSiblingOf
	case domain.PlacePrevSiblingOf:
		return domain.PlaceNextSiblingOf
	default:
		return domain.PlaceChildOf
	}
}

// Destination returns the highlighted node, or nil when there is none.
func (m *MoveModel) Destination() *domain.TreeNode {
	if len(m.candidates) == 0 {
		return nil
	}
	return m.candidates[m.pager.Cursor()]
}

// Placement returns the placement the move would use.
func (m *MoveModel) Placement() domain.Placement {
	dest := m.Destination()
	if dest == nil {
		return domain.Placement{}
	}
	switch m.relation {
	case domain.PlacePrevSiblingOf:
		return domain.Before(dest.ID)
	case domain.PlaceNextSiblingOf:
		return domain.After(dest.ID)
	default:
		return domain.ChildOf(dest.ID)
	}
}

func (m *MoveModel) move() tea.Cmd {
	source, placement := m.source, m.Placement()
	return func() tea.Msg {
		if source == nil {
			return FailedMsg{Err: fmt.Errorf("no source selected")}
		}
		res, err := commands.NewMoveCommand(m.tree, source.ID, placement).Execute(context.Background())
		if err != nil {
			return FailedMsg{Err: err}
		}
		return DoneMsg{
			Message: fmt.Sprintf("%s: %s -> %s", res.Message, res.From, res.To),
			Select:  source.ID,
		}
	}
}

// View renders the move view
func (m *MoveModel) View() string {
	v := NewViewBuilder().
		Title("Move Subtree").
		Line(RenderTargetInfo(m.source, "Move")).
		BlankLine()

	if len(m.candidates) == 0 {
		v.Muted("No destination outside the subtree.").BlankLine()
	} else {
		v.Line(RenderLabelValue("Place", m.relation.String()+" "+m.Destination().Label)).BlankLine()
		base := m.candidates[0].Bounds.Depth
		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			var style *lipgloss.Style
			if i == m.pager.Cursor() {
				style = &styles.Highlight
			}
			v.Line(RenderNodeLine(m.candidates[i], base, false, style))
		}
		if m.pager.TotalPages() > 1 {
			v.Muted(fmt.Sprintf("page %d/%d", m.pager.CurrentPage(), m.pager.TotalPages()))
		}
		v.BlankLine()
	}

	return v.Message(m.Message, m.MessageErr).
		Help(MoveKeys.Up, MoveKeys.Down, MoveKeys.Relation, MoveKeys.Submit, MoveKeys.Cancel).
		String()
}
