package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"nestedset/internal/adapters/tui/styles"
	"nestedset/internal/application/commands"
	"nestedset/internal/domain"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	ExpandAll key.Binding
	New       key.Binding
	Sibling   key.Binding
	Rename    key.Binding
	Move      key.Binding
	Delete    key.Binding
	Bounds    key.Binding
	Copy      key.Binding
	Verify    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "previous page"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdown", "next page"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	ExpandAll: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "expand all"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new child"),
	),
	Sibling: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add after"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Bounds: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "bounds"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy id"),
	),
	Verify: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "verify (resumes a halted tree)"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel is the model for the tree browser view
type BrowserModel struct {
	ViewState
	tree       commands.Tree
	root       *domain.TreeNode
	flatNodes  []*domain.TreeNode
	pager      *Paginator
	loaded     bool
	showBounds bool

	// expanded survives reloads so writes do not collapse the view.
	expanded map[string]bool
	selectID string

	copyID func(string) error
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(tree commands.Tree) *BrowserModel {
	return &BrowserModel{
		tree:     tree,
		pager:    NewPaginator(20),
		expanded: map[string]bool{},
		copyID:   clipboard.WriteAll,
	}
}

// SetClipboard replaces the function used to copy node ids.
func (m *BrowserModel) SetClipboard(fn func(string) error) {
	m.copyID = fn
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *BrowserModel) loadTree() tea.Msg {
	root, err := commands.NewBuildTreeCommand(m.tree).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return treeLoadedMsg{root}
}

type treeLoadedMsg struct {
	root *domain.TreeNode
}

type errMsg struct {
	err error
}

type verifiedMsg struct {
	message string
	ok      bool
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.setRoot(msg.root)
		return m, nil

	case errMsg:
		m.loaded = true
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case verifiedMsg:
		m.SetMessage(msg.message, !msg.ok)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	node := m.SelectedNode()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		m.pager.CursorUp()

	case key.Matches(msg, BrowserKeys.Down):
		m.pager.CursorDown()

	case key.Matches(msg, BrowserKeys.PageUp):
		m.pager.PrevPage()

	case key.Matches(msg, BrowserKeys.PageDown):
		m.pager.NextPage()

	case key.Matches(msg, BrowserKeys.Left):
		if node == nil {
			return nil
		}
		if node.IsExpanded && node.HasChildren() {
			m.setExpanded(node, false)
		} else if node.Parent != nil {
			m.selectNode(node.Parent.ID)
		}

	case key.Matches(msg, BrowserKeys.Right):
		if node != nil && node.HasChildren() {
			m.setExpanded(node, true)
		}

	case key.Matches(msg, BrowserKeys.Enter):
		if node != nil && node.HasChildren() {
			m.setExpanded(node, !node.IsExpanded)
		}

	case key.Matches(msg, BrowserKeys.ExpandAll):
		if m.root != nil {
			m.root.Walk(func(n *domain.TreeNode) { m.expanded[n.ID] = true })
			m.root.ExpandAll()
			m.refreshFlatNodes()
		}

	case key.Matches(msg, BrowserKeys.New):
		if node == nil && m.root != nil {
			return nil
		}
		return switchTo(SwitchToCreateMsg{Target: node, Mode: CreateModeChild})

	case key.Matches(msg, BrowserKeys.Sibling):
		if node != nil {
			return switchTo(SwitchToCreateMsg{Target: node, Mode: CreateModeAfter})
		}

	case key.Matches(msg, BrowserKeys.Rename):
		if node != nil {
			return switchTo(SwitchToCreateMsg{Target: node, Mode: CreateModeRename})
		}

	case key.Matches(msg, BrowserKeys.Move):
		if node != nil {
			return switchTo(SwitchToMoveMsg{Source: node, Root: m.root})
		}

	case key.Matches(msg, BrowserKeys.Delete):
		if node != nil {
			return switchTo(SwitchToDeleteMsg{Target: node})
		}

	case key.Matches(msg, BrowserKeys.Bounds):
		m.showBounds = !m.showBounds

	case key.Matches(msg, BrowserKeys.Copy):
		if node != nil {
			if err := m.copyID(node.ID); err != nil {
				m.SetMessage("copy failed: "+err.Error(), true)
			} else {
				m.SetMessage("Copied "+node.ID, false)
			}
		}

	case key.Matches(msg, BrowserKeys.Verify):
		return m.verify

	case key.Matches(msg, BrowserKeys.Help):
		return switchTo(SwitchToHelpMsg{})
	}

	return nil
}

func switchTo(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// verify checks the tree. A halted tree is resumed when it verifies clean.
func (m *BrowserModel) verify() tea.Msg {
	ctx := context.Background()
	if m.tree.Halted() {
		res, err := commands.NewResumeCommand(m.tree).Execute(ctx)
		if err != nil {
			return errMsg{err}
		}
		return verifiedMsg{message: res.Message, ok: true}
	}
	res, err := commands.NewVerifyCommand(m.tree).Execute(ctx)
	if err != nil {
		return errMsg{err}
	}
	return verifiedMsg{message: res.Message, ok: res.OK()}
}

func (m *BrowserModel) setExpanded(node *domain.TreeNode, expanded bool) {
	node.IsExpanded = expanded
	m.expanded[node.ID] = expanded
	m.refreshFlatNodes()
}

// setRoot installs a freshly built tree, restoring expansion and selection.
func (m *BrowserModel) setRoot(root *domain.TreeNode) {
	var current string
	if m.selectID != "" {
		current = m.selectID
	} else if n := m.SelectedNode(); n != nil {
		current = n.ID
	}

	m.root = root
	m.loaded = true
	m.selectID = ""
	if root == nil {
		m.flatNodes = nil
		m.pager.SetTotal(0)
		return
	}

	if _, seen := m.expanded[root.ID]; !seen {
		m.expanded[root.ID] = true
	}
	root.Walk(func(n *domain.TreeNode) { n.IsExpanded = m.expanded[n.ID] })

	// Reveal the node that should stay selected.
	if target := root.Find(current); target != nil {
		for p := target.Parent; p != nil; p = p.Parent {
			p.IsExpanded = true
			m.expanded[p.ID] = true
		}
	}

	m.refreshFlatNodes()
	if current != "" {
		m.selectNode(current)
	}
}

func (m *BrowserModel) selectNode(id string) {
	for i, n := range m.flatNodes {
		if n.ID == id {
			m.pager.SetCursor(i)
			return
		}
	}
}

// SelectedNode returns the node under the cursor.
func (m *BrowserModel) SelectedNode() *domain.TreeNode {
	if c := m.pager.Cursor(); c >= 0 && c < len(m.flatNodes) {
		return m.flatNodes[c]
	}
	return nil
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.root == nil {
		m.flatNodes = nil
	} else {
		m.flatNodes = m.root.Flatten()
	}
	m.pager.SetTotal(len(m.flatNodes))
}

// View renders the browser
func (m *BrowserModel) View() string {
	if !m.loaded {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("Nested Set"))
	b.WriteString("\n")
	if m.root != nil {
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d nodes", m.root.Bounds.DescendantCount()+1)))
	}
	b.WriteString("\n\n")

	if m.root == nil {
		b.WriteString(styles.MutedText.Render("The tree is empty. Press n to create the root."))
		b.WriteString("\n")
	}

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		node := m.flatNodes[i]
		if i == m.pager.Cursor() {
			b.WriteString(RenderNodeLine(node, 0, m.showBounds, &styles.NodeSelected))
		} else {
			b.WriteString(RenderNodeLine(node, 0, m.showBounds, nil))
		}
		b.WriteString("\n")
	}
	if m.pager.TotalPages() > 1 {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d", m.pager.CurrentPage(), m.pager.TotalPages())))
		b.WriteString("\n")
	}

	if node := m.SelectedNode(); node != nil {
		b.WriteString("\n")
		b.WriteString(styles.NodeBounds.Render(fmt.Sprintf("%s  %s  %d descendants",
			node.ID, node.Bounds, node.Bounds.DescendantCount())))
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(
		BrowserKeys.New, BrowserKeys.Sibling, BrowserKeys.Rename, BrowserKeys.Move,
		BrowserKeys.Delete, BrowserKeys.Copy, BrowserKeys.Help, BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

// SetSize updates the view dimensions and the visible window.
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(height - 12)
}

// Reload rebuilds the tree from the store and puts the cursor on selectID
// when it is set.
func (m *BrowserModel) Reload(selectID string) tea.Cmd {
	m.selectID = selectID
	return m.loadTree
}
