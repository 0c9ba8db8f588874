package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"nestedset/internal/adapters/memory"
	"nestedset/internal/application/commands"
	"nestedset/internal/domain"
	"nestedset/internal/engine"
)

// step runs cmd and feeds its message back into the app. It returns the
// follow-up command.
func step(a *App, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	_, next := a.Update(cmd())
	return next
}

func key(a *App, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := a.Update(msg)
	return cmd
}

// submit types label into the open form and runs the write and the reload.
func submit(t *testing.T, a *App, label string) {
	t.Helper()
	if a.State() != ViewCreate {
		t.Fatalf("state = %v, want create form", a.State())
	}
	key(a, label)
	step(a, step(a, key(a, "enter")))
	if a.State() != ViewBrowser {
		t.Fatalf("state = %v after submit; view:\n%s", a.State(), a.View())
	}
}

func selected(a *App) string {
	if n := a.Browser().SelectedNode(); n != nil {
		return n.Label
	}
	return ""
}

func TestApp_EditSession(t *testing.T) {
	store, err := memory.NewDatabase().Tree("nodes", domain.NewField("tree"))
	if err != nil {
		t.Fatal(err)
	}
	tree := engine.New(store)
	a := NewApp(tree)
	ctx := context.Background()

	step(a, a.Init())
	if !strings.Contains(a.View(), "The tree is empty") {
		t.Fatalf("unexpected view:\n%s", a.View())
	}

	step(a, key(a, "n"))
	submit(t, a, "Root")
	if got := selected(a); got != "Root" {
		t.Fatalf("selected %q after creating the root", got)
	}

	step(a, key(a, "n"))
	submit(t, a, "A")
	step(a, key(a, "a"))
	submit(t, a, "B")
	if got := selected(a); got != "B" {
		t.Fatalf("selected %q, want B", got)
	}

	// Move B before A.
	step(a, key(a, "m"))
	if a.State() != ViewMove {
		t.Fatalf("state = %v, want move", a.State())
	}
	key(a, "j")
	key(a, "tab")
	step(a, step(a, key(a, "enter")))
	if a.State() != ViewBrowser {
		t.Fatalf("move did not finish:\n%s", a.View())
	}

	root, err := commands.NewBuildTreeCommand(tree).Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Children) != 2 || root.Children[0].Label != "B" || root.Children[1].Label != "A" {
		t.Fatalf("unexpected children after move: %+v", root.Children)
	}

	// Delete B, which is still selected.
	step(a, key(a, "d"))
	step(a, step(a, key(a, "y")))
	if got := selected(a); got != "Root" {
		t.Errorf("selected %q after delete, want the parent", got)
	}

	// The root still has A and refuses to go.
	step(a, key(a, "d"))
	step(a, key(a, "y"))
	if a.State() != ViewBrowser {
		t.Fatalf("state = %v after failed delete", a.State())
	}
	if !a.Browser().MessageErr || !strings.Contains(a.Browser().Message, "root") {
		t.Errorf("message = %q", a.Browser().Message)
	}

	if err := tree.Queries().Verify(ctx); err != nil {
		t.Errorf("tree invalid after session: %v", err)
	}
}
