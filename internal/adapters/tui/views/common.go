package views

import "nestedset/internal/domain"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Messages for view switching
type SwitchToCreateMsg struct {
	Target *domain.TreeNode
	Mode   CreateMode
}

type SwitchToDeleteMsg struct {
	Target *domain.TreeNode
}

type SwitchToMoveMsg struct {
	Source *domain.TreeNode
	Root   *domain.TreeNode
}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

// DoneMsg is sent by a form view after a successful write. The browser
// reloads and shows Message.
type DoneMsg struct {
	Message string
	// Select is the id the cursor should land on after the reload.
	Select string
}

// FailedMsg is sent by a form view when its write failed.
type FailedMsg struct {
	Err error
}

// nodeText formats a node as "label  [l,r]@d" or just the label.
func nodeText(n *domain.TreeNode, bounds bool) string {
	if !bounds {
		return n.Label
	}
	return n.Label + "  " + n.Bounds.String()
}
