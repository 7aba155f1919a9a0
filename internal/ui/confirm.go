package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fletchd/arrdash/internal/nav"
)

// confirmChoices are the modal buttons, in display order. The order maps
// directly onto nav.Choice values.
var confirmChoices = []struct {
	label  string
	choice nav.Choice
}{
	{"Save", nav.ChoiceSave},
	{"Discard", nav.ChoiceDiscard},
	{"Cancel", nav.ChoiceCancel},
}

// ConfirmPrompt is the blocking unsaved-changes modal. It satisfies the
// presentation half of nav.DirtyEditor.ConfirmLeave: an editor calls Show
// with the router's decide callback, and the prompt invokes it exactly
// once when the user picks a button.
type ConfirmPrompt struct {
	message string
	active  bool
	cursor  int
	decide  func(nav.Choice)
}

// NewConfirmPrompt creates an inactive prompt.
func NewConfirmPrompt() *ConfirmPrompt {
	return &ConfirmPrompt{message: "You have unsaved changes."}
}

// Show activates the modal. The cursor starts on Save.
func (p *ConfirmPrompt) Show(decide func(nav.Choice)) {
	p.active = true
	p.cursor = 0
	p.decide = decide
}

// Active reports whether the modal is showing. While active it swallows
// all key input.
func (p *ConfirmPrompt) Active() bool {
	return p.active
}

// Update handles key input while the modal is active.
func (p *ConfirmPrompt) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h", "shift+tab":
		if p.cursor > 0 {
			p.cursor--
		}
	case "right", "l", "tab":
		if p.cursor < len(confirmChoices)-1 {
			p.cursor++
		}
	case "s":
		p.finish(nav.ChoiceSave)
	case "d":
		p.finish(nav.ChoiceDiscard)
	case "esc":
		p.finish(nav.ChoiceCancel)
	case "enter":
		p.finish(confirmChoices[p.cursor].choice)
	}
	return nil
}

func (p *ConfirmPrompt) finish(choice nav.Choice) {
	decide := p.decide
	p.active = false
	p.decide = nil
	if decide != nil {
		decide(choice)
	}
}

// View renders the modal box.
func (p *ConfirmPrompt) View() string {
	var b strings.Builder
	b.WriteString(p.message)
	b.WriteString("\n\n")

	buttons := make([]string, len(confirmChoices))
	for i, c := range confirmChoices {
		if i == p.cursor {
			buttons[i] = ModalButtonActiveStyle.Render(c.label)
		} else {
			buttons[i] = ModalButtonStyle.Render(c.label)
		}
	}
	b.WriteString(strings.Join(buttons, "  "))
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("s save · d discard · esc cancel"))

	return ModalStyle.Render(b.String())
}
