package nav

// Choice is the user's answer to the unsaved-changes prompt.
type Choice int

const (
	// ChoiceSave saves the pending edits, then continues navigating.
	ChoiceSave Choice = iota
	// ChoiceDiscard reverts the pending edits and continues navigating.
	ChoiceDiscard
	// ChoiceCancel aborts navigation; the active section is unchanged.
	ChoiceCancel
)

// String returns the choice name for logs.
func (c Choice) String() string {
	switch c {
	case ChoiceSave:
		return "save"
	case ChoiceDiscard:
		return "discard"
	case ChoiceCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// DirtyEditor is a view that can hold unsaved user input. The router
// consults the editor registered for the outgoing section before leaving
// it; the editor owns its own save/revert behaviour and error display.
type DirtyEditor interface {
	// IsDirty reports whether unsaved changes exist right now.
	IsDirty() bool

	// ConfirmLeave presents the save/discard/cancel prompt and calls
	// decide exactly once with the user's answer. Only called when
	// IsDirty reports true. The prompt waits indefinitely for input.
	ConfirmLeave(decide func(Choice))

	// Save persists the pending edits. On failure the editor surfaces
	// the error itself and navigation is held.
	Save() error

	// Discard reverts the pending edits.
	Discard()
}

// LeaveDecision is the immediate result of a pre-navigation dirty check.
type LeaveDecision int

const (
	// LeaveClear means there is nothing to save; navigation may proceed
	// right away.
	LeaveClear LeaveDecision = iota
	// LeaveDeferred means a confirm prompt is showing; the outcome
	// arrives later through the decide callback.
	LeaveDeferred
)

// Registry tracks the dirty editors by owning section id. At most one
// editor per section; registering again for the same id replaces the
// previous registration.
type Registry struct {
	editors map[string]DirtyEditor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{editors: make(map[string]DirtyEditor)}
}

// Register associates an editor with a section id, replacing any prior
// registration for that id.
func (r *Registry) Register(sectionID string, editor DirtyEditor) {
	r.editors[sectionID] = editor
}

// Editor returns the editor registered for a section, if any.
func (r *Registry) Editor(sectionID string) (DirtyEditor, bool) {
	e, ok := r.editors[sectionID]
	return e, ok
}

// CheckBeforeLeaving runs the dirty check for the section being left.
// With no editor registered, or a clean editor, it returns LeaveClear and
// never touches decide. Otherwise the editor's prompt is shown and decide
// receives the user's choice on a later event-loop turn.
func (r *Registry) CheckBeforeLeaving(sectionID string, decide func(Choice)) LeaveDecision {
	editor, ok := r.editors[sectionID]
	if !ok || !editor.IsDirty() {
		return LeaveClear
	}
	editor.ConfirmLeave(decide)
	return LeaveDeferred
}
