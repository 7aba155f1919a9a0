package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fletchd/arrdash/internal/config"
	"github.com/fletchd/arrdash/internal/nav"
	"github.com/fletchd/arrdash/internal/statestore"
)

// SettingsEditor is the main settings form: server URL plus the feature
// toggles. Edits accumulate in a pending copy; the section is dirty while
// pending differs from what is on disk.
type SettingsEditor struct {
	cfg     *config.Config
	cfgPath string
	store   *statestore.Store
	prompt  *ConfirmPrompt

	serverInput textinput.Model
	pending     config.Features
	cursor      int
	editing     bool
	status      string
	statusErr   bool
}

// settingsFields lists the form rows in display order.
var settingsFields = []string{"Server URL", "Requestarr", "Media Hunt", "Low Usage Mode"}

// NewSettingsEditor creates the editor over the loaded configuration.
func NewSettingsEditor(cfg *config.Config, cfgPath string, store *statestore.Store, prompt *ConfirmPrompt) *SettingsEditor {
	input := textinput.New()
	input.Placeholder = "http://127.0.0.1:9705"
	input.CharLimit = 200
	input.SetValue(cfg.ServerURL)

	return &SettingsEditor{
		cfg:         cfg,
		cfgPath:     cfgPath,
		store:       store,
		prompt:      prompt,
		serverInput: input,
		pending:     cfg.Features,
	}
}

// IsDirty reports whether the form holds unsaved edits.
func (e *SettingsEditor) IsDirty() bool {
	return e.pending != e.cfg.Features || e.serverInput.Value() != e.cfg.ServerURL
}

// ConfirmLeave presents the save/discard/cancel modal.
func (e *SettingsEditor) ConfirmLeave(decide func(nav.Choice)) {
	e.prompt.Show(decide)
}

// Save persists the pending edits to the config file and refreshes the
// optimistic settings snapshot. On failure the form keeps its edits and
// shows the error inline.
func (e *SettingsEditor) Save() error {
	e.cfg.ServerURL = strings.TrimSpace(e.serverInput.Value())
	e.cfg.Features = e.pending
	if err := e.cfg.SaveTo(e.cfgPath); err != nil {
		e.status = "Save failed: " + err.Error()
		e.statusErr = true
		return err
	}
	if e.store != nil {
		// Best effort; the config file is the source of truth.
		_ = e.store.SaveSnapshot(&statestore.SettingsSnapshot{
			Toggles: e.cfg.Flags(),
			Values:  map[string]string{"server_url": e.cfg.ServerURL},
		})
	}
	e.status = "Settings saved"
	e.statusErr = false
	return nil
}

// Discard reverts the pending edits to the saved values.
func (e *SettingsEditor) Discard() {
	e.pending = e.cfg.Features
	e.serverInput.SetValue(e.cfg.ServerURL)
	e.editing = false
	e.serverInput.Blur()
	e.status = ""
}

// Init implements nav.Module.
func (e *SettingsEditor) Init(aux string) error {
	e.status = ""
	return nil
}

// Cleanup implements nav.Module.
func (e *SettingsEditor) Cleanup() {
	e.editing = false
	e.serverInput.Blur()
}

// Refresh implements nav.Module: re-reads the saved config so an external
// edit shows up, unless the form is dirty.
func (e *SettingsEditor) Refresh() {
	if e.IsDirty() {
		return
	}
	if cfg, err := config.LoadFrom(e.cfgPath); err == nil {
		*e.cfg = *cfg
		e.Discard()
	}
}

// CapturingInput reports whether the URL field has keyboard focus.
func (e *SettingsEditor) CapturingInput() bool { return e.editing }

// HandleKey processes form input.
func (e *SettingsEditor) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if e.editing {
		switch msg.String() {
		case "enter", "esc":
			e.editing = false
			e.serverInput.Blur()
		default:
			var cmd tea.Cmd
			e.serverInput, cmd = e.serverInput.Update(msg)
			return cmd
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < len(settingsFields)-1 {
			e.cursor++
		}
	case "enter", " ":
		if e.cursor == 0 {
			e.editing = true
			return e.serverInput.Focus()
		}
		e.toggle(e.cursor)
	case "ctrl+s":
		_ = e.Save()
	}
	return nil
}

func (e *SettingsEditor) toggle(cursor int) {
	switch cursor {
	case 1:
		e.pending.Requestarr = !e.pending.Requestarr
	case 2:
		e.pending.MediaHunt = !e.pending.MediaHunt
	case 3:
		e.pending.LowUsageMode = !e.pending.LowUsageMode
	}
}

// View renders the form.
func (e *SettingsEditor) View(width int) string {
	var b strings.Builder

	values := []string{
		e.serverInput.View(),
		onOff(e.pending.Requestarr),
		onOff(e.pending.MediaHunt),
		onOff(e.pending.LowUsageMode),
	}
	for i, field := range settingsFields {
		marker := "  "
		if i == e.cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-16s %s", marker, field, values[i])
		if i == e.cursor {
			b.WriteString(SidebarActiveStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if e.IsDirty() {
		b.WriteString(DirtyMarkerStyle.Render("● unsaved changes"))
		b.WriteString("  ")
		b.WriteString(HelpStyle.Render("ctrl+s save"))
		b.WriteString("\n")
	}
	if e.status != "" {
		if e.statusErr {
			b.WriteString(StatusErrorStyle.Render(e.status))
		} else {
			b.WriteString(StatusOKStyle.Render(e.status))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SwaparrEditor is the smaller form for the swap-download watchdog. It
// edits values kept in the settings snapshot and is dirty independently
// of the main settings form.
type SwaparrEditor struct {
	store  *statestore.Store
	prompt *ConfirmPrompt

	savedEnabled bool
	savedStrikes int

	enabled bool
	strikes int
	cursor  int
	status  string
}

// NewSwaparrEditor loads the saved values from the snapshot.
func NewSwaparrEditor(store *statestore.Store, prompt *ConfirmPrompt) *SwaparrEditor {
	e := &SwaparrEditor{store: store, prompt: prompt, savedStrikes: 3}
	if store != nil {
		if v, ok := store.Toggle("swaparr_enabled"); ok {
			e.savedEnabled = v
		}
		if snap, ok := store.Snapshot(); ok && snap.Values != nil {
			if n, err := strconv.Atoi(snap.Values["swaparr_max_strikes"]); err == nil {
				e.savedStrikes = n
			}
		}
	}
	e.enabled = e.savedEnabled
	e.strikes = e.savedStrikes
	return e
}

// IsDirty reports whether the form holds unsaved edits.
func (e *SwaparrEditor) IsDirty() bool {
	return e.enabled != e.savedEnabled || e.strikes != e.savedStrikes
}

// ConfirmLeave presents the save/discard/cancel modal.
func (e *SwaparrEditor) ConfirmLeave(decide func(nav.Choice)) {
	e.prompt.Show(decide)
}

// Save persists the pending values into the settings snapshot.
func (e *SwaparrEditor) Save() error {
	snap := &statestore.SettingsSnapshot{}
	if e.store != nil {
		if existing, ok := e.store.Snapshot(); ok {
			snap = existing
		}
	}
	if snap.Toggles == nil {
		snap.Toggles = make(map[string]bool)
	}
	if snap.Values == nil {
		snap.Values = make(map[string]string)
	}
	snap.Toggles["swaparr_enabled"] = e.enabled
	snap.Values["swaparr_max_strikes"] = strconv.Itoa(e.strikes)

	if e.store != nil {
		if err := e.store.SaveSnapshot(snap); err != nil {
			e.status = "Save failed: " + err.Error()
			return err
		}
	}
	e.savedEnabled = e.enabled
	e.savedStrikes = e.strikes
	e.status = "Saved"
	return nil
}

// Discard reverts the pending values.
func (e *SwaparrEditor) Discard() {
	e.enabled = e.savedEnabled
	e.strikes = e.savedStrikes
	e.status = ""
}

// Init implements nav.Module.
func (e *SwaparrEditor) Init(aux string) error { e.status = ""; return nil }

// Cleanup implements nav.Module.
func (e *SwaparrEditor) Cleanup() {}

// Refresh implements nav.Module.
func (e *SwaparrEditor) Refresh() {}

// HandleKey processes form input.
func (e *SwaparrEditor) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < 1 {
			e.cursor++
		}
	case "enter", " ":
		if e.cursor == 0 {
			e.enabled = !e.enabled
		}
	case "left", "-":
		if e.cursor == 1 && e.strikes > 1 {
			e.strikes--
		}
	case "right", "+":
		if e.cursor == 1 && e.strikes < 10 {
			e.strikes++
		}
	case "ctrl+s":
		_ = e.Save()
	}
	return nil
}

// View renders the form.
func (e *SwaparrEditor) View(width int) string {
	var b strings.Builder
	rows := []string{
		fmt.Sprintf("Enabled      %s", onOff(e.enabled)),
		fmt.Sprintf("Max strikes  %d", e.strikes),
	}
	for i, row := range rows {
		marker := "  "
		if i == e.cursor {
			marker = "> "
		}
		if i == e.cursor {
			b.WriteString(SidebarActiveStyle.Render(marker + row))
		} else {
			b.WriteString(marker + row)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if e.IsDirty() {
		b.WriteString(DirtyMarkerStyle.Render("● unsaved changes"))
		b.WriteString("\n")
	}
	if e.status != "" {
		b.WriteString(StatusOKStyle.Render(e.status))
		b.WriteString("\n")
	}
	return b.String()
}

func onOff(v bool) string {
	if v {
		return StatusOKStyle.Render("on")
	}
	return CardMetaStyle.Render("off")
}
