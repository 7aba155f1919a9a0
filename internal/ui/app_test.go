package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/fletchd/arrdash/internal/api"
	"github.com/fletchd/arrdash/internal/config"
	"github.com/fletchd/arrdash/internal/nav"
	"github.com/fletchd/arrdash/internal/statestore"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.ServerURL = "http://127.0.0.1:9705"

	store := statestore.Open(filepath.Join(dir, "state.json"))
	client := api.NewClient(cfg.ServerURL)

	m, err := NewModel(cfg, filepath.Join(dir, "config.yaml"), client, store, zap.NewNop())
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func TestModelStartShowsDefaultSection(t *testing.T) {
	m := newTestModel(t)
	m.Start("")

	if m.activeSection != "home" {
		t.Errorf("active section = %q, want home", m.activeSection)
	}
	if m.activeSidebar != SidebarMain {
		t.Errorf("active sidebar = %q, want %q", m.activeSidebar, SidebarMain)
	}
}

func TestSidebarItemsResolveToKnownSections(t *testing.T) {
	m := newTestModel(t)
	m.Start("")

	for context, items := range sidebarItems {
		for _, item := range items {
			id, _ := m.router.Resolve(item.Target)
			if _, ok := m.sections[id]; !ok {
				t.Errorf("sidebar %q item %q resolves to unknown section %q", context, item.Label, id)
			}
		}
	}
}

func TestHuntAliasCarriesMode(t *testing.T) {
	m := newTestModel(t)
	m.Start("")

	id, aux := m.router.Resolve("hunt-tv")
	if id != "hunt" || aux != "tv" {
		t.Errorf("Resolve(hunt-tv) = (%q, %q), want (hunt, tv)", id, aux)
	}
}

func TestSettingsSidebarContext(t *testing.T) {
	m := newTestModel(t)
	m.Start("")

	if got := m.router.Switch("config", ""); got != nav.OutcomeSwitched {
		t.Fatalf("Switch(config) = %v, want switched", got)
	}
	if m.activeSection != "settings" {
		t.Errorf("active section = %q, want settings", m.activeSection)
	}
	if m.activeSidebar != SidebarSettings {
		t.Errorf("active sidebar = %q, want %q", m.activeSidebar, SidebarSettings)
	}
}

func TestReloadSectionQuitsAndPersists(t *testing.T) {
	m := newTestModel(t)
	m.Start("")

	if got := m.router.Switch("user", ""); got != nav.OutcomeReloading {
		t.Fatalf("Switch(user) = %v, want reloading", got)
	}
	target, reload := m.ReloadRequested()
	if !reload || target != "user" {
		t.Errorf("ReloadRequested() = (%q, %v), want (user, true)", target, reload)
	}
	if pending, ok := m.store.TakePendingSection(); !ok || pending != "user" {
		t.Errorf("pending section = (%q, %v), want (user, true)", pending, ok)
	}
}

func TestGatedRequestsFallsBackWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ServerURL = "http://127.0.0.1:9705"
	cfg.Features.Requestarr = false

	store := statestore.Open(filepath.Join(dir, "state.json"))
	client := api.NewClient(cfg.ServerURL)

	m, err := NewModel(cfg, filepath.Join(dir, "config.yaml"), client, store, zap.NewNop())
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	m.Start("")

	m.router.Switch("requests", "")
	if m.activeSection != "home" {
		t.Errorf("active section = %q, want home after gate redirect", m.activeSection)
	}
}

func TestEventStreamURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://huntarr.local:9705", "ws://huntarr.local:9705/ws/events"},
		{"https://huntarr.example.com/", "wss://huntarr.example.com/ws/events"},
	}
	for _, tt := range tests {
		if got := eventStreamURL(tt.base); got != tt.want {
			t.Errorf("eventStreamURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestConfirmPromptDecidesOnce(t *testing.T) {
	p := NewConfirmPrompt()

	var choices []nav.Choice
	p.Show(func(c nav.Choice) { choices = append(choices, c) })
	if !p.Active() {
		t.Fatal("prompt should be active after Show")
	}

	// Move from Save to Discard, then confirm.
	p.Update(tea.KeyMsg{Type: tea.KeyRight})
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if p.Active() {
		t.Error("prompt still active after decision")
	}
	if len(choices) != 1 || choices[0] != nav.ChoiceDiscard {
		t.Errorf("choices = %v, want [discard]", choices)
	}

	// A stray key after the decision must not call decide again.
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(choices) != 1 {
		t.Errorf("decide called %d times, want 1", len(choices))
	}
}
