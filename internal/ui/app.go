package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/fletchd/arrdash/internal/api"
	"github.com/fletchd/arrdash/internal/config"
	"github.com/fletchd/arrdash/internal/logging"
	"github.com/fletchd/arrdash/internal/nav"
	"github.com/fletchd/arrdash/internal/statestore"
)

// Sidebar context names. Every section declares which one it shows.
const (
	SidebarMain       = "main"
	SidebarSettings   = "settings"
	SidebarRequestarr = "requestarr"
)

// sidebarItem is one navigable entry in a sidebar context.
type sidebarItem struct {
	Label  string
	Target string
	Aux    string
}

var sidebarItems = map[string][]sidebarItem{
	SidebarMain: {
		{Label: "Home", Target: "home"},
		{Label: "Movie Hunt", Target: "hunt-movies"},
		{Label: "TV Hunt", Target: "hunt-tv"},
		{Label: "Requests", Target: "requests"},
		{Label: "Logs", Target: "logs"},
		{Label: "Settings", Target: "settings"},
	},
	SidebarSettings: {
		{Label: "General", Target: "settings"},
		{Label: "Apps", Target: "apps"},
		{Label: "Swaparr", Target: "swaparr"},
		{Label: "Account", Target: "user"},
		{Label: "Home", Target: "home"},
	},
	SidebarRequestarr: {
		{Label: "Search", Target: "requests"},
		{Label: "Home", Target: "home"},
	},
}

// staticSection renders fixed content and has no lifecycle work.
type staticSection struct {
	body string
}

func (s *staticSection) Init(aux string) error            { return nil }
func (s *staticSection) Cleanup()                         {}
func (s *staticSection) Refresh()                         {}
func (s *staticSection) HandleKey(msg tea.KeyMsg) tea.Cmd { return nil }
func (s *staticSection) View(width int) string            { return s.body }

// inputCapturer is implemented by sections that sometimes hold keyboard
// focus in a text field.
type inputCapturer interface {
	CapturingInput() bool
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the top-level bubbletea model. It also acts as the router's
// presenter: the router decides which section and sidebar are visible,
// the model renders exactly those.
type Model struct {
	cfg    *config.Config
	store  *statestore.Store
	router *nav.Router
	prompt *ConfirmPrompt
	log    *zap.Logger

	sections map[string]SectionView

	activeSection string
	activeSidebar string
	title         string

	width    int
	quitting bool

	reloadRequested bool
	reloadTarget    string
}

// NewModel builds the dashboard model and its navigation table. The
// deep link, when non-empty, is the section to open first; a pending
// section persisted by a previous reload takes precedence over it.
func NewModel(cfg *config.Config, cfgPath string, client *api.Client, store *statestore.Store, log *zap.Logger) (*Model, error) {
	prompt := NewConfirmPrompt()

	settings := NewSettingsEditor(cfg, cfgPath, store, prompt)
	swaparr := NewSwaparrEditor(store, prompt)

	sections := map[string]SectionView{
		"home":     newHomeSection(client),
		"hunt":     newHuntSection(client),
		"requests": newRequestsSection(client),
		"logs":     newLogsSection(eventStreamURL(cfg.ServerURL)),
		"settings": settings,
		"apps":     newAppsSection(client),
		"swaparr":  swaparr,
		"user": &staticSection{
			body: "Account\n\n  Role: " + cfg.Role + "\n",
		},
	}

	navCfg := nav.Config{
		Default:  "home",
		Sidebars: []string{SidebarMain, SidebarSettings, SidebarRequestarr},
		Sections: []nav.Section{
			{ID: "home", Title: "Home", Sidebar: SidebarMain, Module: sections["home"]},
			{
				ID: "hunt", Title: "Media Hunt", Sidebar: SidebarMain,
				Aliases: []nav.Alias{
					{ID: "hunt-movies", Aux: "movie"},
					{ID: "hunt-tv", Aux: "tv"},
				},
				Gate:     func(c nav.Context) bool { return c.Flag(config.FlagMediaHunt) },
				Fallback: "home",
				Module:   sections["hunt"],
			},
			{
				ID: "requests", Title: "Requests", Sidebar: SidebarRequestarr,
				Gate:     func(c nav.Context) bool { return c.Flag(config.FlagRequestarr) },
				Fallback: "home",
				Module:   sections["requests"],
			},
			{ID: "logs", Title: "Logs", Sidebar: SidebarMain, Module: sections["logs"]},
			{
				ID: "settings", Title: "Settings", Sidebar: SidebarSettings,
				Aliases: []nav.Alias{{ID: "config"}},
				Module:  sections["settings"],
			},
			{ID: "apps", Title: "Apps", Sidebar: SidebarSettings, Module: sections["apps"]},
			{ID: "swaparr", Title: "Swaparr", Sidebar: SidebarSettings, Module: sections["swaparr"]},
			{
				ID: "user", Title: "Account", Sidebar: SidebarSettings,
				Gate:           func(c nav.Context) bool { return c.Role == config.RoleAdmin },
				Fallback:       "home",
				RequiresReload: true,
				Module:         sections["user"],
			},
		},
	}

	m := &Model{
		cfg:      cfg,
		store:    store,
		prompt:   prompt,
		log:      log,
		sections: sections,
		title:    "Home",
	}

	navCtx := nav.Context{Flags: cfg.Flags(), Role: cfg.Role}
	router, err := nav.NewRouter(navCfg, navCtx, nav.NewRegistry(), m, store, log)
	if err != nil {
		return nil, err
	}
	m.router = router

	router.Registry().Register("settings", settings)
	router.Registry().Register("swaparr", swaparr)
	return m, nil
}

// Start runs the router's startup resolution. Call before handing the
// model to bubbletea.
func (m *Model) Start(deepLink string) {
	m.router.Start(deepLink)
}

// ReloadRequested reports whether the session ended because a section
// transition needed a full restart, and which section to resume at.
func (m *Model) ReloadRequested() (string, bool) {
	return m.reloadTarget, m.reloadRequested
}

// ShowSection implements nav.Presenter.
func (m *Model) ShowSection(id string) { m.activeSection = id }

// ShowSidebar implements nav.Presenter.
func (m *Model) ShowSidebar(context string) { m.activeSidebar = context }

// SetTitle implements nav.Presenter.
func (m *Model) SetTitle(title string) { m.title = title }

// Reload implements nav.Presenter. The router has already persisted the
// target; the update loop quits and the command layer restarts us.
func (m *Model) Reload(targetID string) {
	m.reloadRequested = true
	m.reloadTarget = targetID
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The unsaved-changes prompt owns the keyboard while visible.
	if m.prompt.Active() {
		cmd := m.prompt.Update(msg)
		if m.reloadRequested {
			return m.quit()
		}
		return m, cmd
	}

	key := msg.String()

	if key == "ctrl+c" {
		return m.quit()
	}

	// Sections with a focused text input get every key, or typing a
	// digit would navigate away mid-edit.
	if capturer, ok := m.sections[m.activeSection].(inputCapturer); ok && capturer.CapturingInput() {
		return m, m.sections[m.activeSection].HandleKey(msg)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		items := sidebarItems[m.activeSidebar]
		idx := int(key[0] - '1')
		if idx < len(items) {
			from := m.activeSection
			outcome := m.router.Switch(items[idx].Target, items[idx].Aux)
			logging.LogNavigation(from, items[idx].Target, outcome.String())
			if m.reloadRequested {
				return m.quit()
			}
		}
		return m, nil
	}

	if section, ok := m.sections[m.activeSection]; ok {
		return m, section.HandleKey(msg)
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if section, ok := m.sections[m.activeSection]; ok {
		section.Cleanup()
	}
	return m, tea.Quit
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("arrdash · " + m.title))
	b.WriteString("\n\n")

	sidebar := m.renderSidebar()
	content := m.renderContent(width - SidebarWidth - 4)

	sideLines := strings.Split(sidebar, "\n")
	bodyLines := strings.Split(content, "\n")
	rows := len(sideLines)
	if len(bodyLines) > rows {
		rows = len(bodyLines)
	}
	for i := 0; i < rows; i++ {
		var side, body string
		if i < len(sideLines) {
			side = sideLines[i]
		}
		if i < len(bodyLines) {
			body = bodyLines[i]
		}
		b.WriteString(fmt.Sprintf("%-*s  %s\n", SidebarWidth, side, body))
	}

	if m.prompt.Active() {
		b.WriteString("\n")
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("1-9 navigate · ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	for i, item := range sidebarItems[m.activeSidebar] {
		line := fmt.Sprintf("%d %s", i+1, item.Label)

		resolved, _ := m.router.Resolve(item.Target)
		if resolved == m.activeSection {
			if editor, ok := m.router.Registry().Editor(m.activeSection); ok && editor.IsDirty() {
				line += DirtyMarkerStyle.Render(" *")
			}
			b.WriteString(SidebarActiveStyle.Render(line))
		} else {
			b.WriteString(SidebarItemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderContent(width int) string {
	section, ok := m.sections[m.activeSection]
	if !ok {
		return ""
	}
	return section.View(width)
}

// eventStreamURL converts the configured server URL into the websocket
// endpoint for the live event feed.
func eventStreamURL(base string) string {
	url := strings.TrimSuffix(base, "/")
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url + "/ws/events"
}

// Run starts the dashboard event loop and blocks until it exits. It
// returns the reload target when the exit was a forced section reload.
func Run(cfg *config.Config, cfgPath string, client *api.Client, store *statestore.Store, log *zap.Logger, deepLink string) (reloadTarget string, reload bool, err error) {
	m, err := NewModel(cfg, cfgPath, client, store, log)
	if err != nil {
		return "", false, err
	}
	m.Start(deepLink)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return "", false, fmt.Errorf("running dashboard: %w", err)
	}
	target, requested := m.ReloadRequested()
	return target, requested, nil
}
