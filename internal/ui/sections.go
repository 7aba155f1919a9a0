package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fletchd/arrdash/internal/api"
	"github.com/fletchd/arrdash/internal/nav"
	"github.com/fletchd/arrdash/internal/requestarr"
	"github.com/fletchd/arrdash/internal/stream"
)

const (
	statsInterval = 30 * time.Second
	huntInterval  = 15 * time.Second

	fetchTimeout = 8 * time.Second

	maxLogLines = 200
)

// SectionView is what the app model needs from each section: the nav
// lifecycle plus rendering and key handling.
type SectionView interface {
	nav.Module
	View(width int) string
	HandleKey(msg tea.KeyMsg) tea.Cmd
}

// homeSection shows backend liveness and instance counts, refreshed by a
// poller it owns.
type homeSection struct {
	client *api.Client
	poller *stream.Poller

	mu      sync.Mutex
	sonarr  int
	radarr  int
	lastErr string
	fetched time.Time
}

func newHomeSection(client *api.Client) *homeSection {
	s := &homeSection{client: client}
	s.poller = stream.NewPoller(statsInterval, s.poll)
	return s
}

func (s *homeSection) poll(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	set, err := s.client.RequestarrInstances(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = api.ShortMessage(err)
		return
	}
	s.sonarr = len(set.Sonarr)
	s.radarr = len(set.Radarr)
	s.lastErr = ""
	s.fetched = time.Now()
}

func (s *homeSection) Init(aux string) error {
	s.poller.Start()
	return nil
}

func (s *homeSection) Cleanup() { s.poller.Stop() }

func (s *homeSection) Refresh() {
	// Restarting the poller fires an immediate fetch.
	s.poller.Stop()
	s.poller.Start()
}

func (s *homeSection) HandleKey(msg tea.KeyMsg) tea.Cmd { return nil }

func (s *homeSection) View(width int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString("Backend overview\n\n")
	if s.lastErr != "" {
		b.WriteString(StatusErrorStyle.Render(s.lastErr))
		b.WriteString("\n")
		return b.String()
	}
	if s.fetched.IsZero() {
		b.WriteString(CardMetaStyle.Render("Loading..."))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("  Sonarr instances: %d\n", s.sonarr))
	b.WriteString(fmt.Sprintf("  Radarr instances: %d\n", s.radarr))
	b.WriteString(CardMetaStyle.Render(fmt.Sprintf("\n  updated %s", s.fetched.Format("15:04:05"))))
	b.WriteString("\n")
	return b.String()
}

// logsSection tails the backend's live event stream. The stream is
// created on entry and closed on exit, so no connection outlives the
// section being visible.
type logsSection struct {
	streamURL string

	mu     sync.Mutex
	stream *stream.EventStream
	lines  []string
	done   chan struct{}
}

func newLogsSection(streamURL string) *logsSection {
	return &logsSection{streamURL: streamURL}
}

func (s *logsSection) Init(aux string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream != nil {
		return nil
	}

	es := stream.NewEventStream(s.streamURL, nil)
	es.Connect()
	s.stream = es
	s.done = make(chan struct{})

	go func(es *stream.EventStream, done chan struct{}) {
		defer close(done)
		for ev := range es.Events() {
			line := ev.Message
			if line == "" {
				line = ev.Type
			}
			s.mu.Lock()
			s.lines = append(s.lines, line)
			if len(s.lines) > maxLogLines {
				s.lines = s.lines[len(s.lines)-maxLogLines:]
			}
			s.mu.Unlock()
		}
	}(es, s.done)
	return nil
}

func (s *logsSection) Cleanup() {
	s.mu.Lock()
	es := s.stream
	done := s.done
	s.stream = nil
	s.done = nil
	s.mu.Unlock()

	if es != nil {
		es.Close()
		<-done
	}
}

func (s *logsSection) Refresh() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

func (s *logsSection) HandleKey(msg tea.KeyMsg) tea.Cmd { return nil }

func (s *logsSection) View(width int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	connected := s.stream != nil && s.stream.Connected()

	var b strings.Builder
	if connected {
		b.WriteString(StatusOKStyle.Render("● live"))
	} else {
		b.WriteString(CardMetaStyle.Render("○ connecting..."))
	}
	b.WriteString("\n\n")

	start := 0
	visible := 20
	if len(s.lines) > visible {
		start = len(s.lines) - visible
	}
	for _, line := range s.lines[start:] {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// huntSection is the shared movie/TV hunt activity view. The aux context
// from navigation selects the mode; the old per-mode section ids resolve
// here through aliases.
type huntSection struct {
	client *api.Client
	poller *stream.Poller

	mu      sync.Mutex
	mode    string // "movie" or "tv"
	checked time.Time
	lastErr string
}

func newHuntSection(client *api.Client) *huntSection {
	s := &huntSection{client: client, mode: "movie"}
	s.poller = stream.NewPoller(huntInterval, s.poll)
	return s
}

func (s *huntSection) poll(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	_, err := s.client.RequestarrInstances(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = api.ShortMessage(err)
		return
	}
	s.lastErr = ""
	s.checked = time.Now()
}

func (s *huntSection) Init(aux string) error {
	s.mu.Lock()
	if aux == "tv" || aux == "movie" {
		s.mode = aux
	}
	s.mu.Unlock()
	s.poller.Start()
	return nil
}

func (s *huntSection) Cleanup() { s.poller.Stop() }

func (s *huntSection) Refresh() {
	s.poller.Stop()
	s.poller.Start()
}

func (s *huntSection) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "m" {
		s.mu.Lock()
		if s.mode == "movie" {
			s.mode = "tv"
		} else {
			s.mode = "movie"
		}
		s.mu.Unlock()
	}
	return nil
}

func (s *huntSection) View(width int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	if s.mode == "tv" {
		b.WriteString("TV hunt activity\n\n")
	} else {
		b.WriteString("Movie hunt activity\n\n")
	}
	if s.lastErr != "" {
		b.WriteString(StatusErrorStyle.Render(s.lastErr))
	} else if s.checked.IsZero() {
		b.WriteString(CardMetaStyle.Render("Loading..."))
	} else {
		b.WriteString(StatusOKStyle.Render("backend reachable"))
		b.WriteString(CardMetaStyle.Render(fmt.Sprintf("  checked %s", s.checked.Format("15:04:05"))))
	}
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("m switch movie/tv"))
	b.WriteString("\n")
	return b.String()
}

// requestsSection wraps the search/request widget.
type requestsSection struct {
	widget *requestarr.Widget
	input  textinput.Model
	cursor int
	typing bool
}

func newRequestsSection(client *api.Client) *requestsSection {
	input := textinput.New()
	input.Placeholder = "search movies and series"
	input.CharLimit = 120
	return &requestsSection{
		widget: requestarr.New(client),
		input:  input,
	}
}

func (s *requestsSection) Init(aux string) error {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	// A backend hiccup here is shown inline, not treated as a failed
	// section entry.
	_ = s.widget.LoadInstances(ctx)
	return nil
}

func (s *requestsSection) Cleanup() {
	s.typing = false
	s.input.Blur()
}

func (s *requestsSection) Refresh() {
	if s.widget.Query != "" {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		_ = s.widget.Search(ctx, s.widget.Query)
	}
}

// CapturingInput reports whether the search box has keyboard focus.
func (s *requestsSection) CapturingInput() bool { return s.typing }

func (s *requestsSection) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if s.typing {
		switch msg.String() {
		case "enter":
			s.typing = false
			s.input.Blur()
			s.cursor = 0
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()
			_ = s.widget.Search(ctx, strings.TrimSpace(s.input.Value()))
		case "esc":
			s.typing = false
			s.input.Blur()
		default:
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return cmd
		}
		return nil
	}

	switch msg.String() {
	case "/":
		s.typing = true
		return s.input.Focus()
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.widget.Cards)-1 {
			s.cursor++
		}
	case "i":
		s.cycleInstance()
	case "enter":
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		_ = s.widget.Request(ctx, s.cursor)
	}
	return nil
}

// cycleInstance rotates through the configured instances across both apps.
func (s *requestsSection) cycleInstance() {
	set := s.widget.Instances()
	if set == nil {
		return
	}
	type target struct{ app, name string }
	var targets []target
	for _, inst := range set.Radarr {
		targets = append(targets, target{api.AppRadarr, inst.Name})
	}
	for _, inst := range set.Sonarr {
		targets = append(targets, target{api.AppSonarr, inst.Name})
	}
	if len(targets) == 0 {
		return
	}

	app, name := s.widget.Selected()
	next := 0
	for i, tgt := range targets {
		if tgt.app == app && tgt.name == name {
			next = (i + 1) % len(targets)
			break
		}
	}
	s.widget.SelectInstance(targets[next].app, targets[next].name)
}

func (s *requestsSection) View(width int) string {
	var b strings.Builder

	app, name := s.widget.Selected()
	if name != "" {
		b.WriteString(CardMetaStyle.Render(fmt.Sprintf("instance: %s/%s (i to switch)", app, name)))
		b.WriteString("\n")
	}
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	if s.widget.Status != "" {
		b.WriteString(StatusErrorStyle.Render(s.widget.Status))
		b.WriteString("\n")
	}

	for i, card := range s.widget.Cards {
		marker := "  "
		if i == s.cursor && !s.typing {
			marker = "> "
		}
		title := fmt.Sprintf("%s (%d)", card.Item.Title, card.Item.Year)
		b.WriteString(marker)
		b.WriteString(CardTitleStyle.Render(title))
		b.WriteString("  ")
		if card.Button.Enabled {
			b.WriteString(ButtonEnabledStyle.Render(card.Button.Label))
		} else {
			b.WriteString(ButtonDisabledStyle.Render(card.Button.Label))
		}
		b.WriteString("\n")
		b.WriteString("    ")
		b.WriteString(CardMetaStyle.Render(card.StatusLine()))
		b.WriteString("\n")
	}

	if len(s.widget.Cards) == 0 && s.widget.Status == "" {
		b.WriteString(HelpStyle.Render("/ to search"))
		b.WriteString("\n")
	}
	return b.String()
}

// appsSection lets the user run backend connection tests per app and
// reset an instance's processed-media state.
type appsSection struct {
	client *api.Client

	mu      sync.Mutex
	cursor  int
	results map[string]string
	busy    bool
}

func newAppsSection(client *api.Client) *appsSection {
	return &appsSection{client: client, results: make(map[string]string)}
}

func (s *appsSection) Init(aux string) error { return nil }
func (s *appsSection) Cleanup()              {}

func (s *appsSection) Refresh() {
	s.mu.Lock()
	s.results = make(map[string]string)
	s.mu.Unlock()
}

func (s *appsSection) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		s.mu.Lock()
		if s.cursor > 0 {
			s.cursor--
		}
		s.mu.Unlock()
	case "down", "j":
		s.mu.Lock()
		if s.cursor < len(api.KnownApps)-1 {
			s.cursor++
		}
		s.mu.Unlock()
	case "t":
		s.runTest()
	case "R":
		s.runReset()
	}
	return nil
}

func (s *appsSection) runTest() {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return
	}
	s.busy = true
	app := api.KnownApps[s.cursor]
	s.results[app] = "testing..."
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		result, err := s.client.TestConnection(ctx, app, "", "")

		s.mu.Lock()
		defer s.mu.Unlock()
		s.busy = false
		switch {
		case err != nil:
			s.results[app] = "Connection failed"
		case result.Success:
			s.results[app] = "OK " + result.Version
		default:
			s.results[app] = firstOf(result.Message, "Connection failed")
		}
	}()
}

func (s *appsSection) runReset() {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return
	}
	s.busy = true
	app := api.KnownApps[s.cursor]
	s.results[app] = "resetting state..."
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		err := s.client.ResetStateful(ctx, app, "")

		s.mu.Lock()
		defer s.mu.Unlock()
		s.busy = false
		if err != nil {
			s.results[app] = "Reset failed"
		} else {
			s.results[app] = "State reset"
		}
	}()
}

func (s *appsSection) View(width int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString("Configured apps\n\n")
	for i, app := range api.KnownApps {
		marker := "  "
		if i == s.cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-10s %s", marker, app, s.results[app])
		if i == s.cursor {
			b.WriteString(SidebarActiveStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("t test connection · R reset processed state"))
	b.WriteString("\n")
	return b.String()
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
