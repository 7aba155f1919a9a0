package nav

import (
	"fmt"

	"go.uber.org/zap"
)

// Presenter applies the router's visibility decisions to whatever renders
// the sections. Implementations must make ShowSection/ShowSidebar
// exclusive: exactly one section and one sidebar context visible.
type Presenter interface {
	ShowSection(id string)
	ShowSidebar(context string)
	SetTitle(title string)

	// Reload restarts the UI entirely. The router persists the target
	// section before calling this, so the next start resumes there.
	Reload(targetID string)
}

// PendingStore persists the one-shot navigation target across a forced
// reload.
type PendingStore interface {
	SavePendingSection(id string) error
	// TakePendingSection returns the stored target and clears it, so a
	// stale target cannot redirect a later start.
	TakePendingSection() (string, bool)
}

// Outcome reports how a navigation request ended.
type Outcome int

const (
	// OutcomeSwitched means the active section changed.
	OutcomeSwitched Outcome = iota
	// OutcomeRefreshed means the target was already active; only its
	// refresh hook ran.
	OutcomeRefreshed
	// OutcomeDeferred means an unsaved-changes prompt is showing; the
	// transition completes (or is cancelled) when the user answers.
	OutcomeDeferred
	// OutcomeRejected means another navigation was still resolving.
	OutcomeRejected
	// OutcomeReloading means the transition needs a full UI restart;
	// the target was persisted and Reload was invoked.
	OutcomeReloading
	// OutcomeFailed means the entry hook failed; the previously active
	// section was restored.
	OutcomeFailed
)

// String returns the outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeSwitched:
		return "switched"
	case OutcomeRefreshed:
		return "refreshed"
	case OutcomeDeferred:
		return "deferred"
	case OutcomeRejected:
		return "rejected"
	case OutcomeReloading:
		return "reloading"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Router is the navigation state machine. It owns the active-section and
// active-sidebar pointers and is the only code that mutates them. The
// router is single-threaded: it is driven from the UI event loop and is
// not safe for concurrent use.
type Router struct {
	cfg      Config
	sections map[string]*Section
	aliases  map[string]Alias
	ctx      Context
	registry *Registry
	pres     Presenter
	store    PendingStore
	log      *zap.Logger

	current     string
	sidebar     string
	initialized bool

	// resolving guards against interleaved navigation: set when a
	// request enters the dirty gate, cleared on commit, cancellation,
	// or failure.
	resolving bool
}

// NewRouter builds a router over a validated configuration.
func NewRouter(cfg Config, ctx Context, registry *Registry, pres Presenter, store PendingStore, log *zap.Logger) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	r := &Router{
		cfg:      cfg,
		sections: make(map[string]*Section, len(cfg.Sections)),
		aliases:  make(map[string]Alias),
		ctx:      ctx,
		registry: registry,
		pres:     pres,
		store:    store,
		log:      log,
	}
	for i := range cfg.Sections {
		s := &cfg.Sections[i]
		r.sections[s.ID] = s
		for _, a := range s.Aliases {
			r.aliases[a.ID] = Alias{ID: s.ID, Aux: a.Aux}
		}
	}
	return r, nil
}

// Current returns the active section id, or "" before the first switch.
func (r *Router) Current() string { return r.current }

// CurrentSidebar returns the active sidebar context id.
func (r *Router) CurrentSidebar() string { return r.sidebar }

// Resolving reports whether a confirm prompt is holding a navigation.
func (r *Router) Resolving() bool { return r.resolving }

// Registry returns the dirty-editor registry the router consults.
func (r *Router) Registry() *Registry { return r.registry }

// Start performs the initial navigation: a target persisted before a
// forced reload wins, then the deep link, then the configured default.
func (r *Router) Start(deepLink string) Outcome {
	if r.store != nil {
		if id, ok := r.store.TakePendingSection(); ok {
			r.log.Debug("resuming persisted section", zap.String("section", id))
			return r.Switch(id, "")
		}
	}
	if deepLink != "" {
		return r.Switch(deepLink, "")
	}
	return r.Switch(r.cfg.Default, "")
}

// Resolve rewrites an id through the alias table to its canonical section
// id, returning any auxiliary context the alias implies. Unknown ids
// resolve to the default section, since navigation is often driven by
// stale deep links.
func (r *Router) Resolve(requested string) (id, aux string) {
	id = requested
	for i := 0; i < len(r.aliases)+1; i++ {
		a, ok := r.aliases[id]
		if !ok {
			break
		}
		id = a.ID
		if a.Aux != "" {
			aux = a.Aux
		}
	}
	if _, ok := r.sections[id]; !ok {
		return r.cfg.Default, ""
	}
	return id, aux
}

// Switch navigates to the requested section. aux carries optional context
// for the entry hook; an empty aux takes whatever the alias resolution
// produced. A Switch while a previous request is still resolving its
// confirm prompt is rejected, not queued.
func (r *Router) Switch(requested, aux string) Outcome {
	if r.resolving {
		r.log.Warn("navigation rejected, another is resolving",
			zap.String("requested", requested),
			zap.String("current", r.current),
		)
		return OutcomeRejected
	}

	id, aliasAux := r.Resolve(requested)
	if aux == "" {
		aux = aliasAux
	}
	target := r.sections[id]

	if target.Gate != nil && !target.Gate(r.ctx) {
		fallback := target.Fallback
		if fallback == "" {
			fallback = r.cfg.Default
		}
		r.log.Debug("section gated, redirecting",
			zap.String("section", id),
			zap.String("fallback", fallback),
		)
		return r.Switch(fallback, "")
	}

	if r.initialized && id == r.current {
		if target.Module != nil {
			target.Module.Refresh()
		}
		return OutcomeRefreshed
	}

	if r.initialized {
		r.resolving = true
		decision := r.registry.CheckBeforeLeaving(r.current, func(c Choice) {
			r.finishConfirm(c, id, aux)
		})
		if decision == LeaveDeferred {
			return OutcomeDeferred
		}
	}

	return r.complete(id, aux)
}

// finishConfirm resumes a navigation held by the unsaved-changes prompt.
func (r *Router) finishConfirm(choice Choice, target, aux string) {
	editor, ok := r.registry.Editor(r.current)
	if !ok {
		// Editor was replaced while the prompt was up; treat as clean.
		r.resolving = false
		r.complete(target, aux)
		return
	}

	switch choice {
	case ChoiceCancel:
		r.log.Debug("navigation cancelled at prompt", zap.String("target", target))
		r.resolving = false

	case ChoiceSave:
		if err := editor.Save(); err != nil {
			r.log.Warn("save failed, staying on section",
				zap.String("section", r.current),
				zap.Error(err),
			)
			r.resolving = false
			return
		}
		r.complete(target, aux)

	case ChoiceDiscard:
		editor.Discard()
		r.complete(target, aux)
	}
}

// complete runs the tail of the transition: reload decision, exit hooks,
// visibility swap, entry hooks, commit.
func (r *Router) complete(id, aux string) Outcome {
	target := r.sections[id]

	if r.initialized && r.needsReload(r.current, id) {
		if r.store != nil {
			if err := r.store.SavePendingSection(id); err != nil {
				r.log.Error("failed to persist reload target", zap.Error(err))
			}
		}
		r.resolving = false
		r.log.Info("transition needs full reload",
			zap.String("from", r.current),
			zap.String("to", id),
		)
		r.pres.Reload(id)
		return OutcomeReloading
	}

	if r.initialized {
		if outgoing := r.sections[r.current]; outgoing != nil && outgoing.Module != nil {
			outgoing.Module.Cleanup()
		}
	}

	r.pres.ShowSection(id)
	r.pres.ShowSidebar(r.sidebarFor(target))

	if target.Module != nil {
		if err := runEntryHook(target.Module, aux); err != nil {
			r.log.Error("entry hook failed",
				zap.String("section", id),
				zap.Error(err),
			)
			target.Module.Cleanup()
			if r.initialized {
				// Fall back to the previously active section so
				// exactly one section stays visible.
				prev := r.sections[r.current]
				r.pres.ShowSection(r.current)
				r.pres.ShowSidebar(r.sidebarFor(prev))
				r.pres.SetTitle(prev.Title)
			}
			r.resolving = false
			return OutcomeFailed
		}
	}

	r.pres.SetTitle(target.Title)

	r.current = id
	r.sidebar = r.sidebarFor(target)
	r.initialized = true
	r.resolving = false

	r.log.Debug("section switched",
		zap.String("section", id),
		zap.String("sidebar", r.sidebar),
	)
	return OutcomeSwitched
}

// needsReload reports whether the transition between two sections must go
// through a full UI restart. Either side demanding a reload forces one.
func (r *Router) needsReload(from, to string) bool {
	if s, ok := r.sections[from]; ok && s.RequiresReload {
		return true
	}
	if s, ok := r.sections[to]; ok && s.RequiresReload {
		return true
	}
	return false
}

func (r *Router) sidebarFor(s *Section) string {
	if s.Sidebar != "" {
		return s.Sidebar
	}
	if len(r.cfg.Sidebars) > 0 {
		return r.cfg.Sidebars[0]
	}
	return ""
}

// runEntryHook shields the router from a panicking section module so the
// UI never ends up with zero or two visible sections.
func runEntryHook(m Module, aux string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("entry hook panic: %v", p)
		}
	}()
	return m.Init(aux)
}
