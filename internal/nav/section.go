package nav

import "fmt"

// Module is the lifecycle bound to a section. Init runs when the section
// becomes active, Cleanup when it stops being active, and Refresh when the
// already-active section is requested again. Cleanup must be idempotent:
// the router may call it on a section that has already been cleaned up.
type Module interface {
	// Init activates the section. aux carries optional context produced
	// by an alias or passed by the caller (e.g. "tv" for a shared
	// movie/TV view).
	Init(aux string) error

	// Cleanup stops anything the section started: pollers, event
	// streams, pending timers. Safe to call more than once.
	Cleanup()

	// Refresh re-fetches the section's data without a full teardown.
	Refresh()
}

// Context carries the process-wide inputs gate predicates see: feature
// flags and the user's role. It is fixed at router construction.
type Context struct {
	Flags map[string]bool
	Role  string
}

// Flag reports whether the named feature flag is enabled.
func (c Context) Flag(name string) bool {
	return c.Flags[name]
}

// GateFunc decides whether a section may be entered.
type GateFunc func(Context) bool

// Alias maps a legacy or alternate id to a canonical section. An alias may
// imply auxiliary context for the entry hook (e.g. the old "tv-hunt" id
// resolving to the shared hunt section in TV mode).
type Alias struct {
	ID  string
	Aux string
}

// Section describes one navigable view. Sections are configuration, not
// runtime state: only the router's active-section pointer changes while
// the program runs.
type Section struct {
	ID      string
	Title   string
	Aliases []Alias

	// Gate, when set, must hold for the section to be enterable.
	// A failed gate redirects to Fallback (or the config default).
	Gate     GateFunc
	Fallback string

	// Sidebar names the side menu context shown while this section is
	// active. Empty means the config default sidebar.
	Sidebar string

	// RequiresReload marks a section that cannot be entered or left by
	// an in-place swap; transitions touching it restart the UI with the
	// target persisted. Used for legacy views without proper teardown.
	RequiresReload bool

	Module Module
}

// Config is the full navigation table, fixed at startup.
type Config struct {
	Sections []Section

	// Default is the section used for unknown targets, empty deep
	// links, and gate fallbacks that name no section. Usually "home".
	Default string

	// Sidebars lists the known sidebar context ids. Every section's
	// Sidebar must name one of these.
	Sidebars []string
}

// Validate checks the table for configuration errors: duplicate or
// colliding ids, alias chains that never reach a section, alias cycles,
// unknown fallbacks and unknown sidebar contexts. These are programming
// errors, so they surface at startup rather than mid-navigation.
func (c Config) Validate() error {
	if c.Default == "" {
		return fmt.Errorf("nav: no default section configured")
	}

	sections := make(map[string]bool, len(c.Sections))
	for _, s := range c.Sections {
		if s.ID == "" {
			return fmt.Errorf("nav: section with empty id")
		}
		if sections[s.ID] {
			return fmt.Errorf("nav: duplicate section id %q", s.ID)
		}
		sections[s.ID] = true
	}
	if !sections[c.Default] {
		return fmt.Errorf("nav: default section %q not configured", c.Default)
	}

	sidebars := make(map[string]bool, len(c.Sidebars))
	for _, sb := range c.Sidebars {
		sidebars[sb] = true
	}

	aliases := make(map[string]string)
	for _, s := range c.Sections {
		for _, a := range s.Aliases {
			if sections[a.ID] {
				return fmt.Errorf("nav: alias %q collides with section id", a.ID)
			}
			if prev, ok := aliases[a.ID]; ok && prev != s.ID {
				return fmt.Errorf("nav: alias %q claimed by both %q and %q", a.ID, prev, s.ID)
			}
			aliases[a.ID] = s.ID
		}
		if s.Fallback != "" && !sections[s.Fallback] {
			return fmt.Errorf("nav: section %q falls back to unknown section %q", s.ID, s.Fallback)
		}
		if s.Sidebar != "" && !sidebars[s.Sidebar] {
			return fmt.Errorf("nav: section %q uses unknown sidebar context %q", s.ID, s.Sidebar)
		}
	}

	return nil
}
