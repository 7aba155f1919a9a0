// Package nav implements the dashboard's section navigation state machine.
//
// A Section is one exclusively-visible top-level view. The set of sections
// is fixed at startup and described by a Config table: per-section aliases,
// an optional gate predicate over feature flags and user role, the sidebar
// context shown alongside the section, and the lifecycle Module (entry,
// cleanup, refresh hooks) bound to it.
//
// The Router owns the "currently active section" pointer and is the only
// code allowed to mutate it. A navigation request flows through alias
// resolution, gating, a no-op/refresh check, the unsaved-changes gate,
// the forced-reload decision, exit hooks, the visibility swap, and entry
// hooks, in that order. Each stage can short-circuit the rest.
//
// Unsaved changes are tracked decentrally: each editable view registers a
// DirtyEditor with the Registry, and the Router consults the registry for
// the outgoing section before running any exit hook. While a confirm
// prompt is pending the Router rejects further navigation requests, so
// hooks for two different sections never interleave.
package nav
