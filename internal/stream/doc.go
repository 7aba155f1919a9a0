// Package stream provides the two live-data mechanisms sections own:
// periodic pollers and a WebSocket event stream to the backend.
//
// Both are started by a section's entry hook and must be stopped by the
// same section's exit hook; no section relies on another to clean up its
// resources. Start/Stop and Connect/Close are idempotent so the router's
// recovery paths can call cleanup more than once safely.
package stream
