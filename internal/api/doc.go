// Package api is the HTTP client for the dashboard backend.
//
// The backend is an external collaborator: this package only knows the
// request and response shapes of the endpoints the dashboard consumes
// (Requestarr search/request, per-app connection tests, stateful reset,
// notification test). Transient failures on reads are retried with
// exponential backoff; typed errors let callers distinguish network
// problems from backend rejections.
package api
