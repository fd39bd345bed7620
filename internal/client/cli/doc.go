// Package cli is the interactive donadmin console.
//
// It wires configuration, the REST client, the session and one manager
// per resource, then runs a REPL whose commands move between pages
// ("/ads", "/ads/{id}", "/adsCarousel", "/users", "/users/{id}", "/login")
// and act on the page that is shown. Tables and forms are rendered with
// lipgloss.
//
// A background watcher polls the API and shows online/offline in the
// prompt. Redirects requested by the managers (after an update, after a
// detail delete, after the signed-in user deleted itself) are applied by a
// second goroutine so they never run inside the command that caused them.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
