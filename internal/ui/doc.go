// Package ui provides the terminal user interface for browsing the shelf
// catalog.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea program. Model holds all presentation state
// and never fetches or persists anything itself: catalog loading goes through
// a state.Query and favorites go through a favorites.Store. Toasts raised by
// those components arrive on a channel and are shown in the footer.
//
// # Package Structure
//
//   - app.go: Model, Options, Init/Update/View and the Run entry point
//   - input_handlers.go: key routing for the list and the name filter
//   - list.go: visible product computation, selection and list rendering
//   - header.go: status bar and list controls
//   - toast.go: footer with the active toast or key hints
//   - help.go: help overlay built from the key map
//   - keys.go: key bindings
//   - theme.go: color themes (Nightfox, Kanagawa, Slate)
//   - style_helpers.go: background-preserving render helpers
//
// # List States
//
// The body mirrors the query lifecycle:
//
//   - Idle: a hint to press r
//   - Loading: a spinner and "Loading products…"
//   - Error: the error message and "Press r to retry"
//   - Success: the filtered and sorted products, or "No result found."
//
// # Event Flow
//
//  1. New subscribes to the query; every transition wakes waitForChange
//  2. waitForChange reads the current snapshot and re-arms itself
//  3. Key presses adjust the list controls or call the favorites store
//  4. Favorites toasts flow through the toast channel and expire by tick
//  5. Theme and sort changes are saved to the preferences file
package ui
