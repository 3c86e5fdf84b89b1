// Package app is the composition root for shelf.
//
// # Overview
//
// Bootstrap wires configuration, logging, the product catalog, the chosen
// key-value backend and the favorites store into a Services value. Both the
// TUI (Run) and the CLI subcommands in cmd/shelf start from Bootstrap, so they
// share one set of defaults and one favorites file.
//
// # Startup
//
//  1. Load ~/.config/shelf/config.toml (missing file means defaults)
//  2. Build the zap logger (file output, --verbose forces debug)
//  3. Build the simulated catalog with the configured delay
//  4. Open the memory, file or sqlite backend
//  5. Build the favorites store, fanning toasts out to the caller and the log
//  6. Run: load prefs, start the product query and hand everything to ui.Run
//
// # Shutdown
//
// Services.Close closes the storage backend and syncs the logger. Run defers
// it, so cancelling the context or quitting the TUI releases everything.
package app
