// Package state provides the product query lifecycle shared by the UI and CLI.
//
// # Overview
//
// Query wraps a catalog.Fetcher in a small state machine and keeps the latest
// result in a mutex-guarded Snapshot. Callers either poll Snapshot or register
// an observer with Subscribe.
//
// # Lifecycle
//
//	idle ──Execute──→ loading ──ok────→ success
//	                     │
//	                     └───failure──→ error
//	success|error ──Execute──→ loading
//	any ──Reset──→ idle
//
// Transition effects:
//
//	loading: Loading=true, Products=nil, Err=""
//	success: Loading=false, Products=<catalog>, Err="", failures reset
//	error:   Loading=false, Products=nil, Err=<message>, failures++
//	idle:    zero snapshot
//
// There are no automatic retries. Refresh is the retry action a UI binds to a
// key or button.
//
// # Overlapping Execute Calls
//
// Execute blocks until the fetch settles. If a fetch is already in flight,
// further Execute calls join it through a singleflight group keyed by the
// current generation, so every caller receives the same settled snapshot and
// completion order never matters.
//
// Reset increments the generation. A fetch started before the reset still
// runs to completion but its result is dropped, and the next Execute starts a
// fresh fetch under the new key.
//
// # Observers
//
// Subscribe callbacks run synchronously on the goroutine that caused the
// transition, outside the state lock. They receive their own copy of the
// snapshot and must not block for long; the UI forwards them into a channel.
//
// # Usage Example
//
//	q := state.NewQuery(ctx, store, state.QueryOptions{Logger: logger})
//	stop := q.Subscribe(func(s state.Snapshot) { updates <- s })
//	defer stop()
//
//	// later, from a retry key:
//	snap := q.Refresh(ctx)
//	if snap.HasError() {
//		showError(snap.Err)
//	}
package state
