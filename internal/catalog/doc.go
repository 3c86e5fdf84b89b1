// Package catalog holds the product reference data and the simulated API that
// serves it.
//
// # Overview
//
// The catalog is five fixed records created once at process start and never
// mutated. Store.FetchProducts stands in for a remote product API: it sleeps
// for a fixed latency (200ms by default) and then either returns a copy of the
// full catalog in its stable order or, when asked to, fails with
// ErrFetchFailed.
//
// # View Helpers
//
// The presentation layer and the CLI share the same list controls:
//
//   - FilterByName: case-insensitive substring match on the product name
//   - FilterByCategory: exact category match, empty means all
//   - SortByPrice: stable ascending or descending price order
//   - View.Apply: the above composed in a fixed order
//
// None of the helpers mutate their input.
package catalog
