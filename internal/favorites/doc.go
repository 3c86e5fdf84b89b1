// Package favorites keeps the set of favorite product ids and mirrors it to a
// kv.Store under the "product-favorites" key as a JSON array.
//
// One Store is built per process by the composition root and passed to every
// consumer. The set is read from storage on first use; missing or malformed
// data yields an empty set and a log entry, never an error. Each mutation
// writes the complete set back and emits a short toast through a
// notify.Notifier.
package favorites
