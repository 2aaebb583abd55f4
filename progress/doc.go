// Package progress provides a tracker of aggregated counters (total,
// completed, failed, pending) for a single bulk run. The tracker can travel in
// a context so nested calls update it without a global registry.
package progress
