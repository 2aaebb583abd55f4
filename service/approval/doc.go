// Package approval implements the review state machine: approve, reject and
// edit transitions of queued items.
//
// Every transition runs under the per content id lock shared with the queue,
// mutates a copy of the stored item and commits it with a single save.
package approval
