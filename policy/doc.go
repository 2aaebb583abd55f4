// Package policy decides whether a scored review item may bypass human review.
//
// A nil *Policy means threshold-only auto approval. A policy can also be
// carried in a context to override the configured one for a single call.
package policy
