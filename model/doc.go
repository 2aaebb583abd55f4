// Package model contains the review queue data model: candidates handed over
// by the generation pipeline, review items with their score, status and
// audit trail, and the result types returned by the engine operations.
//
// Review items are values owned by the queue store. Every read path hands
// out a deep copy (see ReviewItem.Clone) so callers can never observe or
// cause a partially applied transition.
package model
