// Package scorer computes the quality score of content candidates.
//
// The score is built from four buckets of at most 25 points each (length,
// structure, seo and uniqueness); the overall score is their rounded sum.
package scorer
