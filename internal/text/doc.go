// Package text holds the plain-text analysis used for scoring and previews:
// markdown and HTML stripping, word and paragraph counting, heading
// detection and preview truncation.
package text
