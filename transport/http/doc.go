// Package http exposes the review engine over a JSON HTTP API.
//
// Routes live under /api/v1/reviews. Mutating review routes require the
// X-Admin-ID header. Engine error kinds map to status codes: not found 404,
// conflict 409, validation 400, not implemented 501, anything else 500.
package http
