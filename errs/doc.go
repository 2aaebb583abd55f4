// Package errs defines the error taxonomy surfaced by the review engine.
//
// Every engine failure is an *Error carrying a Kind. Callers branch on the
// kind either with the Is* helpers or with errors.Is against the sentinel
// values:
//
//	if errors.Is(err, errs.ErrConflict) { ... }
//	if errs.KindOf(err) == errs.KindNotFound { ... }
package errs
