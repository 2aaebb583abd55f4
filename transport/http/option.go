package http

import "log/slog"

// Option customises the Handler.
type Option func(h *Handler)

// WithMaxBulkSize caps the number of ids accepted by a bulk request.
func WithMaxBulkSize(size int) Option {
	return func(h *Handler) {
		if size > 0 {
			h.maxBulkSize = size
		}
	}
}

// WithAllowedOrigins sets the CORS origins; empty allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Handler) { h.allowedOrigins = origins }
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}
