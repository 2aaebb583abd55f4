// Package tracing wraps OpenTelemetry so services can open spans with
// StartSpan and close them with EndSpan without importing otel directly.
// Until Init is called spans go to the global no-op provider.
package tracing
