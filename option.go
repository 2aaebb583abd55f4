package reviewflow

import (
	"log/slog"
	"time"

	"github.com/viant/reviewflow/internal/clock"
	"github.com/viant/reviewflow/internal/idgen"
	"github.com/viant/reviewflow/policy"
	"github.com/viant/reviewflow/service/dao/review"
	"github.com/viant/reviewflow/service/training"
	"github.com/viant/reviewflow/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the Service.
type Option func(s *Service)

// WithConfig sets the configuration; nil keeps DefaultConfig.
func WithConfig(cfg *Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithStore sets the review item store, overriding config.Store. The caller
// keeps ownership of the store.
func WithStore(store review.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithNotifier sets the training notifier. When set, no internal training
// queue or listener is created.
func WithNotifier(notifier training.Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

// WithTrainingHandler sets the handler draining the internal training queue.
// It defaults to logging each signal.
func WithTrainingHandler(handler training.Handler) Option {
	return func(s *Service) { s.trainingHandler = handler }
}

// WithPolicy sets the auto approval policy, overriding config.Policy. Use it
// to supply a Rule.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.policy = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithClock(now clock.Func) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(fn idgen.Func) Option {
	return func(s *Service) { s.newID = fn }
}

// WithPause overrides the pause between bulk chunks.
func WithPause(pause time.Duration) Option {
	return func(s *Service) { s.pause = &pause }
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty the stdout exporter is used; otherwise traces are written to the
// supplied file path. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err == nil {
			s.tracing = true
		}
	}
}

// WithTracingExporter configures tracing with a custom SpanExporter, for
// example OTLP.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err == nil {
			s.tracing = true
		}
	}
}
