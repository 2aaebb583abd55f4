package reviewflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/reviewflow/internal/env"
	"github.com/viant/reviewflow/logging"
	"github.com/viant/reviewflow/policy"
	"github.com/viant/reviewflow/service/bulk"
	"github.com/viant/reviewflow/service/queue"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreMemory   = "memory"
	StoreFS       = "fs"
	StorePostgres = "postgres"
)

// DefaultMaxBulkSize caps the ids accepted by one bulk request.
const DefaultMaxBulkSize = 50

// Config is a serialisable representation of the engine configuration. It can
// be populated from YAML or JSON; fields left empty keep their defaults when
// loaded with LoadConfig.
type Config struct {
	Queue    QueueConfig    `json:"queue" yaml:"queue"`
	Bulk     BulkConfig     `json:"bulk" yaml:"bulk"`
	Policy   policy.Config  `json:"policy" yaml:"policy"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Training TrainingConfig `json:"training" yaml:"training"`
	Logging  logging.Config `json:"logging" yaml:"logging"`
	Tracing  TracingConfig  `json:"tracing" yaml:"tracing"`
	HTTP     HTTPConfig     `json:"http" yaml:"http"`
}

type QueueConfig struct {
	AutoApprovalThreshold int `json:"autoApprovalThreshold" yaml:"autoApprovalThreshold"`
	DefaultLimit          int `json:"defaultLimit" yaml:"defaultLimit"`
}

type BulkConfig struct {
	Concurrency int           `json:"concurrency" yaml:"concurrency"`
	Pause       time.Duration `json:"pause" yaml:"pause"`
}

// StoreConfig selects the review item store. URL is used by the fs store,
// DSN and Table by postgres.
type StoreConfig struct {
	Kind  string `json:"kind" yaml:"kind"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	DSN   string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Table string `json:"table,omitempty" yaml:"table,omitempty"`
}

type TrainingConfig struct {
	QueueBuffer int `json:"queueBuffer" yaml:"queueBuffer"`
}

type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	Output      string `json:"output,omitempty" yaml:"output,omitempty"` // file path, stdout when empty
}

type HTTPConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	MaxBulkSize    int      `json:"maxBulkSize" yaml:"maxBulkSize"`
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Queue: QueueConfig{
			AutoApprovalThreshold: queue.DefaultThreshold,
			DefaultLimit:          queue.DefaultLimit,
		},
		Bulk: BulkConfig{
			Concurrency: bulk.DefaultConcurrency,
			Pause:       bulk.DefaultPause,
		},
		Policy:   policy.Config{Mode: policy.ModeAuto},
		Store:    StoreConfig{Kind: StoreMemory},
		Training: TrainingConfig{QueueBuffer: 100},
		Logging:  logging.DefaultConfig(),
		Tracing:  TracingConfig{ServiceName: "reviewflow"},
		HTTP: HTTPConfig{
			Addr:        ":8080",
			MaxBulkSize: DefaultMaxBulkSize,
		},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if t := c.Queue.AutoApprovalThreshold; t < 0 || t > 100 {
		errs = append(errs, fmt.Errorf("queue.autoApprovalThreshold must be within 0..100, got %d", t))
	}
	if c.Queue.DefaultLimit <= 0 {
		errs = append(errs, fmt.Errorf("queue.defaultLimit must be > 0"))
	}
	if c.Bulk.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("bulk.concurrency must be > 0"))
	}
	if c.Bulk.Pause < 0 {
		errs = append(errs, fmt.Errorf("bulk.pause must not be negative"))
	}
	if err := c.Policy.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Store.Kind {
	case "", StoreMemory:
	case StoreFS:
		if c.Store.URL == "" {
			errs = append(errs, fmt.Errorf("store.url is required for the fs store"))
		}
	case StorePostgres:
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("store.dsn is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported store.kind: %q", c.Store.Kind))
	}
	if c.Training.QueueBuffer < 0 {
		errs = append(errs, fmt.Errorf("training.queueBuffer must not be negative"))
	}
	if c.HTTP.MaxBulkSize <= 0 {
		errs = append(errs, fmt.Errorf("http.maxBulkSize must be > 0"))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML document from any afs supported URL and overlays it
// on DefaultConfig. ${env.KEY} references are expanded before decoding.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	cfg := DefaultConfig()
	if err = yaml.Unmarshal([]byte(env.Expand(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return cfg, nil
}
