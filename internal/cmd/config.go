package cmd

import (
	"context"

	"github.com/spf13/viper"
	"github.com/viant/reviewflow"
)

const (
	keyConfig     = "config"
	keyEnvFile    = "env-file"
	keyLogLevel   = "log-level"
	keyStoreKind  = "store-kind"
	keyStoreURL   = "store-url"
	keyStoreDSN   = "store-dsn"
	keyThreshold  = "threshold"
	keyPolicyMode = "policy"
	keyAddr       = "addr"
)

// loadConfig reads the optional config document, then applies flag and
// REVIEWFLOW_* environment overrides.
func loadConfig(ctx context.Context, v *viper.Viper) (*reviewflow.Config, error) {
	cfg := reviewflow.DefaultConfig()
	if URL := v.GetString(keyConfig); URL != "" {
		loaded, err := reviewflow.LoadConfig(ctx, URL)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	overrides := []struct {
		key   string
		apply func()
	}{
		{keyLogLevel, func() { cfg.Logging.Level = v.GetString(keyLogLevel) }},
		{keyStoreKind, func() { cfg.Store.Kind = v.GetString(keyStoreKind) }},
		{keyStoreURL, func() { cfg.Store.URL = v.GetString(keyStoreURL) }},
		{keyStoreDSN, func() { cfg.Store.DSN = v.GetString(keyStoreDSN) }},
		{keyThreshold, func() { cfg.Queue.AutoApprovalThreshold = v.GetInt(keyThreshold) }},
		{keyPolicyMode, func() { cfg.Policy.Mode = v.GetString(keyPolicyMode) }},
		{keyAddr, func() { cfg.HTTP.Addr = v.GetString(keyAddr) }},
	}
	for _, override := range overrides {
		if v.IsSet(override.key) {
			override.apply()
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
