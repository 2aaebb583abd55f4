// Package cmd implements the reviewflow command line.
package cmd

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. REVIEWFLOW_HTTP_ADDR.
const EnvPrefix = "REVIEWFLOW"

// NewRootCommand builds the command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:   "reviewflow",
		Short: "Review queue and approval engine for generated content",
		Long: `reviewflow scores generated content, auto approves what clears the
quality threshold and queues the rest for human review.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile := v.GetString(keyEnvFile); envFile != "" {
				_ = godotenv.Load(envFile)
			}
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringP(keyConfig, "c", "", "config URL (file path, file:// or mem://)")
	flags.String(keyEnvFile, ".env", "dotenv file loaded before reading the environment")
	flags.String(keyLogLevel, "", "log level: debug, info, warn or error")
	flags.String(keyStoreKind, "", "store kind: memory, fs or postgres")
	flags.String(keyStoreURL, "", "fs store base URL")
	flags.String(keyStoreDSN, "", "postgres DSN")
	flags.Int(keyThreshold, 0, "auto approval threshold (0-100)")
	flags.String(keyPolicyMode, "", "auto approval policy: auto or ask")
	for _, name := range []string{keyConfig, keyEnvFile, keyLogLevel, keyStoreKind, keyStoreURL, keyStoreDSN, keyThreshold, keyPolicyMode} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newServeCommand(v), newScoreCommand(v))
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCommand().Execute()
}
