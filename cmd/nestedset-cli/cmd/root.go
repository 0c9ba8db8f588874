package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nestedset/internal/config"
	"nestedset/internal/engine"
	"nestedset/internal/wire"
)

var (
	configPath string
	overrides  config.Config
	env        *wire.Env
)

var rootCmd = &cobra.Command{
	Use:   "nestedset-cli",
	Short: "CLI for nested-set trees stored in SQLite",
	Long: `nestedset-cli manages a hierarchy of records kept as a nested set:
every record carries left, right and depth bounds, so subtree and ancestor
queries are single range scans.

It provides commands to add, move, delete, rename and list records, print
the tree, and verify its invariants.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		env, err = wire.Open(cmd.Context(), cfg, cfg.Logger(os.Stderr))
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env == nil {
			return nil
		}
		return env.Close()
	},
}

// loadConfig reads the config file and environment, then applies the flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	for name, pair := range map[string]struct{ dst, src *string }{
		"db":        {&cfg.Database, &overrides.Database},
		"driver":    {&cfg.Driver, &overrides.Driver},
		"list":      {&cfg.List, &overrides.List},
		"field":     {&cfg.Field, &overrides.Field},
		"log-level": {&cfg.LogLevel, &overrides.LogLevel},
	} {
		if flags.Changed(name) {
			*pair.dst = *pair.src
		}
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (default $"+config.EnvConfig+" or ~/.config/nestedset/config.yaml)")
	pf.StringVar(&overrides.Database, "db", "", "path to the sqlite database")
	pf.StringVar(&overrides.Driver, "driver", "", "store driver: sqlite, sqlite3 (cgo) or memory")
	pf.StringVarP(&overrides.List, "list", "l", "", "list (table) holding the records")
	pf.StringVarP(&overrides.Field, "field", "f", "", "hierarchy field of the list")
	pf.StringVar(&overrides.LogLevel, "log-level", "", "debug, info, warn or error")
}

// GetTree returns the initialized tree
func GetTree() *engine.Tree {
	return env.Tree
}
