package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/docstore/docstore"
)

var cfg = viper.New()

var rootCmd = &cobra.Command{
	Use:   "docstore",
	Short: "Inspect and edit file-backed document stores",
	Long: `Docstore manages JSON document stores: one <root>/<name>.json file
per store, holding an object keyed by document id.

Configuration sources (in order of precedence):
1. Command line flags
2. DOCSTORE_* environment variables
3. docstore.yaml in the working directory or $HOME/.docstore`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging(cfg.GetBool("verbose"))
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("root", ".", "directory holding the store files")
	flags.String("store", "docstore", "store name")
	flags.String("pk", "id", "primary key field name")
	flags.Duration("write-delay", 0, "minimum spacing between writes")
	flags.Bool("compact", false, "write compact JSON instead of indented")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	_ = cfg.BindPFlags(flags)
	cfg.SetEnvPrefix("DOCSTORE")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()

	cfg.SetConfigName("docstore")
	cfg.SetConfigType("yaml")
	cfg.AddConfigPath(".")
	cfg.AddConfigPath("$HOME/.docstore")
	// A missing config file is fine; flags and env still apply.
	_ = cfg.ReadInConfig()
}

func initLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})))
}

// openStore builds a store from the effective configuration and waits for
// the initial load.
func openStore(ctx context.Context) (docstore.Store, error) {
	conf := docstore.DefaultConfig()
	conf.RootPath = cfg.GetString("root")
	conf.PrimaryKey = cfg.GetString("pk")
	conf.WriteDelay = cfg.GetDuration("write-delay")
	conf.PrettyPrint = !cfg.GetBool("compact")

	store, err := docstore.New(cfg.GetString("store"), conf)
	if err != nil {
		return nil, err
	}
	if err := store.WaitLoaded(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
