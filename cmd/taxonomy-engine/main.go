// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the taxonomy-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/taxonomy-engine/internal/cache"
	"github.com/pdiddy/taxonomy-engine/internal/diag"
	"github.com/pdiddy/taxonomy-engine/internal/pattern"
	"github.com/pdiddy/taxonomy-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	logger  *zap.Logger
	verbose bool
)

// rootCmd is the base command for the taxonomy-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "taxonomy-engine",
	Short: "Compile SKOS taxonomies into keyword matching patterns",
	Long: `taxonomy-engine turns an RDF/SKOS taxonomy, or a flat vocabulary with one
keyword per line, into regular expressions that match the grammatical variants
of every label. Compiled taxonomies are cached next to each other in a SQLite
file per source and reused until the source changes.

Subcommands compile taxonomies, check their consistency, download them and
manage the cache.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./taxonomy-engine.yaml or ~/.config/taxonomy-engine/taxonomy-engine.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().String("cache-dir", "", "preferred cache directory (falls back to the OS temp directory)")
	rootCmd.PersistentFlags().String("rules", "", "YAML file overriding the built-in grammar rules")

	_ = viper.BindPFlag("cache.dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	_ = viper.BindPFlag("compiler.rules_file", rootCmd.PersistentFlags().Lookup("rules"))

	viper.SetDefault("cache.subdir", types.DefaultCacheSubdir)
	viper.SetDefault("compiler.word_wrap", types.DefaultWordWrap)
	viper.SetDefault("fetch.timeout", "60s")
	viper.SetDefault("fetch.max_retries", 5)
	viper.SetDefault("fetch.user_agent", "taxonomy-engine/"+version)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("taxonomy-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "taxonomy-engine"))
		}
	}

	viper.SetEnvPrefix("TAXONOMY_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the typed configuration from flags, environment and
// config file.
func engineConfig() types.EngineConfig {
	return types.EngineConfig{
		Compiler: types.CompilerConfig{
			WordWrap:  viper.GetString("compiler.word_wrap"),
			RulesFile: viper.GetString("compiler.rules_file"),
		},
		Cache: types.CacheConfig{
			Dir:    viper.GetString("cache.dir"),
			Subdir: viper.GetString("cache.subdir"),
		},
		Fetch: types.FetchConfig{
			Timeout:    viper.GetDuration("fetch.timeout"),
			MaxRetries: viper.GetInt("fetch.max_retries"),
			UserAgent:  viper.GetString("fetch.user_agent"),
		},
	}
}

func newSink() diag.Sink {
	return diag.NewZapSink(logger)
}

func newCompiler(cfg types.EngineConfig) (*pattern.Compiler, error) {
	return pattern.NewFromConfig(cfg.Compiler)
}

func newStore(cfg types.EngineConfig, sink diag.Sink) *cache.Store {
	return cache.NewStore(cache.NewResolver(cfg.Cache, sink), sink)
}

// expandSources resolves glob arguments such as "taxonomies/**/*.rdf".
// Arguments without glob syntax are kept as given, even when the file does
// not exist, so that a cached copy can still be used.
func expandSources(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			out = append(out, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no taxonomy matches %q", arg)
		}
		out = append(out, matches...)
	}
	return out, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
