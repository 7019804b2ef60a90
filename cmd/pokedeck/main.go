// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pokedeck CLI. It wires the
// aggregation core — cache, pool, fetch client, indexes, expansion and
// the search engine — behind serve/search/detail subcommands.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Cylabeth/pokedeck/internal/cache"
	"github.com/Cylabeth/pokedeck/internal/evolution"
	"github.com/Cylabeth/pokedeck/internal/index"
	"github.com/Cylabeth/pokedeck/internal/pokeapi"
	"github.com/Cylabeth/pokedeck/internal/pool"
	"github.com/Cylabeth/pokedeck/internal/search"
	"github.com/Cylabeth/pokedeck/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pokedeck CLI.
var rootCmd = &cobra.Command{
	Use:   "pokedeck",
	Short: "Aggregation backend for the PokéAPI catalog",
	Long: `pokedeck aggregates the PokéAPI catalog into search, filter and detail
views. The serve subcommand runs the HTTP backend-for-frontend; search and
detail run the same queries from the command line.

All upstream reads go through a shared TTL cache and a bounded concurrency
pool, with a timeout and a single retry per request.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pokedeck.yaml or ~/.config/pokedeck/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pokedeck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pokedeck"))
		}
	}

	viper.SetEnvPrefix("POKEDECK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig overlays file/env values on the defaults.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()
	if v := viper.GetString("upstream.base_url"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := viper.GetDuration("upstream.timeout"); v > 0 {
		cfg.Upstream.Timeout = v
	}
	if v := viper.GetString("upstream.user_agent"); v != "" {
		cfg.Upstream.UserAgent = v
	}
	if v := viper.GetInt("cache.capacity"); v > 0 {
		cfg.Cache.Capacity = v
	}
	if v := viper.GetInt("pool.max_concurrent"); v > 0 {
		cfg.Pool.MaxConcurrent = v
	}
	if v := viper.GetString("server.addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v := viper.GetDuration("server.shutdown_timeout"); v > 0 {
		cfg.Server.ShutdownTimeout = v
	}
	return cfg
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// newEngine builds the full aggregation stack. The cache and pool are
// created here and injected, so each process (and each test) owns its
// instances.
func newEngine(cfg types.Config, logger zerolog.Logger) (*search.Engine, error) {
	store, err := cache.NewBounded[string, []byte](cfg.Cache.Capacity)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	p, err := pool.New(cfg.Pool.MaxConcurrent)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	client := pokeapi.NewClient(pokeapi.Config{
		BaseURL:   cfg.Upstream.BaseURL,
		UserAgent: cfg.Upstream.UserAgent,
		Timeout:   cfg.Upstream.Timeout,
	}, store, logger)

	builder := index.NewBuilder(client, logger)
	expander := evolution.NewExpander(client, p, logger)
	return search.NewEngine(client, builder, expander, p, logger), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
