package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/graphmemory/kgstore/internal/logging"
	"github.com/graphmemory/kgstore/pkg/config"
	"github.com/graphmemory/kgstore/pkg/engine"
)

// Version is set during build.
var Version = "0.1.0"

var configPathFlag string

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:     "kgstore",
	Short:   "Inspect and drive a kgstore graph store directly",
	Version: Version,
	Long: `kgstore is a local operator tool for the embedded knowledge-graph
store: initialize a database file, write nodes and relations, and run
search/explore/path/chain reads against it from the command line.

Examples:
  kgstore init
  kgstore node add Go --type Concept --description "a programming language"
  kgstore relate Go Rust --type similar_to
  kgstore search "programming language"
  kgstore explore Go --depth 2
  kgstore path Go Rust
  kgstore chain show my-argument`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPathFlag, "db", "d", "", "database file path (overrides config and "+"KGSTORE_DB_PATH"+")")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}

// openEngine resolves configuration (explicit --db flag, then config/env,
// then default path), initializes logging, and opens the engine. Callers
// must defer the returned closer.
func openEngine(cmd *cobra.Command) (*engine.Engine, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if configPathFlag != "" {
		cfg.Database.Path = configPathFlag
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if err := cfg.EnsureConfigDir(); err != nil {
		return nil, nil, err
	}

	e, err := engine.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	closed := false
	closer := func() {
		if !closed {
			closed = true
			e.Close()
		}
	}

	// Guarantee Close() runs on SIGINT/SIGTERM, grounded on the teacher's
	// signal-notify shutdown pattern.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		closer()
		os.Exit(1)
	}()

	return e, closer, nil
}
