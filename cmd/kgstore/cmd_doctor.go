package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphmemory/kgstore/pkg/config"
	"github.com/graphmemory/kgstore/pkg/engine"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Print schema version, table counts, and lock status",
	Run: func(cmd *cobra.Command, args []string) {
		runDoctor()
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor() {
	fmt.Println("kgstore doctor")
	fmt.Println("==============")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("configuration... ERROR: %v\n", err)
		os.Exit(1)
	}
	if configPathFlag != "" {
		cfg.Database.Path = configPathFlag
	}
	fmt.Printf("configuration... OK (db path: %s)\n", cfg.Database.Path)

	if _, err := os.Stat(cfg.Database.Path); os.IsNotExist(err) {
		fmt.Println("database... NOT INITIALIZED (run `kgstore init`)")
		return
	}

	e, err := engine.Open(cfg.Database.Path)
	if err != nil {
		fmt.Printf("database... ERROR: %v\n", err)
		os.Exit(1)
	}
	defer e.Close()

	stats, err := e.Stats()
	if err != nil {
		fmt.Printf("database... ERROR: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("database... OK")
	fmt.Printf("  schema version: %d\n", stats.SchemaVersion)
	fmt.Printf("  nodes: %d  edges: %d  observations: %d  aliases: %d\n",
		stats.NodeCount, stats.EdgeCount, stats.ObservationCount, stats.AliasCount)
	fmt.Printf("  file size: %d bytes\n", stats.FileSizeBytes)
}
