package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create and bootstrap the graph store file",
	Run: func(cmd *cobra.Command, args []string) {
		e, closer, err := openEngine(cmd)
		if err != nil {
			fatalf("%v", err)
		}
		defer closer()

		stats, err := e.Stats()
		if err != nil {
			fatalf("failed to read stats: %v", err)
		}
		fmt.Printf("graph store ready (schema version %d) at %s\n", stats.SchemaVersion, stats.Path)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
