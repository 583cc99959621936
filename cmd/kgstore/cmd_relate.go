package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphmemory/kgstore/internal/database"
)

var (
	relateType       string
	relateWeight     float64
	relateHasWeight  bool
	relateContext    string
)

var relateCmd = &cobra.Command{
	Use:   "relate <from> <to>",
	Short: "Create or update a relation between two nodes",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e, closer, err := openEngine(cmd)
		if err != nil {
			fatalf("%v", err)
		}
		defer closer()

		input := database.EdgeInput{
			From:         args[0],
			To:           args[1],
			RelationType: relateType,
			Context:      relateContext,
		}
		if relateHasWeight {
			input.Weight = &relateWeight
		}

		edges, err := e.CreateRelations([]database.EdgeInput{input})
		if err != nil {
			fatalf("failed to create relation: %v", err)
		}
		fmt.Printf("created relation %s -[%s]-> %s (weight=%.2f)\n", edges[0].From, edges[0].RelationType, edges[0].To, edges[0].Weight)
	},
}

func init() {
	relateCmd.Flags().StringVar(&relateType, "type", "related_to", "relation type")
	relateCmd.Flags().Float64Var(&relateWeight, "weight", 0, "edge weight in [0,1]")
	relateCmd.Flags().StringVar(&relateContext, "context", "", "free-form context text")
	relateCmd.PreRun = func(cmd *cobra.Command, args []string) {
		relateHasWeight = cmd.Flags().Changed("weight")
	}

	rootCmd.AddCommand(relateCmd)
}
