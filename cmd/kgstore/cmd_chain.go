package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Inspect reasoning chains",
}

var chainShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a reasoning chain and its ordered steps",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, closer, err := openEngine(cmd)
		if err != nil {
			fatalf("%v", err)
		}
		defer closer()

		graph, err := e.GetReasoningChain(args[0])
		if err != nil {
			fatalf("failed to get reasoning chain: %v", err)
		}
		if len(graph.Entities) == 0 {
			fmt.Println("not found")
			return
		}

		for _, n := range graph.Entities {
			printNode(n)
		}
		fmt.Printf("%d node(s), %d relation(s)\n", len(graph.Entities), len(graph.Relations))
	},
}

func init() {
	chainCmd.AddCommand(chainShowCmd)
	rootCmd.AddCommand(chainCmd)
}
