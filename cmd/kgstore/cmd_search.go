package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphmemory/kgstore/internal/search"
)

var (
	searchLimit     int
	searchNodeTypes []string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over node content",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, closer, err := openEngine(cmd)
		if err != nil {
			fatalf("%v", err)
		}
		defer closer()

		query := strings.Join(args, " ")
		graph, err := e.SearchNodes(query, search.Options{NodeTypes: searchNodeTypes, Limit: searchLimit})
		if err != nil {
			fatalf("search failed: %v", err)
		}

		if len(graph.Entities) == 0 {
			fmt.Println("no matches")
			return
		}
		for _, n := range graph.Entities {
			printNode(n)
		}
		fmt.Printf("%d node(s), %d relation(s)\n", len(graph.Entities), len(graph.Relations))
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum results")
	searchCmd.Flags().StringSliceVar(&searchNodeTypes, "type", nil, "restrict to these node types")

	rootCmd.AddCommand(searchCmd)
}
