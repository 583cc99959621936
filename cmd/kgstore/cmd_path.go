package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var pathMaxDepth int

var pathCmd = &cobra.Command{
	Use:   "path <from> <to>",
	Short: "Find the shortest path between two nodes",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e, closer, err := openEngine(cmd)
		if err != nil {
			fatalf("%v", err)
		}
		defer closer()

		graph, err := e.FindShortestPath(args[0], args[1], pathMaxDepth)
		if err != nil {
			fatalf("path search failed: %v", err)
		}
		if len(graph.Entities) == 0 {
			fmt.Println("no path found")
			return
		}

		names := make([]string, len(graph.Entities))
		for i, n := range graph.Entities {
			names[i] = n.Name
		}
		fmt.Printf("%s (%d hops)\n", strings.Join(names, " -> "), len(names)-1)
	},
}

func init() {
	pathCmd.Flags().IntVar(&pathMaxDepth, "max-depth", 6, "maximum hops to search")

	rootCmd.AddCommand(pathCmd)
}
