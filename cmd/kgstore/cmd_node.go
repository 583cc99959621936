package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphmemory/kgstore/internal/database"
)

var (
	nodeAddType        string
	nodeAddSubType     string
	nodeAddDescription string
	nodeAddStatement   string
	nodeAddContent     string
	nodeAddConfidence  float64
	nodeAddHasConf     bool
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Manage nodes",
}

var nodeAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create or update a node",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, closer, err := openEngine(cmd)
		if err != nil {
			fatalf("%v", err)
		}
		defer closer()

		input := database.NodeInput{
			Name:        args[0],
			NodeType:    nodeAddType,
			SubType:     nodeAddSubType,
			Description: nodeAddDescription,
			Statement:   nodeAddStatement,
			Content:     nodeAddContent,
		}
		if nodeAddHasConf {
			input.Confidence = &nodeAddConfidence
		}

		nodes, err := e.CreateNodes([]database.NodeInput{input})
		if err != nil {
			fatalf("failed to create node: %v", err)
		}
		fmt.Printf("created node %q (status=%s)\n", nodes[0].Name, nodes[0].Status)
	},
}

var nodeGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Fetch a node by name or alias",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, closer, err := openEngine(cmd)
		if err != nil {
			fatalf("%v", err)
		}
		defer closer()

		node, err := e.GetNodeByName(args[0])
		if err != nil {
			fatalf("failed to get node: %v", err)
		}
		if node == nil {
			fmt.Println("not found")
			return
		}
		printNode(*node)
	},
}

func printNode(n database.Node) {
	fmt.Printf("%s [%s] status=%s\n", n.Name, n.NodeType, n.Status)
	if n.Description != "" {
		fmt.Printf("  description: %s\n", n.Description)
	}
	if len(n.Observations) > 0 {
		var obs []string
		for _, o := range n.Observations {
			obs = append(obs, o.Content)
		}
		fmt.Printf("  observations: %s\n", strings.Join(obs, " | "))
	}
}

func init() {
	nodeAddCmd.Flags().StringVar(&nodeAddType, "type", "", "node type (required)")
	nodeAddCmd.Flags().StringVar(&nodeAddSubType, "sub-type", "", "node sub-type")
	nodeAddCmd.Flags().StringVar(&nodeAddDescription, "description", "", "description text")
	nodeAddCmd.Flags().StringVar(&nodeAddStatement, "statement", "", "statement text")
	nodeAddCmd.Flags().StringVar(&nodeAddContent, "content", "", "content text")
	nodeAddCmd.Flags().Float64Var(&nodeAddConfidence, "confidence", 0, "confidence in [0,1]")
	nodeAddCmd.PreRun = func(cmd *cobra.Command, args []string) {
		nodeAddHasConf = cmd.Flags().Changed("confidence")
	}
	nodeAddCmd.MarkFlagRequired("type")

	nodeCmd.AddCommand(nodeAddCmd, nodeGetCmd)
	rootCmd.AddCommand(nodeCmd)
}
