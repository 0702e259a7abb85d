package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storyflow/storyflow/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the flow graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) or Graphviz DOT digraph representing the flow.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		ws, err := newWorkspace(cmd)
		if err != nil {
			return fmt.Errorf("failed to init workspace: %w", err)
		}
		snap := ws.Snapshot()

		switch strings.ToLower(format) {
		case "mermaid", "":
			fmt.Print(graph.GenerateMermaid(snap))
		case "dot":
			out, err := graph.GenerateDOT(snap)
			if err != nil {
				return err
			}
			fmt.Print(out)
		default:
			return fmt.Errorf("unknown format %q: use mermaid or dot", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "mermaid", "output format: mermaid or dot")
}
