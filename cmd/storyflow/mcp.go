package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpAdapter "github.com/storyflow/storyflow/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the editor over the Model Context Protocol",
	Long:  `Exposes the flow editor as MCP tools on stdio, so an AI assistant can inspect, edit, and export the flow.`,
	Run: func(cmd *cobra.Command, args []string) {
		ws, err := newWorkspace(cmd)
		if err != nil {
			fmt.Printf("Error initializing workspace: %v\n", err)
			os.Exit(1)
		}

		srv := mcpAdapter.NewServer(ws)
		if err := srv.ServeStdio(); err != nil {
			fmt.Printf("MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
