package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	storyflow "github.com/storyflow/storyflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of storyflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("storyflow version %s\n", strings.TrimSpace(storyflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
