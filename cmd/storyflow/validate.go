package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storyflow/storyflow/internal/presentation/tui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the flow graph for topology problems",
	Long:  `Traverses every story and reports cycles, dead ends, ignored branches, and missing start nodes.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	ws, err := newWorkspace(cmd)
	if err != nil {
		return fmt.Errorf("failed to init workspace: %w", err)
	}

	warnings, err := ws.Validate()
	if err != nil {
		return err
	}

	if len(warnings) == 0 {
		fmt.Println("Flow is valid! ✅")
		return nil
	}

	// Render the findings as a markdown report.
	var sb strings.Builder
	sb.WriteString("# Flow validation report\n\n")
	sb.WriteString(fmt.Sprintf("Found **%d** topology warning(s). Export will still proceed.\n\n", len(warnings)))
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("- `%s` %s\n", w.Code, w.Message))
	}

	render := tui.NewRenderer()
	out, err := render(sb.String())
	if err != nil {
		// Fall back to plain text when the terminal renderer is unhappy.
		fmt.Print(sb.String())
		return nil
	}
	fmt.Print(out)
	return nil
}
