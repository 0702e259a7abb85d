package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storyflow/storyflow/pkg/adapters/file"
	"github.com/storyflow/storyflow/pkg/adapters/trainer"
	"github.com/storyflow/storyflow/pkg/ports"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current flow as a training document",
	Long: `Traverses the flow graph, assembles the {intents, actions, stories}
training document, and writes it to a file or POSTs it to a training service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		trainerURL, _ := cmd.Flags().GetString("trainer-url")
		stdout, _ := cmd.Flags().GetBool("stdout")

		ws, err := newWorkspace(cmd)
		if err != nil {
			return fmt.Errorf("initialize workspace: %w", err)
		}

		var sink ports.ExportSink
		var dest string
		switch {
		case stdout:
			sink = ports.SinkFunc(func(_ context.Context, payload []byte) error {
				_, err := os.Stdout.Write(payload)
				return err
			})
			dest = "stdout"
		case trainerURL != "":
			sink = trainer.NewSink(trainerURL)
			dest = trainerURL
		default:
			fileSink := file.NewSink(out, "")
			sink = fileSink
			dest = fileSink.Path()
		}

		_, warnings, err := ws.Export(cmd.Context(), sink)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
		}
		if !stdout {
			fmt.Printf("Export written to %s\n", dest)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "Output directory for story-flow-export.json (default: current directory)")
	exportCmd.Flags().String("trainer-url", "", "POST the document to this training service instead of writing a file")
	exportCmd.Flags().Bool("stdout", false, "Write the document to stdout")
}
