package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	storyflow "github.com/storyflow/storyflow"
	"github.com/storyflow/storyflow/internal/presentation/tui"
	"github.com/storyflow/storyflow/pkg/adapters/httpapi"
	"github.com/storyflow/storyflow/pkg/adapters/trainer"
	"github.com/storyflow/storyflow/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor HTTP API",
	Long:  `Starts the flow editor session behind a JSON API over HTTP, for the canvas UI to drive.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		trainerURL, _ := cmd.Flags().GetString("trainer-url")

		ws, err := newWorkspace(cmd)
		if err != nil {
			fmt.Printf("Error initializing workspace: %v\n", err)
			os.Exit(1)
		}

		var trainSink ports.ExportSink
		if trainerURL != "" {
			trainSink = trainer.NewSink(trainerURL)
		}

		handler := httpapi.NewHandler(ws, trainSink, newLogger(cmd))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(storyflow.Version)
			fmt.Printf("Starting Storyflow Server on %s\n", srv.Addr)
			if trainerURL != "" {
				fmt.Printf("Training endpoint: %s\n", trainerURL)
			}
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Storyflow Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("trainer-url", "", "Training service URL for POST /export/train")
}
