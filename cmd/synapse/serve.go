package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/calyptra/synapse"
	httpAdapter "github.com/calyptra/synapse/internal/adapters/http"
	"github.com/calyptra/synapse/internal/presentation/tui"
	"github.com/calyptra/synapse/pkg/sched"
)

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Run a graph with the diagnostics HTTP server",
	Long: `Loads a graph from YAML, executes it in the background and exposes
cell state, connections, topology renderings and Prometheus metrics over
HTTP until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		niter, _ := cmd.Flags().GetInt("niter")
		threads, _ := cmd.Flags().GetInt("threads")

		log := loggerFromFlags(cmd)

		g, err := loadGraph(cmd, args, synapse.WithThreads(threads))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		scheduler := g.Scheduler()
		handler := httpAdapter.NewHandler(g.Plasm(), scheduler, log)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		runCtx, cancelRun := context.WithCancel(context.Background())
		defer cancelRun()
		scheduler.ExecuteAsync(runCtx, niter)

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner()
			fmt.Printf("Starting Synapse diagnostics server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			scheduler.Stop()
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			scheduler.Stop()
			if err := scheduler.Wait(); err != nil && !errors.Is(err, sched.ErrCancelled) {
				fmt.Printf("Graph run failed: %v\n", err)
			}

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Synapse server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().IntP("niter", "n", 0, "Number of iterations (0 runs until quit)")
	serveCmd.Flags().IntP("threads", "t", 1, "Number of cells allowed to process concurrently")
}
