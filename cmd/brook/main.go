package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "brook",
		Short: "Streaming server-side HTML with hydration handoff",
		Long: `Brook renders declarative component trees into streamed HTML.

Pages are delivered as ordered chunks - head first, body as it renders,
then a hydration manifest the browser uses to re-attach interactivity.

  • Incremental markup production with real backpressure
  • Size-or-time chunk flushing
  • Deterministic hydration manifests
  • Prometheus metrics and OpenTelemetry tracing
  • Snapshot export to S3 for CDN-cached pages`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		exportCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
