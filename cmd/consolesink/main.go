package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/streamweld/consolesink"
)

var version = "dev"

func main() {
	rootCmd := newRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	var (
		metricsListen string
		logLevel      string
	)

	cmd := &cobra.Command{
		Use:   "consolesink",
		Short: "Console output provider for streaming-data pipelines",
		Long: `consolesink is an output provider plugin: it reads a one-line JSON
configuration and a stream of JSON envelopes from stdin and writes a
formatted representation of each envelope to stdout. Diagnostics go to
stderr so they never mix with the data stream.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), metricsListen, logLevel)
		},
	}

	cmd.Flags().StringVar(&metricsListen, "listen-metrics", "", "address to expose Prometheus metrics on (disabled when empty)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "stderr log level: debug, info, warn, or error")

	cmd.AddCommand(newHandshakeCommand())
	return cmd
}

func run(ctx context.Context, metricsListen, logLevel string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := consolesink.NewTextServiceLogger(os.Stderr, parseLogLevel(logLevel))
	runID := consolesink.NewRunID()
	logger = logger.With(consolesink.LogFields{"run_id": runID})
	logger.Info("console sink starting", consolesink.LogFields{"version": version})

	opts := []consolesink.ProviderOption{}
	if metricsListen != "" {
		sinkMetrics := consolesink.NewSinkMetrics(prometheus.DefaultRegisterer)
		if err := sinkMetrics.Register(); err != nil {
			return err
		}
		opts = append(opts, consolesink.WithMetrics(sinkMetrics))
		go serveMetrics(metricsListen, logger)
	}

	runner, err := consolesink.NewRunner(os.Stdin, os.Stdout, logger, opts...)
	if err != nil {
		return err
	}

	if err := runner.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("run cancelled", nil)
			return nil
		}
		return err
	}
	return nil
}

func serveMetrics(addr string, logger consolesink.ServiceLogger) {
	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("metrics listener started", consolesink.LogFields{"addr": addr})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics listener failed", err, nil)
	}
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// mapErrorToExitCode maps internal errors to process exit codes. A missing
// or unparseable configuration is the fatal-but-clean class and gets its
// own code so supervisors can tell it apart from runtime failures.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}
	if consolesink.IsConfigError(err) {
		return 2
	}
	return 1
}
