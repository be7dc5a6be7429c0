// cmd/singleton/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/sghaida/singleton/observability"
	"github.com/sghaida/singleton/singleton"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// This binary demonstrates the two process-wide singletons.
//
// Key behaviors:
// - Prints whether two NaiveInstance calls returned the same instance
// - Starts two goroutines calling ThreadSafeInstance with distinct labels, waits
//   for both, then prints the label each one observed (in start order)
// - -v enables debug logs on stderr; -metrics dumps collected metric points to stderr

// labels are passed to ThreadSafeInstance, one per goroutine.
var labels = []string{"Thread1", "Thread2"}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the demo and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("singleton", flag.ContinueOnError)
	flags.SetOutput(stderr)

	verbose := flags.Bool("v", false, "log holder events at debug level to stderr")
	withMetrics := flags.Bool("metrics", false, "write collected metric points to stderr after the run")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() > 0 {
		_, _ = fmt.Fprintln(stderr, "usage: singleton [-v] [-metrics]")
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	opts := []singleton.Option{singleton.WithLogger(logger)}

	var reader *sdkmetric.ManualReader
	if *withMetrics {
		reader = sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer func() {
			if err := provider.Shutdown(context.Background()); err != nil {
				logger.Warn("meter provider shutdown failed", slog.String("error", err.Error()))
			}
		}()

		rec, err := observability.NewMetricsRecorderFor(provider)
		if err != nil {
			logger.Error("metrics initialization failed", slog.String("error", err.Error()))
			return 1
		}
		opts = append(opts, singleton.WithRecorder(rec))
	}
	singleton.Configure(opts...)

	code := demo(stdout, logger)

	if reader != nil {
		var rm metricdata.ResourceMetrics
		if err := reader.Collect(context.Background(), &rm); err != nil {
			logger.Error("metrics collection failed", slog.String("error", err.Error()))
			return 1
		}
		if err := observability.WriteMetrics(stderr, &rm); err != nil {
			return 1
		}
	}
	return code
}

// demo runs both singletons and prints their results to stdout.
func demo(stdout io.Writer, logger *slog.Logger) int {
	// NAIVE: sequential access on one goroutine is fine
	s1 := singleton.NaiveInstance()
	s2 := singleton.NaiveInstance()
	_, _ = fmt.Fprintln(stdout, s1 == s2)

	// THREAD SAFE: concurrent first access, one construction
	results := make([]*singleton.ThreadSafeSingleton, len(labels))
	var wg sync.WaitGroup
	for i, label := range labels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = singleton.ThreadSafeInstance(label)
		}()
	}
	wg.Wait()

	for _, r := range results {
		_, _ = fmt.Fprintln(stdout, r.Value)
	}

	for _, r := range results[1:] {
		if r != results[0] {
			logger.Error("goroutines observed different instances",
				slog.String("first", results[0].InstanceID()),
				slog.String("other", r.InstanceID()),
			)
			return 1
		}
	}

	stats := singleton.CurrentStats()
	logger.Debug("demo finished",
		slog.Int64("naive_constructions", stats.NaiveConstructions),
		slog.Int64("thread_safe_constructions", stats.ThreadSafeConstructions),
	)
	return 0
}
