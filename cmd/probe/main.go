package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/okian/medaldash/internal/probe"
)

// Default configuration constants.
const (
	defaultTopN         = 10
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 10 * time.Second
	defaultProbeTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8050", "Base URL of the service")
		topN       = flag.Int("top", defaultTopN, "Largest number of countries area and bar may return")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Report file (default: probe_report_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Log every request")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	closer, err := probe.SetupLogging(*logFile, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to setup logging:", err)
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	if *outputFile == "" {
		*outputFile = probe.DefaultReportFile(time.Now())
	}

	config := &probe.Config{
		BaseURL:    *baseURL,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := probe.Run(ctx, config); err != nil {
		fmt.Fprintln(os.Stderr, "probe failed:", err)
		cancel()
		os.Exit(1)
	}
}
