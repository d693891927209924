package probe

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/medaldash/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends log output to stdout and, when logFile is not empty,
// to that file as well. The returned closer releases the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	if err := logger.Init(logger.WithOutput(out)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}

// DefaultReportFile returns a timestamped report filename.
func DefaultReportFile(now time.Time) string {
	return "probe_report_" + now.Format("20060102_150405") + ".json"
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Medal Dashboard Probe
=====================

Sweeps a running dashboard over every country, year and medal kind and checks
each chart response.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8050")
  -top int
        Largest number of countries area and bar may return (default 10)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -output string
        Report file (default: probe_report_TIMESTAMP.json)
  -log string
        Also write logs to this file
  -verbose
        Log every request
  -help
        Show this help message

Examples:
  go run ./cmd/probe
  go run ./cmd/probe -url http://localhost:9000 -workers 32 -verbose
`)
}
