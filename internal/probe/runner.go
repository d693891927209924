// Package probe sweeps a running medal dashboard over every filter value and
// checks each chart response for consistency.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/medaldash/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

// Run executes the complete sweep. It returns the report together with
// ErrVerification when any response breaks a rule.
func Run(ctx context.Context, config *Config) (*Report, error) {
	log := logger.Named("probe")
	report := &Report{Stats: Stats{StartTime: time.Now()}}

	log.Info(ctx, "starting dashboard sweep",
		logger.String("baseURL", config.BaseURL),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Int("topN", config.TopN))

	client := newHTTPClient(config.Timeout)
	base := strings.TrimRight(config.BaseURL, "/")

	// Step 1: Check service health
	if _, err := client.getJSON(ctx, base+"/healthz", nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	// Step 2: Fetch filter domains and plan the sweep
	var opts Options
	if _, err := client.getJSON(ctx, base+"/api/options", &opts); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	targets := plan(opts)
	report.Stats.Targets = len(targets)
	years := make(map[int]bool, len(opts.Years))
	for _, y := range opts.Years {
		years[y.Value] = true
	}
	log.Info(ctx, "sweep planned",
		logger.Int("countries", len(opts.Countries)),
		logger.Int("years", len(opts.Years)),
		logger.Int("targets", len(targets)))

	// Step 3: Request every target with a bounded pool
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))
	for _, t := range targets {
		g.Go(func() error {
			var view View
			id, err := client.getJSON(gctx, base+t.Path, &view)

			var found []Violation
			if err != nil {
				found = append(found, Violation{Target: t, RequestID: id, Reason: err.Error()})
			} else {
				for _, reason := range verify(t, view, config.TopN, years) {
					found = append(found, Violation{Target: t, RequestID: id, Reason: reason})
				}
			}
			if config.Verbose {
				log.Debug(gctx, "target checked",
					logger.String("path", t.Path),
					logger.String("request_id", id),
					logger.Int("points", len(view.Points)),
					logger.Int("violations", len(found)))
			}

			mu.Lock()
			defer mu.Unlock()
			report.Stats.Requests++
			if err != nil {
				report.Stats.Failed++
			}
			report.Violations = append(report.Violations, found...)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("sweep interrupted: %w", err)
	}

	report.Stats.Violations = len(report.Violations)
	report.Stats.EndTime = time.Now()
	report.Stats.Duration = report.Stats.EndTime.Sub(report.Stats.StartTime)

	// Step 4: Save the report
	if config.OutputFile != "" {
		if err := saveReport(ctx, config.OutputFile, report); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	displayFinalStats(ctx, log, report)

	if len(report.Violations) > 0 {
		for _, v := range report.Violations {
			log.Error(ctx, "violation",
				logger.String("path", v.Target.Path),
				logger.String("request_id", v.RequestID),
				logger.String("reason", v.Reason))
		}
		return report, fmt.Errorf("%w: %d violations over %d targets", ErrVerification, len(report.Violations), len(targets))
	}
	log.Info(ctx, "sweep completed successfully")
	return report, nil
}

// saveReport writes report as indented JSON to filename.
func saveReport(ctx context.Context, filename string, report *Report) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "report saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final sweep statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, report *Report) {
	var perSecond float64
	if report.Stats.Duration > 0 {
		perSecond = float64(report.Stats.Requests) / report.Stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("targets", report.Stats.Targets),
		logger.Int("requests", report.Stats.Requests),
		logger.Int("failed", report.Stats.Failed),
		logger.Int("violations", report.Stats.Violations),
		logger.Duration("duration", report.Stats.Duration),
		logger.Float64("requestsPerSecond", perSecond))
}
