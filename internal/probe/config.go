package probe

import (
	"time"

	"github.com/okian/medaldash/internal/domain/model"
)

// Config holds configuration for a dashboard sweep.
type Config struct {
	BaseURL    string        // Base URL of the dashboard service
	TopN       int           // Largest number of countries area and bar may return
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Report file; empty disables the report
	Verbose    bool          // Log every request
}

// Target is one chart request of the sweep.
type Target struct {
	Chart   string          `json:"chart"`
	Path    string          `json:"path"`
	Country string          `json:"country,omitempty"`
	Year    int             `json:"year,omitempty"`
	Medal   model.MedalKind `json:"medal,omitempty"`
}

// Point mirrors one aggregate tuple of a chart response.
type Point struct {
	Category string `json:"category"`
	Series   string `json:"series,omitempty"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y"`
}

// View mirrors the body of a chart endpoint. The figure is kept opaque.
type View struct {
	Figure map[string]any `json:"figure"`
	Points []Point        `json:"points"`
}

// Options mirrors GET /api/options.
type Options struct {
	Countries []string `json:"countries"`
	Years     []struct {
		Value int    `json:"value"`
		Label string `json:"label"`
	} `json:"years"`
	Medals []struct {
		Value model.MedalKind `json:"value"`
		Label string          `json:"label"`
	} `json:"medals"`
}

// Violation is one failed check of one target.
type Violation struct {
	Target    Target `json:"target"`
	RequestID string `json:"request_id,omitempty"`
	Reason    string `json:"reason"`
}

// Stats holds sweep statistics.
type Stats struct {
	Targets    int           `json:"targets"`
	Requests   int           `json:"requests"`
	Failed     int           `json:"failed"`
	Violations int           `json:"violations"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Duration   time.Duration `json:"duration"`
}

// Report is the outcome of a sweep.
type Report struct {
	Stats      Stats       `json:"stats"`
	Violations []Violation `json:"violations"`
}
