// Package repository holds the immutable medal record set shared by every
// aggregation call.
package repository

import (
	"context"

	"github.com/okian/medaldash/internal/domain/model"
)

// Edition describes one Olympic year of the dataset and, when the source
// provides it, its host.
type Edition struct {
	Year        int    `json:"year"`
	HostCountry string `json:"host_country,omitempty"`
	HostCity    string `json:"host_city,omitempty"`
}

// Store provides read-only access to the loaded dataset.
type Store interface {
	// Records returns a copy of every normalized record in load order.
	Records(ctx context.Context) []model.MedalRecord

	// Countries returns the distinct country names, collated for display.
	Countries(ctx context.Context) []string

	// Years returns the distinct years in ascending order.
	Years(ctx context.Context) []int

	// Editions returns one entry per distinct year with host metadata.
	Editions(ctx context.Context) []Edition

	// Count returns the number of records.
	Count(ctx context.Context) int

	// HasYear reports whether any record belongs to year.
	HasYear(ctx context.Context, year int) bool
}
