package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/medaldash/internal/domain/model"
	"github.com/okian/medaldash/pkg/metrics"
)

// MemoryStore is an immutable, in-memory Store. All derived views are built
// once in NewMemoryStore; readers receive copies, so the store is safe for
// concurrent use without locking.
type MemoryStore struct {
	collation language.Tag

	records   []model.MedalRecord
	countries []string
	years     []int
	editions  []Edition
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore snapshots records. It rejects records whose total does not
// match their counts.
func NewMemoryStore(_ context.Context, records []model.MedalRecord, opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{collation: language.English}
	for _, opt := range opts {
		opt(s)
	}

	s.records = slices.Clone(records)
	seenCountry := make(map[string]struct{})
	byYear := make(map[int]*Edition)
	for i, r := range s.records {
		if r.Total != r.Gold+r.Silver+r.Bronze {
			return nil, fmt.Errorf("%w: record %d (%s %d): total %d", ErrInvariant, i, r.Country, r.Year, r.Total)
		}
		if _, ok := seenCountry[r.Country]; !ok {
			seenCountry[r.Country] = struct{}{}
			s.countries = append(s.countries, r.Country)
		}
		ed, ok := byYear[r.Year]
		if !ok {
			ed = &Edition{Year: r.Year}
			byYear[r.Year] = ed
		}
		if ed.HostCountry == "" && r.HostCountry != "" {
			ed.HostCountry = r.HostCountry
		}
		if ed.HostCity == "" && r.HostCity != "" {
			ed.HostCity = r.HostCity
		}
	}

	collate.New(s.collation, collate.Loose).SortStrings(s.countries)

	for year, ed := range byYear {
		s.years = append(s.years, year)
		s.editions = append(s.editions, *ed)
	}
	sort.Ints(s.years)
	sort.Slice(s.editions, func(i, j int) bool { return s.editions[i].Year < s.editions[j].Year })

	metrics.UpdateDatasetRecords(len(s.records))
	metrics.UpdateDatasetCountries(len(s.countries))
	metrics.UpdateDatasetYears(len(s.years))
	return s, nil
}

// Records returns a copy of every record in load order.
func (s *MemoryStore) Records(_ context.Context) []model.MedalRecord {
	return slices.Clone(s.records)
}

// Countries returns the distinct country names in collation order.
func (s *MemoryStore) Countries(_ context.Context) []string {
	return slices.Clone(s.countries)
}

// Years returns the distinct years in ascending order.
func (s *MemoryStore) Years(_ context.Context) []int {
	return slices.Clone(s.years)
}

// Editions returns one entry per year in ascending order.
func (s *MemoryStore) Editions(_ context.Context) []Edition {
	return slices.Clone(s.editions)
}

// Count returns the number of records.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.records)
}

// HasYear reports whether any record belongs to year.
func (s *MemoryStore) HasYear(_ context.Context, year int) bool {
	_, found := slices.BinarySearch(s.years, year)
	return found
}
