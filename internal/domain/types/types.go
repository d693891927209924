// Package types contains the chart-ready result shapes shared by the
// aggregation engine, the presentation adapter and the HTTP API.
package types

import "github.com/okian/medaldash/internal/domain/model"

// Point is one tuple of an aggregate result. Series and X are empty for
// results that have no second dimension.
type Point struct {
	Category string `json:"category"`
	Series   string `json:"series,omitempty"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y"`
}

// AggregateResult is the chart-agnostic output of an aggregate.
type AggregateResult []Point

// Slice is one medal share of a pie result.
type Slice struct {
	Kind  model.MedalKind `json:"kind"`
	Value int             `json:"value"`
}

// Entry is a ranked country with its summed value.
type Entry struct {
	Rank    int    `json:"rank"`
	Country string `json:"country"`
	Value   int    `json:"value"`
}

// SeriesPoint is one (country, year, value) sample of the area chart.
type SeriesPoint struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
	Value   int    `json:"value"`
}

// PieResult holds the gold/silver/bronze sums for one country.
type PieResult struct {
	Country string  `json:"country"`
	Slices  []Slice `json:"slices"`
}

// Total returns the sum of all slices.
func (p PieResult) Total() int {
	total := 0
	for _, s := range p.Slices {
		total += s.Value
	}
	return total
}

// Points flattens the pie into (category=medal kind, y=value) tuples.
func (p PieResult) Points() AggregateResult {
	out := make(AggregateResult, 0, len(p.Slices))
	for _, s := range p.Slices {
		out = append(out, Point{Category: string(s.Kind), Y: s.Value})
	}
	return out
}

// AreaResult holds the per-year series of the top countries.
type AreaResult struct {
	Kind    model.MedalKind `json:"kind"`
	Ranking []Entry         `json:"ranking"`
	Series  []SeriesPoint   `json:"series"`
}

// Points flattens the series into (category=country, series=country, x=year, y=value) tuples.
func (a AreaResult) Points() AggregateResult {
	out := make(AggregateResult, 0, len(a.Series))
	for _, s := range a.Series {
		out = append(out, Point{Category: s.Country, Series: s.Country, X: s.Year, Y: s.Value})
	}
	return out
}

// Countries returns the distinct countries of the result in rank order.
func (a AreaResult) Countries() []string {
	out := make([]string, 0, len(a.Ranking))
	for _, e := range a.Ranking {
		out = append(out, e.Country)
	}
	return out
}

// BarResult holds the top countries of a single year.
type BarResult struct {
	Year    int             `json:"year"`
	Kind    model.MedalKind `json:"kind"`
	Entries []Entry         `json:"entries"`
}

// Points flattens the ranking into (category=country, x=year, y=value) tuples.
func (b BarResult) Points() AggregateResult {
	out := make(AggregateResult, 0, len(b.Entries))
	for _, e := range b.Entries {
		out = append(out, Point{Category: e.Country, X: b.Year, Y: e.Value})
	}
	return out
}

// MedalChoice is one medal-kind option of the dashboard filters.
type MedalChoice struct {
	Value model.MedalKind `json:"value"`
	Label string          `json:"label"`
}

// YearChoice is one Olympic year option, labelled with its host when known.
type YearChoice struct {
	Value       int    `json:"value"`
	Label       string `json:"label"`
	HostCountry string `json:"host_country,omitempty"`
	HostCity    string `json:"host_city,omitempty"`
}

// FilterOptions lists every value the dashboard filters accept, with the
// preselected ones.
type FilterOptions struct {
	Countries      []string        `json:"countries"`
	Years          []YearChoice    `json:"years"`
	Medals         []MedalChoice   `json:"medals"`
	DefaultCountry string          `json:"default_country"`
	DefaultYear    int             `json:"default_year"`
	DefaultMedal   model.MedalKind `json:"default_medal"`
}
