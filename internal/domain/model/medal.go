// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMedalKind is returned when a medal selector is outside All/Gold/Silver/Bronze.
var ErrInvalidMedalKind = errors.New("invalid medal kind")

// RawRow is one row as read from a dataset source, before normalization.
type RawRow struct {
	Country     string
	Year        int
	Gold        int
	Silver      int
	Bronze      int
	HostCountry string // optional
	HostCity    string // optional
}

// MedalRecord is one normalized row of the dataset.
// Total is always Gold + Silver + Bronze; build records with NewMedalRecord.
type MedalRecord struct {
	Country     string
	Year        int
	Gold        int
	Silver      int
	Bronze      int
	Total       int
	HostCountry string
	HostCity    string
}

// MaxMedalCount bounds a single medal count of one record. No nation has come
// close in one edition, and the bound keeps every total and sum far from overflow.
const MaxMedalCount = 100_000

// NewMedalRecord builds a record from its counts and derives Total.
func NewMedalRecord(country string, year, gold, silver, bronze int) MedalRecord {
	return MedalRecord{
		Country: country,
		Year:    year,
		Gold:    gold,
		Silver:  silver,
		Bronze:  bronze,
		Total:   gold + silver + bronze,
	}
}

// MedalKind selects which count an aggregate sums.
type MedalKind string

// Medal kinds accepted by the area and bar aggregates.
const (
	MedalAll    MedalKind = "All"
	MedalGold   MedalKind = "Gold"
	MedalSilver MedalKind = "Silver"
	MedalBronze MedalKind = "Bronze"
)

// MedalKinds lists the valid kinds in display order.
var MedalKinds = []MedalKind{MedalAll, MedalGold, MedalSilver, MedalBronze}

// ParseMedalKind parses user input into a MedalKind. Matching ignores case and
// surrounding whitespace; an empty string selects All.
func ParseMedalKind(s string) (MedalKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return MedalAll, nil
	case "gold":
		return MedalGold, nil
	case "silver":
		return MedalSilver, nil
	case "bronze":
		return MedalBronze, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMedalKind, s)
}

// Valid reports whether k is one of the four known kinds.
func (k MedalKind) Valid() bool {
	switch k {
	case MedalAll, MedalGold, MedalSilver, MedalBronze:
		return true
	}
	return false
}

// Value returns the count of r selected by k.
// It panics on an unknown kind: callers must parse input with ParseMedalKind first.
func (k MedalKind) Value(r MedalRecord) int {
	switch k {
	case MedalAll:
		return r.Total
	case MedalGold:
		return r.Gold
	case MedalSilver:
		return r.Silver
	case MedalBronze:
		return r.Bronze
	}
	panic(fmt.Sprintf("model: %v: %q", ErrInvalidMedalKind, string(k)))
}
