// Package dataset turns raw medal rows into the immutable, normalized record set
// served by the dashboard.
package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/medaldash/internal/domain/model"
)

// Normalizer canonicalizes country labels, restricts rows to a year window and
// derives the total-medals field.
type Normalizer struct {
	minYear int
	maxYear int
	aliases map[string]string
}

// NewNormalizer creates a Normalizer covering 1992..2020 with the default aliases.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		minYear: DefaultMinYear,
		maxYear: DefaultMaxYear,
		aliases: DefaultAliases(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// YearRange returns the inclusive window kept by the normalizer.
func (n *Normalizer) YearRange() (int, int) {
	return n.minYear, n.maxYear
}

// Normalize converts raw rows into medal records. The alias rewrite runs before
// any other step so both labels of a country are merged downstream. Rows outside
// the year window are dropped; rows with an empty country or a count outside
// [0, model.MaxMedalCount] fail the whole load with ErrMalformedRow.
func (n *Normalizer) Normalize(ctx context.Context, rows []model.RawRow) ([]model.MedalRecord, error) {
	if n.minYear > n.maxYear {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidRange, n.minYear, n.maxYear)
	}

	records := make([]model.MedalRecord, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		country := strings.TrimSpace(row.Country)
		if country == "" {
			return nil, fmt.Errorf("%w: row %d: empty country", ErrMalformedRow, i+1)
		}
		if row.Gold < 0 || row.Silver < 0 || row.Bronze < 0 {
			return nil, fmt.Errorf("%w: row %d: negative medal count", ErrMalformedRow, i+1)
		}
		if row.Gold > model.MaxMedalCount || row.Silver > model.MaxMedalCount || row.Bronze > model.MaxMedalCount {
			return nil, fmt.Errorf("%w: row %d: medal count above %d", ErrMalformedRow, i+1, model.MaxMedalCount)
		}
		if canonical, ok := n.aliases[country]; ok {
			country = canonical
		}
		if row.Year < n.minYear || row.Year > n.maxYear {
			continue
		}

		rec := model.NewMedalRecord(country, row.Year, row.Gold, row.Silver, row.Bronze)
		rec.HostCountry = strings.TrimSpace(row.HostCountry)
		rec.HostCity = strings.TrimSpace(row.HostCity)
		records = append(records, rec)
	}
	return records, nil
}

// Normalize is a shortcut for NewNormalizer(opts...).Normalize(ctx, rows).
func Normalize(ctx context.Context, rows []model.RawRow, opts ...Option) ([]model.MedalRecord, error) {
	return NewNormalizer(opts...).Normalize(ctx, rows)
}
