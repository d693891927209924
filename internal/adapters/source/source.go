// Package source reads raw medal rows from the configured dataset backend.
package source

import (
	"context"
	"strings"

	"github.com/okian/medaldash/internal/domain/model"
)

// Source yields every raw row of a dataset. It is called once at startup.
type Source interface {
	Rows(ctx context.Context) ([]model.RawRow, error)
}

// Column keys after header normalization.
const (
	colCountry     = "country_name"
	colYear        = "year"
	colGold        = "gold"
	colSilver      = "silver"
	colBronze      = "bronze"
	colHostCountry = "host_country"
	colHostCity    = "host_city"
)

// headerAliases maps alternative header spellings to a column key.
var headerAliases = map[string]string{
	"country":      colCountry,
	"country_name": colCountry,
	"nation":       colCountry,
	"year":         colYear,
	"gold":         colGold,
	"silver":       colSilver,
	"bronze":       colBronze,
	"host_country": colHostCountry,
	"host_city":    colHostCity,
}

var requiredColumns = []string{colCountry, colYear, colGold, colSilver, colBronze}

// columnKey normalizes a header: "Country Name" and "country-name" both map to
// country_name.
func columnKey(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	if key, ok := headerAliases[s]; ok {
		return key
	}
	return s
}
