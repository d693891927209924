// Package aggregate implements the three chart aggregates of the dashboard.
//
// Every function is pure: it reads the shared record set and returns a fresh
// result, so concurrent calls need no locking.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/okian/medaldash/internal/domain/model"
	"github.com/okian/medaldash/internal/domain/types"
)

// TopK is the number of countries kept by Area and Bar.
const TopK = 10

// Pie sums gold, silver and bronze for country. The match is exact and
// case-sensitive; an unknown country yields three zero slices.
func Pie(records []model.MedalRecord, country string) types.PieResult {
	var gold, silver, bronze int
	for _, r := range records {
		if r.Country != country {
			continue
		}
		gold += r.Gold
		silver += r.Silver
		bronze += r.Bronze
	}
	return types.PieResult{
		Country: country,
		Slices: []types.Slice{
			{Kind: model.MedalGold, Value: gold},
			{Kind: model.MedalSilver, Value: silver},
			{Kind: model.MedalBronze, Value: bronze},
		},
	}
}

// Area ranks countries by their summed value over all years and returns the
// per-year series of the top TopK.
func Area(records []model.MedalRecord, kind model.MedalKind) types.AreaResult {
	return AreaN(records, kind, TopK)
}

// AreaN is Area with an explicit k. Series are ordered by country rank, then
// by year ascending; years without data are absent.
func AreaN(records []model.MedalRecord, kind model.MedalKind, k int) types.AreaResult {
	mustValid(kind)

	ranking := topCountries(records, kind, k)
	rank := make(map[string]int, len(ranking))
	for _, e := range ranking {
		rank[e.Country] = e.Rank
	}

	type key struct {
		country string
		year    int
	}
	sums := make(map[key]int)
	for _, r := range records {
		if _, ok := rank[r.Country]; !ok {
			continue
		}
		sums[key{r.Country, r.Year}] += kind.Value(r)
	}

	series := make([]types.SeriesPoint, 0, len(sums))
	for k, v := range sums {
		series = append(series, types.SeriesPoint{Country: k.country, Year: k.year, Value: v})
	}
	sort.Slice(series, func(i, j int) bool {
		ri, rj := rank[series[i].Country], rank[series[j].Country]
		if ri != rj {
			return ri < rj
		}
		return series[i].Year < series[j].Year
	})

	return types.AreaResult{Kind: kind, Ranking: ranking, Series: series}
}

// Bar returns the TopK countries of year ranked by summed value. A year with
// no rows yields an empty result.
func Bar(records []model.MedalRecord, year int, kind model.MedalKind) types.BarResult {
	return BarN(records, year, kind, TopK)
}

// BarN is Bar with an explicit k.
func BarN(records []model.MedalRecord, year int, kind model.MedalKind, k int) types.BarResult {
	mustValid(kind)

	inYear := make([]model.MedalRecord, 0)
	for _, r := range records {
		if r.Year == year {
			inYear = append(inYear, r)
		}
	}
	return types.BarResult{Year: year, Kind: kind, Entries: topCountries(inYear, kind, k)}
}

// topCountries groups records by country in order of first appearance, sums
// the selected value and keeps the k largest. The sort is stable, so on equal
// sums the country seen first keeps the better rank.
func topCountries(records []model.MedalRecord, kind model.MedalKind, k int) []types.Entry {
	index := make(map[string]int)
	entries := make([]types.Entry, 0)
	for _, r := range records {
		i, ok := index[r.Country]
		if !ok {
			i = len(entries)
			index[r.Country] = i
			entries = append(entries, types.Entry{Country: r.Country})
		}
		entries[i].Value += kind.Value(r)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	if k >= 0 && len(entries) > k {
		entries = entries[:k]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func mustValid(kind model.MedalKind) {
	if !kind.Valid() {
		panic(fmt.Sprintf("aggregate: %v: %q", model.ErrInvalidMedalKind, string(kind)))
	}
}
