package probe

import (
	"fmt"

	"github.com/okian/medaldash/internal/domain/model"
)

// verify returns every rule view breaks for t. An empty result means the
// response is consistent.
func verify(t Target, v View, topN int, years map[int]bool) []string {
	var out []string
	for i, p := range v.Points {
		if p.Y < 0 {
			out = append(out, fmt.Sprintf("point %d has negative value %d", i, p.Y))
		}
	}
	if v.Figure == nil {
		out = append(out, "missing figure")
	}

	switch t.Chart {
	case ChartPie:
		out = append(out, verifyPie(v)...)
	case ChartArea:
		out = append(out, verifyArea(v, topN, years)...)
	case ChartBar:
		out = append(out, verifyBar(t, v, topN)...)
	}
	return out
}

func verifyPie(v View) []string {
	want := []model.MedalKind{model.MedalGold, model.MedalSilver, model.MedalBronze}
	if len(v.Points) != len(want) {
		return []string{fmt.Sprintf("pie has %d slices, want %d", len(v.Points), len(want))}
	}
	var out []string
	for i, k := range want {
		if v.Points[i].Category != string(k) {
			out = append(out, fmt.Sprintf("slice %d is %q, want %q", i, v.Points[i].Category, k))
		}
	}
	return out
}

func verifyArea(v View, topN int, years map[int]bool) []string {
	var out []string
	seen := make(map[string]int)
	order := 0
	lastYear := make(map[string]int)
	for i, p := range v.Points {
		if _, ok := seen[p.Category]; !ok {
			order++
			seen[p.Category] = order
		} else if seen[p.Category] != order {
			out = append(out, fmt.Sprintf("series of %q is not contiguous at point %d", p.Category, i))
		}
		if last, ok := lastYear[p.Category]; ok && p.X <= last {
			out = append(out, fmt.Sprintf("years of %q are not ascending at point %d", p.Category, i))
		}
		lastYear[p.Category] = p.X
		if len(years) > 0 && !years[p.X] {
			out = append(out, fmt.Sprintf("point %d has unknown year %d", i, p.X))
		}
	}
	if len(seen) > topN {
		out = append(out, fmt.Sprintf("area has %d countries, limit %d", len(seen), topN))
	}
	return out
}

func verifyBar(t Target, v View, topN int) []string {
	var out []string
	if len(v.Points) > topN {
		out = append(out, fmt.Sprintf("bar has %d countries, limit %d", len(v.Points), topN))
	}
	seen := make(map[string]bool, len(v.Points))
	for i, p := range v.Points {
		if seen[p.Category] {
			out = append(out, fmt.Sprintf("country %q appears twice", p.Category))
		}
		seen[p.Category] = true
		if p.X != t.Year {
			out = append(out, fmt.Sprintf("point %d belongs to year %d, want %d", i, p.X, t.Year))
		}
		if i > 0 && p.Y > v.Points[i-1].Y {
			out = append(out, fmt.Sprintf("values increase at point %d", i))
		}
	}
	return out
}
