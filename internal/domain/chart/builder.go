package chart

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/okian/medaldash/internal/domain/aggregate"
	"github.com/okian/medaldash/internal/domain/model"
	"github.com/okian/medaldash/internal/domain/types"
)

// Dark theme of the dashboard.
const (
	DefaultBackground = "#111111"
	DefaultFontColor  = "white"
	DefaultColorScale = "cividis"
)

// Medal slice colors, in Gold, Silver, Bronze order.
var medalColors = map[model.MedalKind]string{
	model.MedalGold:   "gold",
	model.MedalSilver: "silver",
	model.MedalBronze: "#cd7f32",
}

// Display labels of the pie slices.
var medalLabels = map[model.MedalKind]string{
	model.MedalGold:   "Ouro",
	model.MedalSilver: "Prata",
	model.MedalBronze: "Bronze",
}

// Series palette for the area chart, assigned by rank.
var seriesColors = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// Option applies a configuration option to a Builder.
type Option func(*Builder)

// WithBackground sets the paper and plot background color.
func WithBackground(color string) Option {
	return func(b *Builder) {
		if color != "" {
			b.background = color
		}
	}
}

// WithFontColor sets the layout font color.
func WithFontColor(color string) Option {
	return func(b *Builder) {
		if color != "" {
			b.fontColor = color
		}
	}
}

// WithColorScale sets the continuous scale used to color bars by value.
func WithColorScale(scale string) Option {
	return func(b *Builder) {
		if scale != "" {
			b.colorScale = scale
		}
	}
}

// WithTopK sets the k shown in the area and bar titles.
func WithTopK(k int) Option {
	return func(b *Builder) {
		if k > 0 {
			b.topK = k
		}
	}
}

// Builder turns aggregate results into figures. It holds only presentation
// settings and is safe for concurrent use.
type Builder struct {
	background string
	fontColor  string
	colorScale string
	topK       int
}

// NewBuilder creates a Builder with the dark theme.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		background: DefaultBackground,
		fontColor:  DefaultFontColor,
		colorScale: DefaultColorScale,
		topK:       aggregate.TopK,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Pie renders the medal share of one country.
func (b *Builder) Pie(res types.PieResult) Figure {
	labels := make([]string, 0, len(res.Slices))
	values := make([]int, 0, len(res.Slices))
	colors := make([]string, 0, len(res.Slices))
	for _, s := range res.Slices {
		labels = append(labels, medalLabels[s.Kind])
		values = append(values, s.Value)
		colors = append(colors, medalColors[s.Kind])
	}
	keepOrder := false
	return Figure{
		Data: []Trace{{
			Type:   "pie",
			Labels: labels,
			Values: values,
			Marker: &Marker{Colors: colors},
			Sort:   &keepOrder,
		}},
		Layout: b.layout(fmt.Sprintf("Medalhas de %s", res.Country), nil, nil, true),
	}
}

// Area renders one stacked trace per ranked country.
func (b *Builder) Area(res types.AreaResult) Figure {
	byCountry := make(map[string]*Trace, len(res.Ranking))
	traces := make([]Trace, 0, len(res.Ranking))
	for i, e := range res.Ranking {
		traces = append(traces, Trace{
			Type:       "scatter",
			Name:       e.Country,
			Mode:       "lines",
			StackGroup: "one",
			Line:       &Line{Color: seriesColors[i%len(seriesColors)]},
			X:          []any{},
			Y:          []int{},
		})
	}
	for i := range traces {
		byCountry[traces[i].Name] = &traces[i]
	}
	for _, p := range res.Series {
		tr, ok := byCountry[p.Country]
		if !ok {
			continue
		}
		tr.X = append(tr.X, p.Year)
		tr.Y = append(tr.Y, p.Value)
	}

	title := fmt.Sprintf("Top %d países por medalhas (%s)", b.topK, kindLabel(res.Kind))
	return Figure{
		Data:   traces,
		Layout: b.layout(title, &Axis{Title: Title{Text: "Ano"}}, &Axis{Title: Title{Text: "Medalhas"}}, true),
	}
}

// Bar renders the ranked countries of one year, colored by value.
func (b *Builder) Bar(res types.BarResult) Figure {
	x := make([]any, 0, len(res.Entries))
	y := make([]int, 0, len(res.Entries))
	text := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		x = append(x, e.Country)
		y = append(y, e.Value)
		text = append(text, humanize.Comma(int64(e.Value)))
	}

	title := fmt.Sprintf("Top %d países em %d por medalhas (%s)", b.topK, res.Year, kindLabel(res.Kind))
	return Figure{
		Data: []Trace{{
			Type:         "bar",
			X:            x,
			Y:            y,
			Text:         text,
			TextPosition: "auto",
			Marker:       &Marker{Color: y, Colorscale: b.colorScale, ShowScale: true},
		}},
		Layout: b.layout(title, &Axis{Title: Title{Text: "País"}, Type: "category"}, &Axis{Title: Title{Text: "Medalhas"}}, false),
	}
}

func (b *Builder) layout(title string, x, y *Axis, legend bool) Layout {
	return Layout{
		Title:        Title{Text: title},
		PaperBGColor: b.background,
		PlotBGColor:  b.background,
		Font:         Font{Color: b.fontColor},
		XAxis:        x,
		YAxis:        y,
		ShowLegend:   legend,
	}
}

// kindLabel names the medal filter in titles; All reads "Todas".
func kindLabel(kind model.MedalKind) string {
	if kind == model.MedalAll {
		return "Todas"
	}
	return string(kind)
}

// MedalKindLabel returns the radio-button label for kind.
func MedalKindLabel(kind model.MedalKind) string {
	switch kind {
	case model.MedalAll:
		return "Todos"
	case model.MedalGold, model.MedalSilver, model.MedalBronze:
		return medalLabels[kind]
	}
	return string(kind)
}
