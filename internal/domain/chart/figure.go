// Package chart maps aggregate results into plotly-compatible figures.
package chart

import "github.com/okian/medaldash/internal/domain/types"

// View is a rendered figure together with the aggregate tuples behind it.
type View struct {
	Figure Figure                `json:"figure"`
	Points types.AggregateResult `json:"points"`
}

// Figure is the JSON document handed to plotly on the dashboard page.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one plotly trace. Only the fields used by the dashboard are modeled.
type Trace struct {
	Type         string   `json:"type"`
	Name         string   `json:"name,omitempty"`
	Labels       []string `json:"labels,omitempty"`
	Values       []int    `json:"values,omitempty"`
	X            []any    `json:"x,omitempty"`
	Y            []int    `json:"y,omitempty"`
	Text         []string `json:"text,omitempty"`
	TextPosition string   `json:"textposition,omitempty"`
	Mode         string   `json:"mode,omitempty"`
	StackGroup   string   `json:"stackgroup,omitempty"`
	Marker       *Marker  `json:"marker,omitempty"`
	Line         *Line    `json:"line,omitempty"`
	Sort         *bool    `json:"sort,omitempty"`
}

// Marker styles pie slices and bars.
type Marker struct {
	Colors     []string `json:"colors,omitempty"`
	Color      any      `json:"color,omitempty"`
	Colorscale string   `json:"colorscale,omitempty"`
	ShowScale  bool     `json:"showscale,omitempty"`
}

// Line styles area traces.
type Line struct {
	Color string `json:"color,omitempty"`
}

// Layout is the subset of plotly layout attributes the dashboard sets.
type Layout struct {
	Title        Title  `json:"title"`
	PaperBGColor string `json:"paper_bgcolor"`
	PlotBGColor  string `json:"plot_bgcolor"`
	Font         Font   `json:"font"`
	XAxis        *Axis  `json:"xaxis,omitempty"`
	YAxis        *Axis  `json:"yaxis,omitempty"`
	ShowLegend   bool   `json:"showlegend"`
}

// Title wraps a layout title.
type Title struct {
	Text string `json:"text"`
}

// Font sets the layout font color.
type Font struct {
	Color string `json:"color"`
}

// Axis configures one chart axis.
type Axis struct {
	Title Title  `json:"title"`
	Type  string `json:"type,omitempty"`
}
