package probe

import (
	"net/url"
	"strconv"

	"github.com/okian/medaldash/internal/domain/model"
)

// Chart names of the sweep targets.
const (
	ChartPie  = "pie"
	ChartArea = "area"
	ChartBar  = "bar"
)

// plan lists every chart request the dashboard can issue: the pie of every
// country, the area of every medal kind and the bar of every year and kind.
func plan(opts Options) []Target {
	medals := make([]model.MedalKind, 0, len(opts.Medals))
	for _, m := range opts.Medals {
		medals = append(medals, m.Value)
	}
	if len(medals) == 0 {
		medals = model.MedalKinds
	}

	targets := make([]Target, 0, len(opts.Countries)+len(medals)*(1+len(opts.Years)))
	for _, c := range opts.Countries {
		targets = append(targets, Target{
			Chart:   ChartPie,
			Path:    "/api/charts/pie?" + url.Values{"country": {c}}.Encode(),
			Country: c,
		})
	}
	for _, m := range medals {
		targets = append(targets, Target{
			Chart: ChartArea,
			Path:  "/api/charts/area?" + url.Values{"medal": {string(m)}}.Encode(),
			Medal: m,
		})
	}
	for _, y := range opts.Years {
		for _, m := range medals {
			targets = append(targets, Target{
				Chart: ChartBar,
				Path:  "/api/charts/bar?" + url.Values{"year": {strconv.Itoa(y.Value)}, "medal": {string(m)}}.Encode(),
				Year:  y.Value,
				Medal: m,
			})
		}
	}
	return targets
}
