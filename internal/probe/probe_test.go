package probe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/medaldash/internal/adapters/http/api"
	"github.com/okian/medaldash/internal/adapters/source"
	service "github.com/okian/medaldash/internal/app"
	"github.com/okian/medaldash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const medalsCSV = `Year,Host_country,Host_city,Country_Name,Gold,Silver,Bronze
2016,Brazil,Rio,United States,10,5,3
2012,United Kingdom,London,United States,9,4,2
2016,Brazil,Rio,China,7,8,9
2012,United Kingdom,London,China,8,6,5
2012,United Kingdom,London,Brazil,1,1,1
`

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func dashboardServer() (*httptest.Server, func()) {
	svc := service.New(service.WithSource(source.NewCSVReader("medals.csv", strings.NewReader(medalsCSV))))
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(api.RequestIDMiddleware(mux))
	return srv, func() { srv.Close(); svc.Stop() }
}

func TestRun(t *testing.T) {
	Convey("Given a running dashboard", t, func() {
		srv, stop := dashboardServer()
		defer stop()

		Convey("When sweeping it", func() {
			out := filepath.Join(t.TempDir(), "reports", "probe.json")
			report, err := Run(context.Background(), &Config{
				BaseURL:    srv.URL + "/",
				TopN:       10,
				Workers:    4,
				Timeout:    5 * time.Second,
				OutputFile: out,
			})

			Convey("Then every target passes", func() {
				So(err, ShouldBeNil)
				So(report.Violations, ShouldBeEmpty)
				// 3 pies, 4 areas, 2 years x 4 medals
				So(report.Stats.Targets, ShouldEqual, 15)
				So(report.Stats.Requests, ShouldEqual, 15)
				So(report.Stats.Failed, ShouldEqual, 0)
			})

			Convey("And the report is written", func() {
				data, rerr := os.ReadFile(out)
				So(rerr, ShouldBeNil)
				var saved Report
				So(json.Unmarshal(data, &saved), ShouldBeNil)
				So(saved.Stats.Targets, ShouldEqual, 15)
			})
		})

		Convey("When the allowed top is smaller than the data", func() {
			report, err := Run(context.Background(), &Config{
				BaseURL: srv.URL,
				TopN:    1,
				Workers: 2,
				Timeout: 5 * time.Second,
			})

			Convey("Then the sweep reports violations", func() {
				So(errors.Is(err, ErrVerification), ShouldBeTrue)
				So(report.Violations, ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given a service that is not reachable", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		Convey("Then the health check fails", func() {
			_, err := Run(context.Background(), &Config{BaseURL: srv.URL, TopN: 10, Workers: 1, Timeout: time.Second})
			So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given chart responses", t, func() {
		fig := map[string]any{"data": []any{}}
		years := map[int]bool{2012: true, 2016: true}

		Convey("Then a well-formed pie passes", func() {
			v := View{Figure: fig, Points: []Point{{Category: "Gold", Y: 1}, {Category: "Silver"}, {Category: "Bronze"}}}
			So(verify(Target{Chart: ChartPie}, v, 10, years), ShouldBeEmpty)
		})

		Convey("And a pie with two slices fails", func() {
			v := View{Figure: fig, Points: []Point{{Category: "Gold"}, {Category: "Silver"}}}
			So(verify(Target{Chart: ChartPie}, v, 10, years), ShouldNotBeEmpty)
		})

		Convey("And a bar with increasing values fails", func() {
			v := View{Figure: fig, Points: []Point{{Category: "A", X: 2016, Y: 1}, {Category: "B", X: 2016, Y: 5}}}
			So(verify(Target{Chart: ChartBar, Year: 2016}, v, 10, years), ShouldNotBeEmpty)
		})

		Convey("And a bar point from another year fails", func() {
			v := View{Figure: fig, Points: []Point{{Category: "A", X: 2012, Y: 1}}}
			So(verify(Target{Chart: ChartBar, Year: 2016}, v, 10, years), ShouldNotBeEmpty)
		})

		Convey("And an area with interleaved series fails", func() {
			v := View{Figure: fig, Points: []Point{
				{Category: "A", X: 2012, Y: 1}, {Category: "B", X: 2012, Y: 1}, {Category: "A", X: 2016, Y: 1},
			}}
			So(verify(Target{Chart: ChartArea}, v, 10, years), ShouldNotBeEmpty)
		})

		Convey("And an area with an unknown year fails", func() {
			v := View{Figure: fig, Points: []Point{{Category: "A", X: 1900, Y: 1}}}
			So(verify(Target{Chart: ChartArea}, v, 10, years), ShouldNotBeEmpty)
		})

		Convey("And a negative value or missing figure fails", func() {
			v := View{Points: []Point{{Category: "A", X: 2016, Y: -1}}}
			So(len(verify(Target{Chart: ChartBar, Year: 2016}, v, 10, years)), ShouldEqual, 2)
		})
	})
}

func TestPlan(t *testing.T) {
	Convey("Given options without medal kinds", t, func() {
		var opts Options
		opts.Countries = []string{"Côte d'Ivoire"}

		targets := plan(opts)

		Convey("Then the default kinds are used and names are escaped", func() {
			So(targets, ShouldHaveLength, 1+4)
			So(targets[0].Path, ShouldEqual, "/api/charts/pie?country=C%C3%B4te+d%27Ivoire")
		})
	})
}
