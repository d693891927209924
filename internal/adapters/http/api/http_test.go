package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/medaldash/internal/adapters/http/api"
	service "github.com/okian/medaldash/internal/app"
	"github.com/okian/medaldash/internal/domain/chart"
	"github.com/okian/medaldash/internal/domain/model"
	"github.com/okian/medaldash/internal/domain/types"
	"github.com/okian/medaldash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDeps records the arguments of the last call and returns canned views.
type mockDeps struct {
	err error

	country string
	year    int
	kind    model.MedalKind
}

func (m *mockDeps) Options(context.Context) (types.FilterOptions, error) {
	if m.err != nil {
		return types.FilterOptions{}, m.err
	}
	return types.FilterOptions{
		Countries:      []string{"China", "United States of America"},
		Years:          []types.YearChoice{{Value: 2016, Label: "2016 (Brazil)", HostCountry: "Brazil"}},
		Medals:         []types.MedalChoice{{Value: model.MedalAll, Label: "Todos"}},
		DefaultCountry: "United States of America",
		DefaultYear:    2016,
		DefaultMedal:   model.MedalAll,
	}, nil
}

func (m *mockDeps) Pie(_ context.Context, country string) (chart.View, error) {
	m.country = country
	if m.err != nil {
		return chart.View{}, m.err
	}
	res := types.PieResult{Country: country, Slices: []types.Slice{
		{Kind: model.MedalGold, Value: 19}, {Kind: model.MedalSilver, Value: 9}, {Kind: model.MedalBronze, Value: 5},
	}}
	return chart.View{Figure: chart.NewBuilder().Pie(res), Points: res.Points()}, nil
}

func (m *mockDeps) Area(_ context.Context, kind model.MedalKind) (chart.View, error) {
	m.kind = kind
	if m.err != nil {
		return chart.View{}, m.err
	}
	return chart.View{Figure: chart.NewBuilder().Area(types.AreaResult{Kind: kind})}, nil
}

func (m *mockDeps) Bar(_ context.Context, year int, kind model.MedalKind) (chart.View, error) {
	m.year, m.kind = year, kind
	if m.err != nil {
		return chart.View{}, m.err
	}
	res := types.BarResult{Year: year, Kind: kind, Entries: []types.Entry{
		{Rank: 1, Country: "China", Value: 24}, {Rank: 2, Country: "United States of America", Value: 18},
	}}
	return chart.View{Figure: chart.NewBuilder().Bar(res), Points: res.Points()}, nil
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "records": 3}
}

func newHandler(deps *mockDeps) http.Handler {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}).Register(context.Background(), mux)
	return api.RequestIDMiddleware(mux)
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type viewBody struct {
	Figure chart.Figure          `json:"figure"`
	Points types.AggregateResult `json:"points"`
}

type errBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestChartEndpoints(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := &mockDeps{}
		h := newHandler(deps)

		Convey("When requesting the pie of a country", func() {
			rec := get(h, "/api/charts/pie?country=United+States+of+America")

			Convey("Then it returns the figure and points", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				var body viewBody
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(deps.country, ShouldEqual, "United States of America")
				So(body.Points, ShouldHaveLength, 3)
				So(body.Points[0].Y, ShouldEqual, 19)
				So(body.Figure.Data[0].Type, ShouldEqual, "pie")
			})
		})

		Convey("When the pie country is missing", func() {
			rec := get(h, "/api/charts/pie")

			Convey("Then it is a bad request", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				var body errBody
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Code, ShouldEqual, "bad_request")
				So(body.Message, ShouldContainSubstring, "missing country")
			})
		})

		Convey("When requesting the area without a medal", func() {
			rec := get(h, "/api/charts/area")

			Convey("Then All is used", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.kind, ShouldEqual, model.MedalAll)
			})
		})

		Convey("When requesting the area with a lowercase medal", func() {
			rec := get(h, "/api/charts/area?medal=gold")

			Convey("Then it is parsed case-insensitively", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.kind, ShouldEqual, model.MedalGold)
			})
		})

		Convey("When requesting a chart with an unknown medal", func() {
			area := get(h, "/api/charts/area?medal=Platinum")
			bar := get(h, "/api/charts/bar?year=2016&medal=Platinum")

			Convey("Then both answer 400 invalid_medal", func() {
				for _, rec := range []*httptest.ResponseRecorder{area, bar} {
					So(rec.Code, ShouldEqual, http.StatusBadRequest)
					var body errBody
					So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
					So(body.Code, ShouldEqual, "invalid_medal")
				}
			})
		})

		Convey("When requesting the bar of a year", func() {
			rec := get(h, "/api/charts/bar?year=2016&medal=All")

			Convey("Then it returns ranked points", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.year, ShouldEqual, 2016)
				var body viewBody
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Points[0].Category, ShouldEqual, "China")
				So(body.Points[0].X, ShouldEqual, 2016)
				So(body.Figure.Data[0].Text, ShouldResemble, []string{"24", "18"})
			})
		})

		Convey("When the bar year is not a number", func() {
			rec := get(h, "/api/charts/bar?year=twenty")

			Convey("Then it is a bad request", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a chart endpoint is called with POST", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/charts/pie?country=China", nil))

			Convey("Then it is not found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given dependencies that fail", t, func() {
		Convey("When the dataset is not loaded", func() {
			h := newHandler(&mockDeps{err: service.ErrNotStarted})
			rec := get(h, "/api/charts/pie?country=China")

			Convey("Then it answers 503", func() {
				So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
				var body errBody
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Code, ShouldEqual, "not_ready")
			})
		})

		Convey("When the service reports an invalid medal", func() {
			h := newHandler(&mockDeps{err: model.ErrInvalidMedalKind})
			rec := get(h, "/api/charts/area?medal=Gold")

			Convey("Then it answers 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When an unexpected error happens", func() {
			h := newHandler(&mockDeps{err: errors.New("database gone")})
			rec := get(h, "/api/options")

			Convey("Then it answers 500 without leaking the cause", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				So(rec.Body.String(), ShouldNotContainSubstring, "database gone")
			})
		})
	})
}

func TestOptionsAndPages(t *testing.T) {
	Convey("Given an API server", t, func() {
		h := newHandler(&mockDeps{})

		Convey("When requesting the options", func() {
			rec := get(h, "/api/options")

			Convey("Then the filter domains are returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body types.FilterOptions
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Countries, ShouldResemble, []string{"China", "United States of America"})
				So(body.Years[0].Label, ShouldEqual, "2016 (Brazil)")
				So(body.DefaultYear, ShouldEqual, 2016)
			})
		})

		Convey("When requesting the root", func() {
			rec := get(h, "/")

			Convey("Then it redirects to the dashboard", func() {
				So(rec.Code, ShouldEqual, http.StatusFound)
				So(rec.Header().Get("Location"), ShouldEqual, "/dashboard")
			})
		})

		Convey("When requesting an unknown path", func() {
			rec := get(h, "/nope")

			Convey("Then it is not found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When requesting the dashboard", func() {
			rec := get(h, "/dashboard")

			Convey("Then the HTML page wires the chart endpoints", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				body := rec.Body.String()
				So(body, ShouldContainSubstring, "country-dropdown")
				So(body, ShouldContainSubstring, "/assets/dashboard.js")
			})
		})

		Convey("When requesting stats", func() {
			rec := get(h, "/stats")

			Convey("Then the provider's stats are returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["records"], ShouldEqual, float64(3))
			})
		})

		Convey("When requesting healthz", func() {
			get(h, "/api/charts/pie?country=China")
			rec := get(h, "/healthz")

			Convey("Then Prometheus metrics are exposed", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "medaldash_dashboard_http_requests_total")
			})
		})
	})
}

func TestRequestID(t *testing.T) {
	Convey("Given the request id middleware", t, func() {
		var seen string
		h := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFrom(r.Context())
		}))

		Convey("When no id is supplied", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then a UUID is assigned and echoed", func() {
				id := rec.Header().Get(api.RequestIDHeader)
				So(id, ShouldHaveLength, 36)
				So(seen, ShouldEqual, id)
			})
		})

		Convey("When a valid id is supplied", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(api.RequestIDHeader, "probe-42")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Convey("Then it is echoed unchanged", func() {
				So(rec.Header().Get(api.RequestIDHeader), ShouldEqual, "probe-42")
				So(seen, ShouldEqual, "probe-42")
			})
		})

		Convey("When a malformed id is supplied", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(api.RequestIDHeader, strings.Repeat("x", 200))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Convey("Then it is replaced", func() {
				So(rec.Header().Get(api.RequestIDHeader), ShouldHaveLength, 36)
			})
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		cause := errors.New("year must be an integer")

		Convey("Then WrapKind matches both kind and cause", func() {
			err := api.WrapKind("api.get_bar", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.get_bar: bad request: year must be an integer")
		})

		Convey("And NewKind carries only the kind", func() {
			err := api.NewKind("api.get_pie", api.ErrNotReady)
			So(errors.Is(err, api.ErrNotReady), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.get_pie: dataset not loaded")
		})

		Convey("And Wrap keeps nil as nil", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
			So(errors.Is(api.Wrap("op", cause), cause), ShouldBeTrue)
		})
	})
}
