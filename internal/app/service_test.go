package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/medaldash/internal/adapters/source"
	service "github.com/okian/medaldash/internal/app"
	"github.com/okian/medaldash/internal/domain/dataset"
	"github.com/okian/medaldash/internal/domain/model"
	"github.com/okian/medaldash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const medalsCSV = `Year,Host_country,Host_city,Country_Name,Country_Code,Gold,Silver,Bronze
2016,Brazil,Rio,United States,USA,10,5,3
2012,United Kingdom,London,United States,USA,9,4,2
2016,Brazil,Rio,China,CHN,7,8,9
1988,South Korea,Seoul,China,CHN,5,11,12
`

type failingSource struct{ err error }

type logEntry struct {
	msg    string
	fields map[string]any
}

// recordingLogger keeps every debug entry for inspection.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) Debug(_ context.Context, msg string, fields ...logger.Field) {
	e := logEntry{msg: msg, fields: make(map[string]any, len(fields))}
	for _, f := range fields {
		e.fields[f.Key] = f.Value
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

func (l *recordingLogger) find(msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func (l *recordingLogger) Info(context.Context, string, ...logger.Field)  {}
func (l *recordingLogger) Error(context.Context, string, ...logger.Field) {}
func (l *recordingLogger) Warn(context.Context, string, ...logger.Field)  {}
func (l *recordingLogger) Fatal(context.Context, string, ...logger.Field) {}
func (l *recordingLogger) Named(string) logger.Logger                     { return l }
func (l *recordingLogger) With(...logger.Field) logger.Logger             { return l }

func (f failingSource) Rows(context.Context) ([]model.RawRow, error) { return nil, f.err }

func newStarted(opts ...service.Option) *service.Service {
	opts = append([]service.Option{
		service.WithSource(source.NewCSVReader("medals.csv", strings.NewReader(medalsCSV))),
	}, opts...)
	svc := service.New(opts...)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a service over a CSV source", t, func() {
		svc := newStarted()
		defer svc.Stop()

		Convey("Then it should be marked as started", func() {
			So(svc.Ready(), ShouldBeTrue)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["records"], ShouldEqual, 3)
			So(stats["years"], ShouldResemble, []int{2012, 2016})
		})

		Convey("And a second Start is a no-op", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.GetStats()["records"], ShouldEqual, 3)
		})

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then queries report it is not started", func() {
				So(svc.Ready(), ShouldBeFalse)
				_, err := svc.Pie(context.Background(), "China")
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				_, err = svc.Options(context.Background())
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})

	Convey("Given a source that fails", t, func() {
		boom := errors.New("disk on fire")
		svc := service.New(service.WithSource(failingSource{err: boom}))

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then the load error is returned", func() {
				So(errors.Is(err, service.ErrLoad), ShouldBeTrue)
				So(errors.Is(err, boom), ShouldBeTrue)
				So(svc.Ready(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a CSV with a malformed row", t, func() {
		bad := "Year,Country_Name,Gold,Silver,Bronze\n2016,,1,0,0\n"
		svc := service.New(service.WithSource(source.NewCSVReader("bad.csv", strings.NewReader(bad))))

		Convey("Then Start fails with the normalizer's error", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, dataset.ErrMalformedRow), ShouldBeTrue)
		})
	})

	Convey("Given settings pointing at a missing file", t, func() {
		svc := service.New(service.WithSourceSettings(source.Settings{Driver: source.DriverCSV, Path: "/nonexistent/medals.csv"}))

		Convey("Then Start fails", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrLoad), ShouldBeTrue)
		})
	})
}

func TestService_Charts(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newStarted()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When asking for the pie of the aliased country", func() {
			c, err := svc.Pie(ctx, "United States of America")

			Convey("Then both years are merged under the canonical name", func() {
				So(err, ShouldBeNil)
				So(c.Points, ShouldHaveLength, 3)
				So(c.Points[0].Y, ShouldEqual, 19)
				So(c.Points[1].Y, ShouldEqual, 9)
				So(c.Points[2].Y, ShouldEqual, 5)
				So(c.Figure.Layout.Title.Text, ShouldEqual, "Medalhas de United States of America")
			})
		})

		Convey("When asking for the pie of the raw alias", func() {
			c, err := svc.Pie(ctx, "United States")

			Convey("Then it is empty", func() {
				So(err, ShouldBeNil)
				for _, p := range c.Points {
					So(p.Y, ShouldEqual, 0)
				}
			})
		})

		Convey("When asking for the 2016 bar of all medals", func() {
			c, err := svc.Bar(ctx, 2016, model.MedalAll)

			Convey("Then China ranks above the United States", func() {
				So(err, ShouldBeNil)
				So(c.Points, ShouldHaveLength, 2)
				So(c.Points[0].Category, ShouldEqual, "China")
				So(c.Points[0].Y, ShouldEqual, 24)
				So(c.Points[1].Category, ShouldEqual, "United States of America")
				So(c.Points[1].Y, ShouldEqual, 18)
			})
		})

		Convey("When asking for a year outside the window", func() {
			c, err := svc.Bar(ctx, 1988, model.MedalAll)

			Convey("Then the result is empty", func() {
				So(err, ShouldBeNil)
				So(c.Points, ShouldBeEmpty)
			})
		})

		Convey("When asking for the gold area", func() {
			c, err := svc.Area(ctx, model.MedalGold)

			Convey("Then the series are ordered by country rank then year", func() {
				So(err, ShouldBeNil)
				So(c.Points, ShouldHaveLength, 3)
				So(c.Points[0].Category, ShouldEqual, "United States of America")
				So(c.Points[0].X, ShouldEqual, 2012)
				So(c.Points[1].X, ShouldEqual, 2016)
				So(c.Points[2].Category, ShouldEqual, "China")
				So(c.Figure.Data, ShouldHaveLength, 2)
			})
		})

		Convey("When asking with an invalid medal kind", func() {
			_, errArea := svc.Area(ctx, model.MedalKind("Platinum"))
			_, errBar := svc.Bar(ctx, 2016, model.MedalKind("Platinum"))

			Convey("Then the boundary rejects it without panicking", func() {
				So(errors.Is(errArea, model.ErrInvalidMedalKind), ShouldBeTrue)
				So(errors.Is(errBar, model.ErrInvalidMedalKind), ShouldBeTrue)
			})
		})

		Convey("When many requests run concurrently", func() {
			var wg sync.WaitGroup
			totals := make([]int, 32)
			for i := range totals {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					c, err := svc.Bar(ctx, 2016, model.MedalAll)
					if err == nil && len(c.Points) > 0 {
						totals[i] = c.Points[0].Y
					}
				}(i)
			}
			wg.Wait()

			Convey("Then every caller sees the same answer", func() {
				for _, v := range totals {
					So(v, ShouldEqual, 24)
				}
			})
		})
	})

	Convey("Given a service limited to the top country", t, func() {
		svc := newStarted(service.WithTopN(1))
		defer svc.Stop()

		Convey("Then bar and area keep a single country", func() {
			c, err := svc.Bar(context.Background(), 2016, model.MedalAll)
			So(err, ShouldBeNil)
			So(c.Points, ShouldHaveLength, 1)
			So(c.Figure.Layout.Title.Text, ShouldStartWith, "Top 1 países em 2016")

			a, err := svc.Area(context.Background(), model.MedalAll)
			So(err, ShouldBeNil)
			So(a.Figure.Data, ShouldHaveLength, 1)
		})
	})
}

func TestService_DebugLogging(t *testing.T) {
	Convey("Given a started service with a recording logger", t, func() {
		rec := &recordingLogger{}
		svc := newStarted(service.WithLogger(rec))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When a bar year has no records", func() {
			_, err := svc.Bar(ctx, 2000, model.MedalAll)

			Convey("Then the empty bar is logged as an unknown year", func() {
				So(err, ShouldBeNil)
				e, ok := rec.find("bar without countries")
				So(ok, ShouldBeTrue)
				So(e.fields["year"], ShouldEqual, 2000)
				So(e.fields["known_year"], ShouldEqual, false)
			})
		})

		Convey("When a bar year has records", func() {
			_, err := svc.Bar(ctx, 2016, model.MedalAll)

			Convey("Then no empty bar is logged", func() {
				So(err, ShouldBeNil)
				_, ok := rec.find("bar without countries")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When building the gold area", func() {
			_, err := svc.Area(ctx, model.MedalGold)

			Convey("Then the ranked countries are logged", func() {
				So(err, ShouldBeNil)
				e, ok := rec.find("area ranking")
				So(ok, ShouldBeTrue)
				So(e.fields["countries"], ShouldResemble, []string{"United States of America", "China"})
			})
		})
	})
}

func TestService_Options(t *testing.T) {
	Convey("Given a started service with custom defaults", t, func() {
		svc := newStarted(
			service.WithDefaults("China", 2012),
			service.WithNormalizerOptions(dataset.WithYearRange(1988, 2020)),
		)
		defer svc.Stop()

		opts, err := svc.Options(context.Background())

		Convey("Then every filter domain is listed", func() {
			So(err, ShouldBeNil)
			So(opts.Countries, ShouldResemble, []string{"China", "United States of America"})
			So(opts.Medals, ShouldHaveLength, 4)
			So(opts.Medals[0].Value, ShouldEqual, model.MedalAll)
			So(opts.Medals[0].Label, ShouldEqual, "Todos")
			So(opts.DefaultCountry, ShouldEqual, "China")
			So(opts.DefaultYear, ShouldEqual, 2012)
			So(opts.DefaultMedal, ShouldEqual, model.MedalAll)
		})

		Convey("And years carry their host in the label", func() {
			So(opts.Years, ShouldHaveLength, 3)
			So(opts.Years[0].Value, ShouldEqual, 1988)
			So(opts.Years[0].Label, ShouldEqual, "1988 (South Korea)")
			So(opts.Years[2].Label, ShouldEqual, "2016 (Brazil)")
			So(opts.Years[2].HostCity, ShouldEqual, "Rio")
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithTopN(5))

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats["started"], ShouldEqual, false)
				So(stats["topN"], ShouldEqual, 5)
				So(stats, ShouldNotContainKey, "records")
			})
		})
	})
}
