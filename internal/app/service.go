// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/okian/medaldash/internal/adapters/repository"
	"github.com/okian/medaldash/internal/adapters/source"
	"github.com/okian/medaldash/internal/domain/aggregate"
	"github.com/okian/medaldash/internal/domain/chart"
	"github.com/okian/medaldash/internal/domain/dataset"
	"github.com/okian/medaldash/internal/domain/model"
	"github.com/okian/medaldash/internal/domain/types"
	"github.com/okian/medaldash/pkg/logger"
	"github.com/okian/medaldash/pkg/metrics"
)

// Chart names used in logs and metrics.
const (
	ChartPie  = "pie"
	ChartArea = "area"
	ChartBar  = "bar"
)

// Service loads the medal dataset once and answers chart queries against it.
type Service struct {
	mu sync.RWMutex

	// Core components
	src     source.Source
	store   repository.Store
	builder *chart.Builder
	records []model.MedalRecord

	// Configuration
	settings       source.Settings
	normalizerOpts []dataset.Option
	collation      language.Tag
	topN           int
	defaultCountry string
	defaultYear    int

	// State
	started  bool
	loadedAt time.Time
	loadTime time.Duration

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource injects a ready Source. It takes precedence over WithSourceSettings.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.src = src
		}
	}
}

// WithSourceSettings selects the dataset backend opened by Start.
func WithSourceSettings(settings source.Settings) Option {
	return func(s *Service) {
		s.settings = settings
	}
}

// WithNormalizerOptions configures the year window and country aliases.
func WithNormalizerOptions(opts ...dataset.Option) Option {
	return func(s *Service) {
		s.normalizerOpts = append(s.normalizerOpts, opts...)
	}
}

// WithCollation sets the language used to sort country names.
func WithCollation(tag language.Tag) Option {
	return func(s *Service) {
		s.collation = tag
	}
}

// WithTopN sets how many countries the area and bar charts keep.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithChartBuilder replaces the figure builder.
func WithChartBuilder(b *chart.Builder) Option {
	return func(s *Service) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithDefaults sets the preselected country and year of the dashboard.
func WithDefaults(country string, year int) Option {
	return func(s *Service) {
		if country != "" {
			s.defaultCountry = country
		}
		if year > 0 {
			s.defaultYear = year
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		collation:      language.English,
		topN:           aggregate.TopK,
		defaultCountry: "United States of America",
		defaultYear:    2016,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.builder == nil {
		s.builder = chart.NewBuilder(chart.WithTopK(s.topN))
	}

	return s
}

// Start reads, normalizes and indexes the dataset. It runs once; later calls
// return nil without reloading.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "loading medal dataset...", logger.String("driver", s.settings.Driver))
	began := time.Now()

	store, err := s.load(ctx)
	if err != nil {
		metrics.RecordDatasetLoadError()
		s.logger.Error(ctx, "dataset load failed", logger.Error(err))
		return err
	}

	s.store = store
	s.records = store.Records(ctx)
	s.loadTime = time.Since(began)
	s.loadedAt = time.Now()
	s.started = true
	metrics.RecordDatasetLoad(float64(s.loadTime.Microseconds()) / 1000)

	if len(s.records) == 0 {
		s.logger.Warn(ctx, "dataset is empty; every chart will be blank")
	}
	s.logger.Info(ctx, "medal dataset loaded",
		logger.Int("records", len(s.records)),
		logger.Int("countries", len(store.Countries(ctx))),
		logger.Int("years", len(store.Years(ctx))),
		logger.Duration("took", s.loadTime),
	)
	return nil
}

func (s *Service) load(ctx context.Context) (repository.Store, error) {
	src := s.src
	if src == nil {
		opened, err := source.Open(ctx, s.settings)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoad, err)
		}
		src = opened
		if c, ok := opened.(io.Closer); ok {
			defer func() { _ = c.Close() }()
		}
	}

	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	records, err := dataset.NewNormalizer(s.normalizerOpts...).Normalize(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	store, err := repository.NewMemoryStore(ctx, records, repository.WithCollation(s.collation))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return store, nil
}

// Stop marks the service as stopped. The loaded records are released.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.records = nil
	s.store = nil
	s.logger.Info(context.Background(), "medal service stopped")
}

// Ready reports whether the dataset has been loaded.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

func (s *Service) snapshot() ([]model.MedalRecord, repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.records, s.store, nil
}

// Pie returns the gold/silver/bronze split of country.
func (s *Service) Pie(ctx context.Context, country string) (chart.View, error) {
	records, _, err := s.snapshot()
	if err != nil {
		return chart.View{}, err
	}

	began := time.Now()
	res := aggregate.Pie(records, country)
	out := chart.View{Figure: s.builder.Pie(res), Points: res.Points()}
	s.observe(ctx, ChartPie, began, len(out.Points))

	if res.Total() == 0 {
		s.logger.Debug(ctx, "pie for country without medals", logger.String("country", country))
	}
	return out, nil
}

// Area returns the per-year series of the top countries for kind.
func (s *Service) Area(ctx context.Context, kind model.MedalKind) (chart.View, error) {
	records, _, err := s.snapshot()
	if err != nil {
		return chart.View{}, err
	}
	if !kind.Valid() {
		metrics.RecordAggregationError(ChartArea, "invalid_medal")
		return chart.View{}, fmt.Errorf("%w: %q", model.ErrInvalidMedalKind, kind)
	}

	began := time.Now()
	res := aggregate.AreaN(records, kind, s.topN)
	out := chart.View{Figure: s.builder.Area(res), Points: res.Points()}
	s.observe(ctx, ChartArea, began, len(out.Points))
	s.logger.Debug(ctx, "area ranking",
		logger.String("medal", string(kind)),
		logger.Strings("countries", res.Countries()),
	)
	return out, nil
}

// Bar returns the top countries of year for kind.
func (s *Service) Bar(ctx context.Context, year int, kind model.MedalKind) (chart.View, error) {
	records, store, err := s.snapshot()
	if err != nil {
		return chart.View{}, err
	}
	if !kind.Valid() {
		metrics.RecordAggregationError(ChartBar, "invalid_medal")
		return chart.View{}, fmt.Errorf("%w: %q", model.ErrInvalidMedalKind, kind)
	}

	began := time.Now()
	res := aggregate.BarN(records, year, kind, s.topN)
	out := chart.View{Figure: s.builder.Bar(res), Points: res.Points()}
	s.observe(ctx, ChartBar, began, len(out.Points))

	if len(out.Points) == 0 {
		s.logger.Debug(ctx, "bar without countries",
			logger.Int("year", year),
			logger.Bool("known_year", store.HasYear(ctx, year)),
		)
	}
	return out, nil
}

func (s *Service) observe(ctx context.Context, name string, began time.Time, points int) {
	took := time.Since(began)
	metrics.RecordAggregation(name, float64(took.Microseconds())/1000, points)
	s.logger.Debug(ctx, "chart aggregated",
		logger.String("chart", name),
		logger.Int("points", points),
		logger.Duration("took", took),
	)
}

// Options returns the filter domains of the dashboard.
func (s *Service) Options(ctx context.Context) (types.FilterOptions, error) {
	s.mu.RLock()
	store, started := s.store, s.started
	s.mu.RUnlock()
	if !started {
		return types.FilterOptions{}, ErrNotStarted
	}

	editions := store.Editions(ctx)
	years := make([]types.YearChoice, 0, len(editions))
	for _, ed := range editions {
		years = append(years, types.YearChoice{
			Value:       ed.Year,
			Label:       yearLabel(ed),
			HostCountry: ed.HostCountry,
			HostCity:    ed.HostCity,
		})
	}

	medals := make([]types.MedalChoice, 0, len(model.MedalKinds))
	for _, k := range model.MedalKinds {
		medals = append(medals, types.MedalChoice{Value: k, Label: chart.MedalKindLabel(k)})
	}

	return types.FilterOptions{
		Countries:      store.Countries(ctx),
		Years:          years,
		Medals:         medals,
		DefaultCountry: s.defaultCountry,
		DefaultYear:    s.defaultYear,
		DefaultMedal:   model.MedalAll,
	}, nil
}

// yearLabel renders "2016 (Brazil)" when the host is known and "2016" otherwise.
func yearLabel(ed repository.Edition) string {
	y := strconv.Itoa(ed.Year)
	if ed.HostCountry == "" {
		return y
	}
	return fmt.Sprintf("%s (%s)", y, ed.HostCountry)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
		"topN":    s.topN,
		"driver":  s.settings.Driver,
	}

	if s.started {
		stats["records"] = s.store.Count(ctx)
		stats["countries"] = len(s.store.Countries(ctx))
		stats["years"] = s.store.Years(ctx)
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
		stats["loadMillis"] = s.loadTime.Milliseconds()
	}

	return stats
}
