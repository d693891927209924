package dataset

// Default normalization window and alias table.
const (
	DefaultMinYear = 1992
	DefaultMaxYear = 2020
)

// DefaultAliases maps historical country labels to their canonical name.
func DefaultAliases() map[string]string {
	return map[string]string{
		"United States": "United States of America",
	}
}

// Option applies a configuration option to a Normalizer.
type Option func(*Normalizer)

// WithYearRange sets the inclusive year window kept by the normalizer.
func WithYearRange(minYear, maxYear int) Option {
	return func(n *Normalizer) {
		n.minYear = minYear
		n.maxYear = maxYear
	}
}

// WithAliases replaces the country alias table. A nil map keeps the default.
func WithAliases(aliases map[string]string) Option {
	return func(n *Normalizer) {
		if aliases == nil {
			return
		}
		n.aliases = make(map[string]string, len(aliases))
		for from, to := range aliases {
			n.aliases[from] = to
		}
	}
}
