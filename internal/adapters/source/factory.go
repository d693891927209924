package source

import (
	"context"
	"fmt"
)

// DriverCSV selects the CSV file source.
const DriverCSV = "csv"

// Settings selects and parameterizes a dataset backend.
type Settings struct {
	Driver string // csv, sqlite or postgres
	Path   string // CSV file path
	DSN    string // database DSN
	Table  string // database table
}

// Open returns the Source described by s. SQL sources must be closed by the caller.
func Open(ctx context.Context, s Settings) (Source, error) {
	switch s.Driver {
	case "", DriverCSV:
		if s.Path == "" {
			return nil, fmt.Errorf("%w: csv source needs a path", ErrOpen)
		}
		return NewCSVFile(s.Path), nil
	case DriverSQLite, DriverPostgres:
		return OpenSQL(ctx, s.Driver, s.DSN, s.Table)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, s.Driver)
}
