package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/lib/pq"  // registers the "postgres" driver
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/medaldash/internal/domain/model"
)

// Database drivers accepted by OpenSQL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultTable is the table read when none is configured.
const DefaultTable = "medals"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLSource reads every row of one table. Columns are matched by name with the
// same rules as CSV headers.
type SQLSource struct {
	db    *sql.DB
	table string
	owned bool
}

// NewSQLSource wraps an existing connection pool. The caller keeps ownership of db.
func NewSQLSource(db *sql.DB, table string) (*SQLSource, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", ErrOpen, table)
	}
	return &SQLSource{db: db, table: table}, nil
}

// OpenSQL opens and pings a database with driver and dsn.
func OpenSQL(ctx context.Context, driver, dsn, table string) (*SQLSource, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrOpen, driver, err)
	}
	s, err := NewSQLSource(db, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// Rows reads the whole table.
func (s *SQLSource) Rows(ctx context.Context) ([]model.RawRow, error) {
	rs, err := s.db.QueryContext(ctx, "SELECT * FROM "+s.table)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", ErrOpen, s.table, err)
	}
	defer func() { _ = rs.Close() }()

	cols, err := rs.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns of %s: %w", ErrOpen, s.table, err)
	}
	index, err := indexColumns(cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.table, err)
	}

	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	var rows []model.RawRow
	for n := 1; rs.Next(); n++ {
		if err := rs.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %w", ErrMalformedRow, s.table, n, err)
		}
		rec := make([]string, len(values))
		for i, v := range values {
			rec[i] = v.String
		}
		row, err := parseRow(rec, index)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", s.table, n, err)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %s: %w", ErrOpen, s.table, err)
	}
	return rows, nil
}

// Close releases the connection pool when OpenSQL created it.
func (s *SQLSource) Close() error {
	if s.owned && s.db != nil {
		return s.db.Close()
	}
	return nil
}
