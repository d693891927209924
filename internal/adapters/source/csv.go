package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/okian/medaldash/internal/domain/model"
)

// CSVSource reads a CSV file with a header row. Extra columns are ignored.
type CSVSource struct {
	path string
	open func() (io.ReadCloser, error)
}

// NewCSVFile creates a CSVSource reading from path.
func NewCSVFile(path string) *CSVSource {
	return &CSVSource{
		path: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// NewCSVReader creates a CSVSource over an already open reader.
func NewCSVReader(name string, r io.Reader) *CSVSource {
	return &CSVSource{
		path: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
	}
}

// Rows parses every data row. Any unparsable number fails the whole read.
func (s *CSVSource) Rows(ctx context.Context) ([]model.RawRow, error) {
	f, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, s.path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: empty file", ErrMissingColumn, s.path)
		}
		return nil, fmt.Errorf("%w: %s: read header: %w", ErrMalformedRow, s.path, err)
	}
	index, err := indexColumns(headers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	var rows []model.RawRow
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %w", ErrMalformedRow, s.path, line, err)
		}
		row, err := parseRow(rec, index)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.path, line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// indexColumns maps each known column key to its position in the header.
func indexColumns(headers []string) (map[string]int, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := columnKey(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(rec []string, index map[string]int) (model.RawRow, error) {
	field := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	number := func(col string) (int, error) {
		raw := field(col)
		n, ok := parseInteger(raw)
		if !ok {
			return 0, fmt.Errorf("%w: column %s: %q is not an integer", ErrMalformedRow, col, raw)
		}
		return n, nil
	}
	count := func(col string) (int, error) {
		n, err := number(col)
		if err != nil {
			return 0, err
		}
		if n > model.MaxMedalCount {
			return 0, fmt.Errorf("%w: column %s: %d exceeds %d", ErrMalformedRow, col, n, model.MaxMedalCount)
		}
		return n, nil
	}

	row := model.RawRow{
		Country:     field(colCountry),
		HostCountry: field(colHostCountry),
		HostCity:    field(colHostCity),
	}
	var err error
	if row.Year, err = number(colYear); err != nil {
		return row, err
	}
	if row.Gold, err = count(colGold); err != nil {
		return row, err
	}
	if row.Silver, err = count(colSilver); err != nil {
		return row, err
	}
	if row.Bronze, err = count(colBronze); err != nil {
		return row, err
	}
	return row, nil
}

// parseInteger accepts decimal integers and the integral floats written by
// spreadsheet exports ("12.0"). Exponents and non-zero fractions are rejected.
func parseInteger(raw string) (int, bool) {
	whole, frac, _ := strings.Cut(raw, ".")
	if strings.Trim(frac, "0") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(whole)
	if err != nil {
		return 0, false
	}
	return n, true
}
