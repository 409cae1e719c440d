package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"trendfit/internal/errors"
)

// Row is one data row keyed by header
type Row map[string]string

// Table is a header row plus string cells, as read from CSV or a sheet
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether a header exists
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Floats parses a numeric column. Empty cells are an error.
func (t *Table) Floats(col string) ([]float64, error) {
	if !t.HasColumn(col) {
		return nil, errors.NotFound(fmt.Sprintf("column %q", col))
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		v, err := parseFloat(row[col])
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d column %q: %v", i+2, col, err))
		}
		out[i] = v
	}
	return out, nil
}

// Pairs returns the (x, y) values of rows where both cells are non-empty
func (t *Table) Pairs(xCol, yCol string) ([]float64, []float64, error) {
	for _, col := range []string{xCol, yCol} {
		if !t.HasColumn(col) {
			return nil, nil, errors.NotFound(fmt.Sprintf("column %q", col))
		}
	}

	var xs, ys []float64
	for i, row := range t.Rows {
		xc, yc := row[xCol], row[yCol]
		if xc == "" || yc == "" {
			continue
		}
		x, err := parseFloat(xc)
		if err != nil {
			return nil, nil, errors.InvalidInput(fmt.Sprintf("row %d column %q: %v", i+2, xCol, err))
		}
		y, err := parseFloat(yc)
		if err != nil {
			return nil, nil, errors.InvalidInput(fmt.Sprintf("row %d column %q: %v", i+2, yCol, err))
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}

// OptionalFloat parses a cell, returning nil for an empty one
func OptionalFloat(cell string) (*float64, error) {
	if strings.TrimSpace(cell) == "" {
		return nil, nil
	}
	v, err := parseFloat(cell)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloat(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	return strconv.ParseFloat(s, 64)
}
