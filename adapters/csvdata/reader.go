// Package csvdata loads CSV files into design matrices and outcome vectors.
// Missing-value handling, indicator encoding, and column selection happen
// here, before anything reaches the estimation core.
package csvdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"statlab/domain/core"
	"statlab/domain/model"
	"statlab/internal/errors"
)

// Table is a raw CSV file: a header row plus string records
type Table struct {
	Headers []string
	Rows    [][]string
}

// ReadFile parses a CSV file with a header row
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return table, nil
}

// Read parses CSV content with a header row, e.g. from an embedded dataset
func Read(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse csv")
	}
	if len(records) < 2 {
		return nil, core.ErrInsufficientData
	}
	return &Table{Headers: records[0], Rows: records[1:]}, nil
}

// NumRows returns the number of data records
func (t *Table) NumRows() int { return len(t.Rows) }

// columnIndex finds a header by name
func (t *Table) columnIndex(name string) (int, error) {
	for i, h := range t.Headers {
		if h == name {
			return i, nil
		}
	}
	return 0, core.NewNotFoundError("column", name)
}

// Numeric extracts one column as floats
func (t *Table) Numeric(name string) ([]float64, error) {
	idx, err := t.columnIndex(name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d column %s is not numeric", i+1, name)
		}
		values[i] = v
	}
	return values, nil
}

// Builder starts an incremental design-matrix build over the table
func (t *Table) Builder() *DesignBuilder {
	return &DesignBuilder{table: t}
}

// DesignBuilder assembles a design matrix column by column. Errors
// accumulate and are reported once at Build.
type DesignBuilder struct {
	table *Table
	names []string
	cols  [][]float64
	err   error
}

// Intercept appends a constant-1 column
func (b *DesignBuilder) Intercept() *DesignBuilder {
	col := make([]float64, b.table.NumRows())
	for i := range col {
		col[i] = 1
	}
	b.names = append(b.names, "intercept")
	b.cols = append(b.cols, col)
	return b
}

// Numeric appends raw numeric columns
func (b *DesignBuilder) Numeric(names ...string) *DesignBuilder {
	for _, name := range names {
		if b.err != nil {
			return b
		}
		col, err := b.table.Numeric(name)
		if err != nil {
			b.err = err
			return b
		}
		b.names = append(b.names, name)
		b.cols = append(b.cols, col)
	}
	return b
}

// Dummies appends one 0/1 indicator column per level of a categorical
// column, dropping the reference level to avoid perfect collinearity with
// the intercept.
func (b *DesignBuilder) Dummies(name, reference string) *DesignBuilder {
	if b.err != nil {
		return b
	}
	idx, err := b.table.columnIndex(name)
	if err != nil {
		b.err = err
		return b
	}

	seen := make(map[string]bool)
	var levels []string
	for _, row := range b.table.Rows {
		if v := row[idx]; !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	sort.Strings(levels)

	for _, level := range levels {
		if level == reference {
			continue
		}
		col := make([]float64, b.table.NumRows())
		for i, row := range b.table.Rows {
			if row[idx] == level {
				col[i] = 1
			}
		}
		b.names = append(b.names, fmt.Sprintf("%s_%s", name, level))
		b.cols = append(b.cols, col)
	}
	return b
}

// Build materializes the row-major design matrix
func (b *DesignBuilder) Build() (model.Design, error) {
	if b.err != nil {
		return model.Design{}, b.err
	}
	if len(b.cols) == 0 {
		return model.Design{}, core.ErrInsufficientData
	}

	n := b.table.NumRows()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(b.cols))
		for j, col := range b.cols {
			row[j] = col[i]
		}
		rows[i] = row
	}
	design := model.Design{Names: append([]string(nil), b.names...), Rows: rows}
	if err := design.Validate(); err != nil {
		return model.Design{}, err
	}
	return design, nil
}
