// Package tabular implements the debug loader's "bounded tabular input
// with a schema extractor" contract (§6): the frontend only needs
// (schema, row-iterator) from whatever pandas-like value a caller hands
// it, so that is all this package models.
package tabular

import (
	"fmt"

	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/flowerrors"
	"github.com/pathwaydb/flowcore/rowschema"
)

// Frame is a bounded, in-memory, row-oriented table: a fixed schema and
// a fixed set of rows, in row order. It is the "pandas DataFrame" stand-in
// the design notes call for.
type Frame struct {
	schema rowschema.Schema
	rows   [][]interface{}
}

// FromRows builds a Frame from an explicit schema and row slice. It is an
// error to pass zero rows — the boundary behavior "empty input ... raises
// ValueError" from the testable properties.
func FromRows(schema rowschema.Schema, rows [][]interface{}) (Frame, error) {
	if len(rows) == 0 {
		return Frame{}, flowerrors.EmptyInput.New("tabular.FromRows")
	}
	for i, row := range rows {
		if len(row) != schema.Len() {
			return Frame{}, flowerrors.SchemaMismatch.New(
				[]string{fmt.Sprintf("row %d has %d values, schema has %d columns", i, len(row), schema.Len())})
		}
	}
	cp := make([][]interface{}, len(rows))
	copy(cp, rows)
	return Frame{schema: schema, rows: cp}, nil
}

// InferSchema derives a rowschema.Schema from sampled values, the way a
// debug source with no declared schema is typically onboarded: every
// column's type is the LCA of every sampled value's type in that column,
// and append-only defaults to false (a bounded debug frame makes no
// streaming guarantees).
func InferSchema(names []string, sampleRows [][]interface{}) (rowschema.Schema, error) {
	if len(names) == 0 || len(sampleRows) == 0 {
		return rowschema.Schema{}, flowerrors.EmptyInput.New("tabular.InferSchema")
	}

	types := make([]dtype.Type, len(names))
	seen := make([]bool, len(names))
	for _, row := range sampleRows {
		for i := range names {
			if i >= len(row) {
				continue
			}
			t := inferScalarType(row[i])
			if !seen[i] {
				types[i] = t
				seen[i] = true
				continue
			}
			merged, err := dtype.LCA(types[i], t)
			if err != nil {
				return rowschema.Schema{}, err
			}
			types[i] = merged
		}
	}

	fields := make([]rowschema.Field, len(names))
	for i, name := range names {
		fields[i] = rowschema.Field{Name: name, Type: types[i], AppendOnly: false}
	}
	return rowschema.New(fields...)
}

func inferScalarType(v interface{}) dtype.Type {
	switch v.(type) {
	case nil:
		return dtype.Optional(dtype.String)
	case bool:
		return dtype.Bool
	case int, int32, int64:
		return dtype.Int
	case float32, float64:
		return dtype.Float
	case string:
		return dtype.String
	default:
		return dtype.String
	}
}

// Schema returns f's column schema.
func (f Frame) Schema() rowschema.Schema { return f.schema }

// Len returns the number of rows in f.
func (f Frame) Len() int { return len(f.rows) }

// Row returns a copy of row i's values, in schema column order.
func (f Frame) Row(i int) []interface{} {
	row := make([]interface{}, len(f.rows[i]))
	copy(row, f.rows[i])
	return row
}

// Rows returns every row, in order. Callers must not mutate the result.
func (f Frame) Rows() [][]interface{} { return f.rows }
