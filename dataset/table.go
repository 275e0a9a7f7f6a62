// Package dataset loads tabular CSV data and prepares it for training.
package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// TargetColumn is the regression target of the housing dataset.
const TargetColumn = "median_house_value"

// Table is an ordered collection of rows with named numeric columns.
// Missing or unparsable cells are stored as NaN.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// DropMissing returns a copy of the table without any row containing NaN.
func (t *Table) DropMissing() *Table {
	clean := &Table{Columns: t.Columns}
	for _, row := range t.Rows {
		keep := true
		for _, v := range row {
			if math.IsNaN(v) {
				keep = false
				break
			}
		}
		if keep {
			clean.Rows = append(clean.Rows, row)
		}
	}
	return clean
}

// FeaturesTarget separates the table into a feature matrix and a target
// vector. Column order of the features follows the table.
func (t *Table) FeaturesTarget(target string) (*mat.Dense, []float64, []string, error) {
	targetIdx := t.ColumnIndex(target)
	if targetIdx < 0 {
		return nil, nil, nil, fmt.Errorf("target column %q not found", target)
	}
	if t.Len() == 0 {
		return nil, nil, nil, fmt.Errorf("table is empty")
	}

	names := make([]string, 0, len(t.Columns)-1)
	for i, col := range t.Columns {
		if i != targetIdx {
			names = append(names, col)
		}
	}

	data := make([]float64, 0, t.Len()*len(names))
	y := make([]float64, 0, t.Len())
	for _, row := range t.Rows {
		for i, v := range row {
			if i == targetIdx {
				y = append(y, v)
			} else {
				data = append(data, v)
			}
		}
	}
	return mat.NewDense(t.Len(), len(names), data), y, names, nil
}
