package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Load reads a CSV file into a Table, preserving column order and names.
// The first record is the header. Empty or unparsable cells become NaN.
// Files that are not valid UTF-8 are decoded as Windows-1252 before parsing.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(raw) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		raw = decoded
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("parse %s: need a header and at least one row", path)
	}

	table := &Table{Columns: records[0]}
	for _, record := range records[1:] {
		row := make([]float64, len(record))
		for i, cell := range record {
			value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				value = math.NaN()
			}
			row[i] = value
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
