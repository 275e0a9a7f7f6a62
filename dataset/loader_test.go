package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPreservesColumns(t *testing.T) {
	table, err := Load("testdata/housing_sample.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) != 9 {
		t.Fatalf("expected 9 columns, got %d", len(table.Columns))
	}
	if table.Columns[0] != "longitude" || table.Columns[8] != TargetColumn {
		t.Fatalf("column order not preserved: %v", table.Columns)
	}
	if table.Len() != 11 {
		t.Fatalf("expected 11 rows, got %d", table.Len())
	}
}

func TestLoadMarksMissingCellsAsNaN(t *testing.T) {
	table, err := Load("testdata/housing_sample.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bedrooms := table.ColumnIndex("total_bedrooms")
	if bedrooms < 0 {
		t.Fatal("total_bedrooms column missing")
	}
	if !math.IsNaN(table.Rows[5][bedrooms]) {
		t.Fatalf("expected NaN for missing cell, got %f", table.Rows[5][bedrooms])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/does_not_exist.csv"); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadMalformedCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2,3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for ragged rows")
	}
}

func TestLoadWindows1252(t *testing.T) {
	// 0xE9 is é in Windows-1252 and invalid UTF-8 on its own.
	content := []byte("r\xe9gion,median_house_value\n1,100\n2,200\n")
	path := filepath.Join(t.TempDir(), "latin.csv")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	table, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Columns[0] != "région" {
		t.Fatalf("expected decoded header, got %q", table.Columns[0])
	}
}

func TestDropMissing(t *testing.T) {
	table, err := Load("testdata/housing_sample.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clean := table.DropMissing()
	if clean.Len() != 10 {
		t.Fatalf("expected 10 rows after dropna, got %d", clean.Len())
	}
	for _, row := range clean.Rows {
		for _, v := range row {
			if math.IsNaN(v) {
				t.Fatal("NaN survived DropMissing")
			}
		}
	}
}

func TestFeaturesTarget(t *testing.T) {
	table, err := Load("testdata/housing_sample.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clean := table.DropMissing()

	x, y, names, err := clean.FeaturesTarget(TargetColumn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, cols := x.Dims()
	if cols != 8 {
		t.Fatalf("expected 8 feature columns, got %d", cols)
	}
	if rows != clean.Len() || len(y) != clean.Len() {
		t.Fatalf("row counts mismatch: x=%d y=%d table=%d", rows, len(y), clean.Len())
	}
	if len(names) != 8 {
		t.Fatalf("expected 8 feature names, got %d", len(names))
	}
	for _, name := range names {
		if name == TargetColumn {
			t.Fatal("target column leaked into features")
		}
	}
	if y[0] != 452600 {
		t.Fatalf("unexpected first target: %f", y[0])
	}
}

func TestFeaturesTargetMissingColumn(t *testing.T) {
	table := &Table{Columns: []string{"a", "b"}, Rows: [][]float64{{1, 2}}}
	if _, _, _, err := table.FeaturesTarget(TargetColumn); err == nil {
		t.Fatal("expected error for missing target column")
	}
}

// Loading a two-row sample end to end must yield an 8-column feature matrix
// covering both rows across train and test.
func TestTwoRowSampleEndToEnd(t *testing.T) {
	table, err := Load("testdata/housing_two_rows.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clean := table.DropMissing()
	x, y, _, err := clean.FeaturesTarget(TargetColumn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	xTrain, xTest, yTrain, yTest := TrainTestSplit(x, y, 0.2, 42)
	trainRows, trainCols := xTrain.Dims()
	if trainCols != 8 {
		t.Fatalf("expected 8 training feature columns, got %d", trainCols)
	}
	testRows := 0
	if xTest != nil {
		testRows, _ = xTest.Dims()
	}
	if trainRows+testRows != 2 {
		t.Fatalf("expected 2 total rows, got %d", trainRows+testRows)
	}
	if len(yTrain)+len(yTest) != 2 {
		t.Fatalf("expected 2 total targets, got %d", len(yTrain)+len(yTest))
	}
}
