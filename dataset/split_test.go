package dataset

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func makeMatrix(n int) (*mat.Dense, []float64) {
	data := make([]float64, n*2)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		data[i*2] = float64(i)
		data[i*2+1] = float64(i * 10)
		y[i] = float64(i) // unique, identifies the row
	}
	return mat.NewDense(n, 2, data), y
}

func TestTrainTestSplitSizes(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		testRatio float64
		wantTest  int
	}{
		{"ten rows", 10, 0.2, 2},
		{"eleven rows rounds", 11, 0.2, 2},
		{"hundred rows", 100, 0.2, 20},
		{"half split", 10, 0.5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := makeMatrix(tt.n)
			xTrain, xTest, yTrain, yTest := TrainTestSplit(x, y, tt.testRatio, 42)

			trainRows, _ := xTrain.Dims()
			testRows, _ := xTest.Dims()
			if testRows != tt.wantTest {
				t.Errorf("expected %d test rows, got %d", tt.wantTest, testRows)
			}
			if trainRows+testRows != tt.n {
				t.Errorf("train+test = %d, want %d", trainRows+testRows, tt.n)
			}
			if len(yTrain) != trainRows || len(yTest) != testRows {
				t.Errorf("target lengths do not match matrices")
			}
		})
	}
}

func TestTrainTestSplitDisjoint(t *testing.T) {
	x, y := makeMatrix(50)
	_, _, yTrain, yTest := TrainTestSplit(x, y, 0.2, 42)

	seen := make(map[float64]bool)
	for _, v := range yTrain {
		seen[v] = true
	}
	for _, v := range yTest {
		if seen[v] {
			t.Fatalf("row %v appears in both train and test", v)
		}
		seen[v] = true
	}
	if len(seen) != 50 {
		t.Fatalf("expected all 50 rows across the split, got %d", len(seen))
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	x, y := makeMatrix(30)
	_, _, first, _ := TrainTestSplit(x, y, 0.2, 42)
	_, _, second, _ := TrainTestSplit(x, y, 0.2, 42)
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("same seed produced different splits")
		}
	}
}

func TestTrainTestSplitEmptyTrain(t *testing.T) {
	x, y := makeMatrix(1)
	xTrain, xTest, yTrain, yTest := TrainTestSplit(x, y, 0.9, 42)
	if xTrain != nil || len(yTrain) != 0 {
		t.Fatal("expected nil train side when every row lands in test")
	}
	if xTest == nil {
		t.Fatal("expected test side to hold the row")
	}
	testRows, _ := xTest.Dims()
	if testRows != 1 || len(yTest) != 1 {
		t.Fatalf("expected the single row in test, got %d rows", testRows)
	}
}

func TestTrainTestSplitBadRatioFallsBack(t *testing.T) {
	x, y := makeMatrix(10)
	_, xTest, _, _ := TrainTestSplit(x, y, -1, 42)
	testRows, _ := xTest.Dims()
	if testRows != int(math.Round(0.2*10)) {
		t.Fatalf("expected fallback 0.2 ratio, got %d test rows", testRows)
	}
}
