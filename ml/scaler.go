package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// StandardScaler transforms each feature to zero mean and unit variance
// using statistics computed from training data only. The zero value is
// unfitted; call Fit before Transform.
type StandardScaler struct {
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Std          []float64 `json:"std"`
}

// Fit computes per-column mean and standard deviation. Columns with zero
// variance get a std of 1 so that Transform leaves them centered but finite.
func (s *StandardScaler) Fit(x mat.Matrix) error {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return errors.New("cannot fit scaler on empty matrix")
	}

	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)
	for j := 0; j < cols; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += x.At(i, j)
		}
		mean := sum / float64(rows)

		var sqSum float64
		for i := 0; i < rows; i++ {
			d := x.At(i, j) - mean
			sqSum += d * d
		}
		std := math.Sqrt(sqSum / float64(rows))
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}
	return nil
}

// Transform standardizes every row of x with the fitted statistics.
func (s *StandardScaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	if len(s.Mean) == 0 {
		return nil, errors.New("scaler not fitted")
	}
	rows, cols := x.Dims()
	if cols != len(s.Mean) {
		return nil, fmt.Errorf("expected %d features, got %d", len(s.Mean), cols)
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (x.At(i, j)-s.Mean[j])/s.Std[j])
		}
	}
	return out, nil
}

// TransformRow standardizes a single record, as done at serving time.
func (s *StandardScaler) TransformRow(row []float64) ([]float64, error) {
	if len(s.Mean) == 0 {
		return nil, errors.New("scaler not fitted")
	}
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("expected %d features, got %d", len(s.Mean), len(row))
	}
	scaled := make([]float64, len(row))
	for j, v := range row {
		scaled[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return scaled, nil
}

// Save writes the fitted statistics as JSON.
func (s *StandardScaler) Save(path string) error {
	if len(s.Mean) == 0 {
		return errors.New("scaler not fitted")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// LoadScaler reads a fitted scaler from disk.
func LoadScaler(path string) (*StandardScaler, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scaler StandardScaler
	if err := json.Unmarshal(payload, &scaler); err != nil {
		return nil, fmt.Errorf("parse scaler %s: %w", path, err)
	}
	if len(scaler.Mean) == 0 || len(scaler.Mean) != len(scaler.Std) {
		return nil, fmt.Errorf("scaler %s has inconsistent statistics", path)
	}
	return &scaler, nil
}
