package ml

import (
	"encoding/json"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// constantModel predicts the same value for every row.
type constantModel struct {
	value float64
}

func (m *constantModel) PredictRow(features []float64) (float64, error) {
	return m.value, nil
}

func (m *constantModel) Predict(x mat.Matrix) ([]float64, error) {
	rows, _ := x.Dims()
	out := make([]float64, rows)
	for i := range out {
		out[i] = m.value
	}
	return out, nil
}

func TestEvaluateKnownValues(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := []float64{2, 4, 6, 8}

	// Predicting the target mean gives rmse = population std and r2 = 0.
	metrics, err := Evaluate(&constantModel{value: 5}, x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantRMSE := math.Sqrt((9.0 + 1 + 1 + 9) / 4)
	if math.Abs(metrics.RMSE-wantRMSE) > 1e-12 {
		t.Errorf("rmse = %f, want %f", metrics.RMSE, wantRMSE)
	}
	if math.Abs(metrics.R2) > 1e-12 {
		t.Errorf("r2 = %f, want 0", metrics.R2)
	}
}

func TestEvaluatePerfectModel(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := []float64{7, 7, 7}

	metrics, err := Evaluate(&constantModel{value: 7}, x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.RMSE != 0 {
		t.Errorf("rmse = %f, want 0", metrics.RMSE)
	}
	if metrics.R2 != 1 {
		t.Errorf("r2 = %f, want 1", metrics.R2)
	}
}

func TestEvaluateBounds(t *testing.T) {
	x, y := syntheticData(100, 6)
	model := NewRandomForest(10, 6, 42)
	if err := model.Fit(x, y); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	metrics, err := Evaluate(model, x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.RMSE < 0 {
		t.Errorf("rmse must be non-negative, got %f", metrics.RMSE)
	}
	if metrics.R2 > 1 {
		t.Errorf("r2 must not exceed 1, got %f", metrics.R2)
	}
}

func TestEvaluateEmptyInput(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{1, 2})
	if _, err := Evaluate(&constantModel{}, x, []float64{1}); err == nil {
		t.Fatal("expected error for mismatched input")
	}
}

func TestMetricsJSONKeys(t *testing.T) {
	payload, err := json.Marshal(Metrics{RMSE: 1.5, R2: 0.8})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]float64
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected exactly rmse and r2, got %v", decoded)
	}
	if _, ok := decoded["rmse"]; !ok {
		t.Fatal("missing rmse key")
	}
	if _, ok := decoded["r2"]; !ok {
		t.Fatal("missing r2 key")
	}
}
