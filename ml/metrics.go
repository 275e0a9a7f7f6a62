package ml

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Metrics is the evaluation record of a trained model on held-out data.
type Metrics struct {
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// Evaluate compares model predictions against held-out targets and returns
// root-mean-squared error and the coefficient of determination.
func Evaluate(model Regressor, x mat.Matrix, y []float64) (Metrics, error) {
	rows, _ := x.Dims()
	if rows == 0 || rows != len(y) {
		return Metrics{}, errors.New("evaluation data is empty or mismatched")
	}

	preds, err := model.Predict(x)
	if err != nil {
		return Metrics{}, err
	}

	var sse float64
	for i, pred := range preds {
		d := y[i] - pred
		sse += d * d
	}

	yMean := mean(y)
	var sst float64
	for _, v := range y {
		d := v - yMean
		sst += d * d
	}

	r2 := 1.0
	if sst > 0 {
		r2 = 1 - sse/sst
	} else if sse > 0 {
		r2 = 0
	}

	return Metrics{
		RMSE: math.Sqrt(sse / float64(rows)),
		R2:   r2,
	}, nil
}
