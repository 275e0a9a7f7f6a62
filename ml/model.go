// Package ml implements feature standardization, random-forest regression
// and the evaluation metrics used by the training pipeline.
package ml

import "gonum.org/v1/gonum/mat"

// Regressor predicts a continuous target from numeric features.
type Regressor interface {
	PredictRow(features []float64) (float64, error)
	Predict(x mat.Matrix) ([]float64, error)
}
