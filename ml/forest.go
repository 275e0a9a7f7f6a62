package ml

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/mat"
)

// RandomForest is an ensemble of regression trees whose averaged output
// predicts a continuous value. Trees are grown sequentially from a single
// seeded source, so two fits on identical input produce identical models.
type RandomForest struct {
	Trees           []*TreeNode
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int // 0 means all features
	Seed            int64
	FeatureNames    []string
	Importances     []float64
}

// NewRandomForest creates an untrained forest. Non-positive arguments fall
// back to 100 trees and depth 10.
func NewRandomForest(nEstimators, maxDepth int, seed int64) *RandomForest {
	if nEstimators <= 0 {
		nEstimators = 100
	}
	if maxDepth <= 0 {
		maxDepth = 10
	}
	return &RandomForest{
		NEstimators:     nEstimators,
		MaxDepth:        maxDepth,
		MinSamplesSplit: 2,
		Seed:            seed,
	}
}

// Fit grows NEstimators trees on bootstrap samples of the training data.
func (rf *RandomForest) Fit(x mat.Matrix, y []float64) error {
	rows, cols := x.Dims()
	if rows == 0 {
		return errors.New("training data is empty")
	}
	if rows != len(y) {
		return fmt.Errorf("feature rows (%d) and targets (%d) mismatch", rows, len(y))
	}

	data := matrixRows(x)
	rnd := rand.New(rand.NewSource(rf.Seed))
	rf.Trees = make([]*TreeNode, rf.NEstimators)
	rf.Importances = make([]float64, cols)

	for t := 0; t < rf.NEstimators; t++ {
		bootX := make([][]float64, rows)
		bootY := make([]float64, rows)
		for i := 0; i < rows; i++ {
			idx := rnd.Intn(rows)
			bootX[i] = data[idx]
			bootY[i] = y[idx]
		}
		rf.Trees[t] = buildTree(bootX, bootY, 0, rf.MaxDepth, rf.MinSamplesSplit, rf.MaxFeatures, rnd, rf.Importances)
	}

	normalize(rf.Importances)
	return nil
}

// PredictRow averages the predictions of all trees for a single record.
func (rf *RandomForest) PredictRow(features []float64) (float64, error) {
	if len(rf.Trees) == 0 {
		return 0, errors.New("model not trained")
	}
	if len(rf.FeatureNames) > 0 && len(features) != len(rf.FeatureNames) {
		return 0, fmt.Errorf("expected %d features, got %d", len(rf.FeatureNames), len(features))
	}
	var sum float64
	for _, tree := range rf.Trees {
		sum += predictTree(tree, features)
	}
	return sum / float64(len(rf.Trees)), nil
}

// Predict returns one prediction per row of x.
func (rf *RandomForest) Predict(x mat.Matrix) ([]float64, error) {
	rows, _ := x.Dims()
	out := make([]float64, rows)
	for i, row := range matrixRows(x) {
		pred, err := rf.PredictRow(row)
		if err != nil {
			return nil, err
		}
		out[i] = pred
	}
	return out, nil
}

// FeatureImportances returns the normalized impurity-decrease score per
// feature, in training column order.
func (rf *RandomForest) FeatureImportances() []float64 {
	return append([]float64(nil), rf.Importances...)
}

// Save writes the trained forest with gob encoding.
func (rf *RandomForest) Save(path string) error {
	if len(rf.Trees) == 0 {
		return errors.New("model not trained")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(rf)
}

// LoadForest reads a trained forest from disk.
func LoadForest(path string) (*RandomForest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rf RandomForest
	if err := gob.NewDecoder(f).Decode(&rf); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if len(rf.Trees) == 0 {
		return nil, fmt.Errorf("model %s contains no trees", path)
	}
	return &rf, nil
}

func matrixRows(x mat.Matrix) [][]float64 {
	rows, cols := x.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = x.At(i, j)
		}
		out[i] = row
	}
	return out
}

func normalize(values []float64) {
	var total float64
	for _, v := range values {
		total += v
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
