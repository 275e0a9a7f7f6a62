package dataset

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// TrainTestSplit shuffles the rows with the given seed and partitions them
// into disjoint train and test subsets. testRatio outside (0,1) falls back
// to 0.2. The test subset holds round(testRatio*n) rows. A side left with
// no rows is returned as a nil matrix.
func TrainTestSplit(x *mat.Dense, y []float64, testRatio float64, seed int64) (xTrain, xTest *mat.Dense, yTrain, yTest []float64) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}

	n, cols := x.Dims()
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(math.Round(testRatio * float64(n)))
	nTrain := n - nTest

	trainData := make([]float64, 0, nTrain*cols)
	testData := make([]float64, 0, nTest*cols)
	for i, idx := range indices {
		if i < nTrain {
			trainData = append(trainData, x.RawRowView(idx)...)
			yTrain = append(yTrain, y[idx])
		} else {
			testData = append(testData, x.RawRowView(idx)...)
			yTest = append(yTest, y[idx])
		}
	}

	if nTrain > 0 {
		xTrain = mat.NewDense(nTrain, cols, trainData)
	}
	if nTest > 0 {
		xTest = mat.NewDense(nTest, cols, testData)
	}
	return xTrain, xTest, yTrain, yTest
}
