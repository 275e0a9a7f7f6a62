package ml

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a regression tree. Leaves carry Feature == -1
// and predict their Value, the mean target of the samples they cover.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Value     float64
}

func predictTree(node *TreeNode, row []float64) float64 {
	for node.Feature >= 0 {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// buildTree grows a regression tree by recursive variance-reduction splits.
// Impurity decrease per splitting feature is accumulated into importances.
func buildTree(x [][]float64, y []float64, depth, maxDepth, minSamplesSplit, maxFeatures int, rnd *rand.Rand, importances []float64) *TreeNode {
	if len(y) < minSamplesSplit || depth >= maxDepth {
		return &TreeNode{Feature: -1, Value: mean(y)}
	}

	parentSSE := sumSquaredError(y)
	if parentSSE == 0 {
		return &TreeNode{Feature: -1, Value: mean(y)}
	}

	cols := len(x[0])
	candidates := rnd.Perm(cols)
	if maxFeatures > 0 && maxFeatures < cols {
		candidates = candidates[:maxFeatures]
	}

	bestFeature := -1
	bestThreshold := 0.0
	bestSSE := parentSSE
	for _, feature := range candidates {
		threshold, sse, ok := bestSplitOn(x, y, feature)
		if ok && sse < bestSSE {
			bestFeature = feature
			bestThreshold = threshold
			bestSSE = sse
		}
	}
	if bestFeature == -1 {
		return &TreeNode{Feature: -1, Value: mean(y)}
	}

	importances[bestFeature] += parentSSE - bestSSE

	var leftX, rightX [][]float64
	var leftY, rightY []float64
	for i, row := range x {
		if row[bestFeature] <= bestThreshold {
			leftX = append(leftX, row)
			leftY = append(leftY, y[i])
		} else {
			rightX = append(rightX, row)
			rightY = append(rightY, y[i])
		}
	}

	return &TreeNode{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Left:      buildTree(leftX, leftY, depth+1, maxDepth, minSamplesSplit, maxFeatures, rnd, importances),
		Right:     buildTree(rightX, rightY, depth+1, maxDepth, minSamplesSplit, maxFeatures, rnd, importances),
		Value:     mean(y),
	}
}

// bestSplitOn sweeps the sorted values of one feature and returns the
// midpoint threshold minimizing the summed squared error of both sides.
func bestSplitOn(x [][]float64, y []float64, feature int) (float64, float64, bool) {
	n := len(y)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return x[order[a]][feature] < x[order[b]][feature]
	})

	var totalSum, totalSq float64
	for _, v := range y {
		totalSum += v
		totalSq += v * v
	}

	bestSSE := 0.0
	bestThreshold := 0.0
	found := false
	var leftSum, leftSq float64
	for i := 0; i < n-1; i++ {
		v := y[order[i]]
		leftSum += v
		leftSq += v * v

		cur, next := x[order[i]][feature], x[order[i+1]][feature]
		if cur == next {
			continue
		}

		leftN := float64(i + 1)
		rightN := float64(n - i - 1)
		rightSum := totalSum - leftSum
		rightSq := totalSq - leftSq
		sse := (leftSq - leftSum*leftSum/leftN) + (rightSq - rightSum*rightSum/rightN)
		if !found || sse < bestSSE {
			bestSSE = sse
			bestThreshold = (cur + next) / 2
			found = true
		}
	}
	return bestThreshold, bestSSE, found
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sumSquaredError(values []float64) float64 {
	m := mean(values)
	var sse float64
	for _, v := range values {
		d := v - m
		sse += d * d
	}
	return sse
}
