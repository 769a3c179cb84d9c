package forecast

import (
	"math/rand"
	"sort"
)

const (
	treeMaxDepth     = 10
	treeMinLeafSize  = 2
	treeMinSplitSize = 4
)

// forestRegressor is a bagged ensemble of variance-reducing regression
// trees. Each tree trains on a bootstrap sample; prediction is the mean of
// the tree outputs.
type forestRegressor struct {
	trees []*treeNode
}

func newForestRegressor(numTrees int, features [][]float64, targets []float64, rng *rand.Rand) *forestRegressor {
	f := &forestRegressor{trees: make([]*treeNode, 0, numTrees)}
	n := len(features)
	for t := 0; t < numTrees; t++ {
		sampleX := make([][]float64, n)
		sampleY := make([]float64, n)
		for i := 0; i < n; i++ {
			idx := rng.Intn(n)
			sampleX[i] = features[idx]
			sampleY[i] = targets[idx]
		}
		f.trees = append(f.trees, buildTree(sampleX, sampleY, 0))
	}
	return f
}

func (f *forestRegressor) predict(x []float64) float64 {
	var sum float64
	for _, tree := range f.trees {
		sum += tree.eval(x)
	}
	return sum / float64(len(f.trees))
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

func (t *treeNode) eval(x []float64) float64 {
	node := t
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func buildTree(features [][]float64, targets []float64, depth int) *treeNode {
	if depth >= treeMaxDepth || len(targets) < treeMinSplitSize || constant(targets) {
		return &treeNode{leaf: true, value: meanOf(targets)}
	}

	feature, threshold, ok := bestSplit(features, targets)
	if !ok {
		return &treeNode{leaf: true, value: meanOf(targets)}
	}

	var leftX, rightX [][]float64
	var leftY, rightY []float64
	for i, x := range features {
		if x[feature] <= threshold {
			leftX = append(leftX, x)
			leftY = append(leftY, targets[i])
		} else {
			rightX = append(rightX, x)
			rightY = append(rightY, targets[i])
		}
	}
	if len(leftY) < treeMinLeafSize || len(rightY) < treeMinLeafSize {
		return &treeNode{leaf: true, value: meanOf(targets)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(leftX, leftY, depth+1),
		right:     buildTree(rightX, rightY, depth+1),
	}
}

// bestSplit scans every feature for the threshold that minimizes the summed
// squared error of the two halves.
func bestSplit(features [][]float64, targets []float64) (int, float64, bool) {
	bestFeature := -1
	var bestThreshold, bestScore float64
	first := true

	numFeatures := len(features[0])
	for f := 0; f < numFeatures; f++ {
		values := make([]float64, len(features))
		for i, x := range features {
			values[i] = x[f]
		}
		sort.Float64s(values)

		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			threshold := (values[i] + values[i-1]) / 2
			score := splitScore(features, targets, f, threshold)
			if first || score < bestScore {
				first = false
				bestScore = score
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func splitScore(features [][]float64, targets []float64, feature int, threshold float64) float64 {
	var leftSum, leftSq, rightSum, rightSq float64
	var leftN, rightN int
	for i, x := range features {
		y := targets[i]
		if x[feature] <= threshold {
			leftSum += y
			leftSq += y * y
			leftN++
		} else {
			rightSum += y
			rightSq += y * y
			rightN++
		}
	}
	score := 0.0
	if leftN > 0 {
		score += leftSq - leftSum*leftSum/float64(leftN)
	}
	if rightN > 0 {
		score += rightSq - rightSum*rightSum/float64(rightN)
	}
	return score
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
