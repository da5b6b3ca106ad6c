// Package anomaly implements unsupervised outlier detection for
// transaction amounts using an isolation forest.
package anomaly

import (
	"math"
	"math/rand"
)

const (
	defaultTrees      = 100
	defaultSampleSize = 256
	// fixedSeed makes repeated fits over identical data produce identical
	// verdicts.
	fixedSeed = 42
)

// Forest is a one-dimensional isolation forest. It isolates points by
// random recursive partitioning; points that take fewer partitions to
// isolate score as more anomalous. It implements service.OutlierDetector.
type Forest struct {
	trees      int
	sampleSize int
	seed       int64
}

// NewForest creates an isolation forest with default parameters and a
// fixed seed.
func NewForest() *Forest {
	return &Forest{
		trees:      defaultTrees,
		sampleSize: defaultSampleSize,
		seed:       fixedSeed,
	}
}

// Score fits the forest over the samples plus the candidate and returns
// the candidate's verdict. The decision score is positive for inliers and
// negative for outliers; isOutlier mirrors its sign.
func (f *Forest) Score(samples []float64, candidate float64) (bool, float64) {
	data := make([]float64, 0, len(samples)+1)
	data = append(data, samples...)
	data = append(data, candidate)

	psi := f.sampleSize
	if psi > len(data) {
		psi = len(data)
	}
	if psi < 2 {
		return false, 0
	}

	rng := rand.New(rand.NewSource(f.seed))
	heightLimit := int(math.Ceil(math.Log2(float64(psi))))

	var totalPath float64
	for t := 0; t < f.trees; t++ {
		sample := subsample(rng, data, psi)
		tree := buildTree(rng, sample, 0, heightLimit)
		totalPath += pathLength(tree, candidate, 0)
	}

	meanPath := totalPath / float64(f.trees)
	score := math.Pow(2, -meanPath/avgPathLength(psi))

	// Offset of 0.5 puts inliers above zero, matching the convention that
	// a negative decision marks an outlier.
	decision := 0.5 - score
	return decision < 0, decision
}

// node is one partition in an isolation tree.
type node struct {
	left  *node
	right *node
	split float64
	size  int
}

func subsample(rng *rand.Rand, data []float64, psi int) []float64 {
	if psi >= len(data) {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}
	idx := rng.Perm(len(data))[:psi]
	out := make([]float64, psi)
	for i, j := range idx {
		out[i] = data[j]
	}
	return out
}

func buildTree(rng *rand.Rand, data []float64, height, limit int) *node {
	if len(data) <= 1 || height >= limit {
		return &node{size: len(data)}
	}

	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return &node{size: len(data)}
	}

	split := lo + rng.Float64()*(hi-lo)

	var left, right []float64
	for _, v := range data {
		if v < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}

	return &node{
		split: split,
		size:  len(data),
		left:  buildTree(rng, left, height+1, limit),
		right: buildTree(rng, right, height+1, limit),
	}
}

func pathLength(n *node, v float64, depth int) float64 {
	if n.left == nil && n.right == nil {
		return float64(depth) + avgPathLength(n.size)
	}
	if v < n.split {
		return pathLength(n.left, v, depth+1)
	}
	return pathLength(n.right, v, depth+1)
}

// avgPathLength is c(n), the average path length of an unsuccessful BST
// search over n points.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	const euler = 0.5772156649
	h := math.Log(float64(n-1)) + euler
	return 2*h - 2*float64(n-1)/float64(n)
}
