package ml

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	// randomSeed fixes the shuffle order during training so identical
	// input always yields identical coefficients.
	randomSeed = 42

	defaultEpochs       = 300
	defaultLearningRate = 0.1
)

// LogisticClassifier is a binary linear classifier over the fixed feature
// space. It is unfitted until exactly one successful Fit; after that it is
// immutable and safe for unlimited concurrent Predict calls.
type LogisticClassifier struct {
	weights []float64
	bias    float64
	fitted  bool

	seed   int64
	epochs int
	lr     float64
}

func NewLogisticClassifier() *LogisticClassifier {
	return &LogisticClassifier{
		seed:   randomSeed,
		epochs: defaultEpochs,
		lr:     defaultLearningRate,
	}
}

// Fit trains the classifier with class weights inversely proportional to
// class frequency: the delayed class is the minority in the historical
// data, so it carries the on-time class's share of the total and vice
// versa. Training is stochastic gradient descent from zero weights with a
// seeded per-epoch shuffle.
func (c *LogisticClassifier) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 {
		return &FitError{Reason: "empty training set"}
	}
	if len(features) != len(labels) {
		return &FitError{Reason: fmt.Sprintf("features/labels size mismatch: %d vs %d", len(features), len(labels))}
	}

	var n0, n1 int
	for _, label := range labels {
		switch label {
		case 0:
			n0++
		case 1:
			n1++
		default:
			return &FitError{Reason: fmt.Sprintf("label out of domain: %d", label)}
		}
	}
	if n0 == 0 || n1 == 0 {
		return &FitError{Reason: "training labels contain a single class"}
	}

	width := len(features[0])
	for i, vec := range features {
		if len(vec) != width {
			return &FitError{Reason: fmt.Sprintf("feature vector %d has width %d, want %d", i, len(vec), width)}
		}
	}

	total := float64(len(labels))
	classWeight := [2]float64{float64(n1) / total, float64(n0) / total}

	weights := make([]float64, width)
	var bias float64

	rng := rand.New(rand.NewSource(c.seed))
	order := make([]int, len(features))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < c.epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for _, idx := range order {
			x := features[idx]
			label := labels[idx]
			p := sigmoid(dot(weights, x) + bias)
			g := (p - float64(label)) * classWeight[label]
			for j := range weights {
				weights[j] -= c.lr * g * x[j]
			}
			bias -= c.lr * g
		}
	}

	c.weights = weights
	c.bias = bias
	c.fitted = true
	return nil
}

// Predict applies the learned decision boundary to each vector and returns
// one 0/1 label per input, in input order.
func (c *LogisticClassifier) Predict(features [][]float64) ([]int, error) {
	if !c.fitted {
		return nil, ErrNotFitted
	}
	out := make([]int, len(features))
	for i, vec := range features {
		if len(vec) != len(c.weights) {
			return nil, fmt.Errorf("feature vector %d has width %d, want %d", i, len(vec), len(c.weights))
		}
		if sigmoid(dot(c.weights, vec)+c.bias) >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// Weights returns a copy of the learned coefficients, or nil before Fit.
func (c *LogisticClassifier) Weights() []float64 {
	if !c.fitted {
		return nil
	}
	return append([]float64(nil), c.weights...)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(w, x []float64) float64 {
	var sum float64
	for i := range w {
		sum += w[i] * x[i]
	}
	return sum
}
