package nn

import (
	"fmt"
	"math"
)

// CategoricalCrossEntropy implements cross-entropy loss over probability
// rows, as produced by a Softmax output layer: L = -log p[target]. An
// optional per-example sample weight rescales each example's contribution;
// reduction is the mean over the batch.
type CategoricalCrossEntropy struct{}

// NewCategoricalCrossEntropy creates a new categorical cross-entropy loss.
func NewCategoricalCrossEntropy() *CategoricalCrossEntropy {
	return &CategoricalCrossEntropy{}
}

func (ce *CategoricalCrossEntropy) validate(probs *Matrix, targets []int32, weights []float32) error {
	if probs.Rows != len(targets) {
		return fmt.Errorf("batch size mismatch: probabilities %d, targets %d", probs.Rows, len(targets))
	}
	if weights != nil && len(weights) != len(targets) {
		return fmt.Errorf("sample weights length %d doesn't match batch size %d", len(weights), len(targets))
	}
	for i, t := range targets {
		if t < 0 || int(t) >= probs.Cols {
			return fmt.Errorf("target class %d at row %d out of range [0, %d)", t, i, probs.Cols)
		}
	}
	return nil
}

// Forward computes the mean weighted cross-entropy over the batch.
// probs: [batch_size, num_classes] probability rows
// targets: [batch_size] class indices
// weights: optional [batch_size] sample weights (nil = unweighted)
func (ce *CategoricalCrossEntropy) Forward(probs *Matrix, targets []int32, weights []float32) (float64, error) {
	if err := ce.validate(probs, targets, weights); err != nil {
		return 0, err
	}

	var totalLoss float64
	for i, t := range targets {
		p := probs.At(i, int(t))
		// Add small epsilon to prevent log(0)
		if p < 1e-10 {
			p = 1e-10
		}
		l := -math.Log(float64(p))
		if weights != nil {
			l *= float64(weights[i])
		}
		totalLoss += l
	}
	return totalLoss / float64(len(targets)), nil
}

// Backward computes the gradient of the mean weighted cross-entropy with
// respect to the probability rows: dL/dp[target] = -w / (N * p[target]),
// zero elsewhere.
func (ce *CategoricalCrossEntropy) Backward(probs *Matrix, targets []int32, weights []float32) (*Matrix, error) {
	if err := ce.validate(probs, targets, weights); err != nil {
		return nil, err
	}

	grad, err := NewMatrix(probs.Rows, probs.Cols)
	if err != nil {
		return nil, err
	}

	n := float32(len(targets))
	for i, t := range targets {
		p := probs.At(i, int(t))
		if p < 1e-10 {
			p = 1e-10
		}
		w := float32(1.0)
		if weights != nil {
			w = weights[i]
		}
		grad.Set(i, int(t), -w/(n*p))
	}
	return grad, nil
}
