// Package training is the orchestrator: it encodes labels, computes
// balanced sample weights, drives the epoch/batch loop over the nn engine,
// and persists the best-validation-loss checkpoint. It is configuration
// glue around fixed choices, not a tunable search harness.
package training

import (
	"fmt"

	"github.com/jobtools/go-jobclass/layers"
)

// Fixed architecture of the section classifier. The hidden stack and the
// regularization constants are deliberate configuration, not tunables.
var hiddenSizes = []int{512, 512, 256, 128, 64}

const (
	// DropoutRate is applied after every hidden activation.
	DropoutRate float32 = 0.2

	// LeakySlope is the negative-side slope of the hidden activations.
	LeakySlope float32 = 0.3
)

// BuildModelSpec compiles the fixed classifier architecture for the given
// feature dimensionality and class count: five Dense+LeakyReLU+Dropout
// blocks narrowing 512→64, then a Dense head normalized by Softmax.
func BuildModelSpec(inputSize, numClasses int) (*layers.ModelSpec, error) {
	if inputSize <= 0 {
		return nil, fmt.Errorf("input size must be positive, got %d", inputSize)
	}
	if numClasses <= 1 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", numClasses)
	}

	builder := layers.NewModelBuilder([]int{1, inputSize})
	for i, size := range hiddenSizes {
		builder.
			AddDense(size, true, fmt.Sprintf("dense_%d", i+1)).
			AddLeakyReLU(LeakySlope, fmt.Sprintf("leaky_relu_%d", i+1)).
			AddDropout(DropoutRate, fmt.Sprintf("dropout_%d", i+1))
	}
	builder.
		AddDense(numClasses, true, "output").
		AddSoftmax("softmax")

	return builder.Compile()
}
