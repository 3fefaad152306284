package nn

import (
	"math"
	"testing"
)

func TestCrossEntropyKnownValue(t *testing.T) {
	probs, _ := NewMatrixFrom(2, 2, []float32{0.5, 0.5, 0.5, 0.5})
	loss := NewCategoricalCrossEntropy()

	value, err := loss.Forward(probs, []int32{0, 1}, nil)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	expected := -math.Log(0.5)
	if math.Abs(value-expected) > 1e-6 {
		t.Errorf("loss = %v, expected %v", value, expected)
	}
}

func TestCrossEntropyPerfectPrediction(t *testing.T) {
	probs, _ := NewMatrixFrom(1, 3, []float32{0, 1, 0})
	loss := NewCategoricalCrossEntropy()

	value, err := loss.Forward(probs, []int32{1}, nil)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if math.Abs(value) > 1e-6 {
		t.Errorf("loss = %v, expected 0", value)
	}
}

func TestCrossEntropySampleWeights(t *testing.T) {
	probs, _ := NewMatrixFrom(2, 2, []float32{0.5, 0.5, 0.5, 0.5})
	loss := NewCategoricalCrossEntropy()

	unweighted, err := loss.Forward(probs, []int32{0, 1}, nil)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	weighted, err := loss.Forward(probs, []int32{0, 1}, []float32{2, 2})
	if err != nil {
		t.Fatalf("weighted Forward failed: %v", err)
	}
	if math.Abs(weighted-2*unweighted) > 1e-6 {
		t.Errorf("doubling every weight should double the loss: %v vs %v", weighted, unweighted)
	}
}

func TestCrossEntropyClampsZeroProbability(t *testing.T) {
	probs, _ := NewMatrixFrom(1, 2, []float32{0, 1})
	loss := NewCategoricalCrossEntropy()

	value, err := loss.Forward(probs, []int32{0}, nil)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		t.Fatalf("loss should stay finite for zero probability, got %v", value)
	}
}

func TestCrossEntropyBackward(t *testing.T) {
	probs, _ := NewMatrixFrom(1, 2, []float32{0.25, 0.75})
	loss := NewCategoricalCrossEntropy()

	grad, err := loss.Backward(probs, []int32{0}, nil)
	if err != nil {
		t.Fatalf("Backward failed: %v", err)
	}

	// dL/dp[target] = -1 / (N * p) = -1 / 0.25 = -4
	if math.Abs(float64(grad.At(0, 0))+4) > 1e-5 {
		t.Errorf("target gradient = %v, expected -4", grad.At(0, 0))
	}
	if grad.At(0, 1) != 0 {
		t.Errorf("non-target gradient = %v, expected 0", grad.At(0, 1))
	}
}

func TestCrossEntropyValidation(t *testing.T) {
	probs, _ := NewMatrixFrom(2, 2, []float32{0.5, 0.5, 0.5, 0.5})
	loss := NewCategoricalCrossEntropy()

	if _, err := loss.Forward(probs, []int32{0}, nil); err == nil {
		t.Error("expected error for target count mismatch")
	}
	if _, err := loss.Forward(probs, []int32{0, 2}, nil); err == nil {
		t.Error("expected error for out of range target")
	}
	if _, err := loss.Forward(probs, []int32{0, 1}, []float32{1}); err == nil {
		t.Error("expected error for weight count mismatch")
	}
}
