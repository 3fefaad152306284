package training

import (
	"math"
	"testing"

	"github.com/jobtools/go-jobclass/nn"
)

func testParameter(data, grad []float32) *nn.Parameter {
	return &nn.Parameter{
		Name:  "test.weight",
		Shape: []int{len(data)},
		Data:  data,
		Grad:  grad,
	}
}

func TestSGDStep(t *testing.T) {
	param := testParameter([]float32{1, 2}, []float32{0.5, -0.5})
	sgd := NewSGD([]*nn.Parameter{param}, 0.1, 0)

	if err := sgd.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	if math.Abs(float64(param.Data[0]-0.95)) > 1e-6 {
		t.Errorf("data[0] = %v, expected 0.95", param.Data[0])
	}
	if math.Abs(float64(param.Data[1]-2.05)) > 1e-6 {
		t.Errorf("data[1] = %v, expected 2.05", param.Data[1])
	}
}

func TestSGDMomentumAccumulates(t *testing.T) {
	param := testParameter([]float32{0}, []float32{1})
	sgd := NewSGD([]*nn.Parameter{param}, 0.1, 0.9)

	// First step: v=1, x=-0.1. Second step with same grad: v=1.9, x=-0.29.
	if err := sgd.Step(); err != nil {
		t.Fatalf("first Step failed: %v", err)
	}
	if err := sgd.Step(); err != nil {
		t.Fatalf("second Step failed: %v", err)
	}
	if math.Abs(float64(param.Data[0]+0.29)) > 1e-6 {
		t.Errorf("data[0] = %v, expected -0.29", param.Data[0])
	}
}

func TestAdamFirstStepIsSignedLearningRate(t *testing.T) {
	param := testParameter([]float32{1, 1}, []float32{10, -0.01})
	adam := NewAdam([]*nn.Parameter{param}, DefaultAdamConfig())

	if err := adam.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	// With bias correction, the first Adam step is lr * sign(grad) up to
	// epsilon regardless of gradient magnitude.
	lr := DefaultAdamConfig().LearningRate
	if math.Abs(float64(param.Data[0])-(1-lr)) > 1e-4 {
		t.Errorf("data[0] = %v, expected about %v", param.Data[0], 1-lr)
	}
	if math.Abs(float64(param.Data[1])-(1+lr)) > 1e-4 {
		t.Errorf("data[1] = %v, expected about %v", param.Data[1], 1+lr)
	}
}

func TestAdamZeroGrad(t *testing.T) {
	param := testParameter([]float32{1}, []float32{5})
	adam := NewAdam([]*nn.Parameter{param}, DefaultAdamConfig())

	adam.ZeroGrad()
	if param.Grad[0] != 0 {
		t.Errorf("grad = %v after ZeroGrad, expected 0", param.Grad[0])
	}
}

func TestOptimizerLearningRateAccessors(t *testing.T) {
	param := testParameter([]float32{0}, []float32{0})

	var opts = []Optimizer{
		NewSGD([]*nn.Parameter{param}, 0.01, 0),
		NewAdam([]*nn.Parameter{param}, DefaultAdamConfig()),
	}
	for _, opt := range opts {
		opt.SetLR(0.5)
		if opt.GetLR() != 0.5 {
			t.Errorf("GetLR = %v after SetLR(0.5)", opt.GetLR())
		}
	}
}
