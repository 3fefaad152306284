package training

import (
	"math"

	"github.com/jobtools/go-jobclass/nn"
)

// Optimizer interface defines the methods that all optimizers must implement
type Optimizer interface {
	Step() error      // Updates model parameters based on gradients
	ZeroGrad()        // Resets gradients to zero for all parameters
	GetLR() float64   // Gets current learning rate
	SetLR(lr float64) // Sets learning rate
}

// SGD implements Stochastic Gradient Descent with optional momentum.
type SGD struct {
	parameters   []*nn.Parameter
	learningRate float64
	momentum     float64
	velocities   map[*nn.Parameter][]float32
}

// NewSGD creates a new SGD optimizer
func NewSGD(parameters []*nn.Parameter, lr, momentum float64) *SGD {
	sgd := &SGD{
		parameters:   parameters,
		learningRate: lr,
		momentum:     momentum,
		velocities:   make(map[*nn.Parameter][]float32),
	}
	if momentum > 0 {
		for _, param := range parameters {
			sgd.velocities[param] = make([]float32, len(param.Data))
		}
	}
	return sgd
}

// Step performs a single optimization step
func (sgd *SGD) Step() error {
	lr := float32(sgd.learningRate)
	mom := float32(sgd.momentum)

	for _, param := range sgd.parameters {
		if sgd.momentum > 0 {
			velocity := sgd.velocities[param]
			if velocity == nil {
				velocity = make([]float32, len(param.Data))
				sgd.velocities[param] = velocity
			}
			for i, g := range param.Grad {
				velocity[i] = mom*velocity[i] + g
				param.Data[i] -= lr * velocity[i]
			}
		} else {
			for i, g := range param.Grad {
				param.Data[i] -= lr * g
			}
		}
	}
	return nil
}

// ZeroGrad resets gradients to zero for all parameters
func (sgd *SGD) ZeroGrad() {
	for _, param := range sgd.parameters {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate
func (sgd *SGD) GetLR() float64 { return sgd.learningRate }

// SetLR sets the learning rate
func (sgd *SGD) SetLR(lr float64) { sgd.learningRate = lr }

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
}

// DefaultAdamConfig returns default Adam optimizer configuration
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LearningRate: 0.001,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}

// Adam implements the Adam optimizer
type Adam struct {
	parameters []*nn.Parameter
	config     AdamConfig
	step       int64
	m          map[*nn.Parameter][]float32 // First moment estimates
	v          map[*nn.Parameter][]float32 // Second moment estimates
}

// NewAdam creates a new Adam optimizer
func NewAdam(parameters []*nn.Parameter, config AdamConfig) *Adam {
	adam := &Adam{
		parameters: parameters,
		config:     config,
		m:          make(map[*nn.Parameter][]float32),
		v:          make(map[*nn.Parameter][]float32),
	}
	for _, param := range parameters {
		adam.m[param] = make([]float32, len(param.Data))
		adam.v[param] = make([]float32, len(param.Data))
	}
	return adam
}

// Step performs a single optimization step
func (adam *Adam) Step() error {
	adam.step++

	// Bias correction factors
	bias1 := 1.0 - math.Pow(adam.config.Beta1, float64(adam.step))
	bias2 := 1.0 - math.Pow(adam.config.Beta2, float64(adam.step))

	beta1 := float32(adam.config.Beta1)
	beta2 := float32(adam.config.Beta2)
	lr := adam.config.LearningRate
	eps := adam.config.Epsilon

	for _, param := range adam.parameters {
		m := adam.m[param]
		v := adam.v[param]
		if m == nil || v == nil {
			m = make([]float32, len(param.Data))
			v = make([]float32, len(param.Data))
			adam.m[param] = m
			adam.v[param] = v
		}

		for i, g := range param.Grad {
			// m = beta1 * m + (1 - beta1) * grad
			m[i] = beta1*m[i] + (1-beta1)*g
			// v = beta2 * v + (1 - beta2) * grad^2
			v[i] = beta2*v[i] + (1-beta2)*g*g

			mHat := float64(m[i]) / bias1
			vHat := float64(v[i]) / bias2

			param.Data[i] -= float32(lr * mHat / (math.Sqrt(vHat) + eps))
		}
	}
	return nil
}

// ZeroGrad resets gradients to zero for all parameters
func (adam *Adam) ZeroGrad() {
	for _, param := range adam.parameters {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate
func (adam *Adam) GetLR() float64 { return adam.config.LearningRate }

// SetLR sets the learning rate
func (adam *Adam) SetLR(lr float64) { adam.config.LearningRate = lr }
