package nn

import (
	"fmt"
	"math"
	"math/rand"
)

// Global random source for deterministic initialization and dropout masks
var globalRng *rand.Rand = rand.New(rand.NewSource(1))

// SetRandomSeed sets the global random seed for deterministic weight
// initialization and dropout sampling.
func SetRandomSeed(seed int64) {
	globalRng = rand.New(rand.NewSource(seed))
}

// Parameter is a trainable tensor with its accumulated gradient. Shape is
// [inputSize, outputSize] for weights and [outputSize] for biases.
type Parameter struct {
	Name  string
	Shape []int
	Data  []float32
	Grad  []float32
}

// ZeroGrad resets the accumulated gradient.
func (p *Parameter) ZeroGrad() {
	for i := range p.Grad {
		p.Grad[i] = 0
	}
}

// Module interface defines methods that all network layers must implement.
// Forward caches whatever Backward needs, so a Backward call is only valid
// after the matching Forward.
type Module interface {
	Forward(input *Matrix) (*Matrix, error)
	Backward(gradOutput *Matrix) (*Matrix, error) // Returns gradient w.r.t. input, accumulates parameter gradients
	Parameters() []*Parameter
	Train()            // Sets module to training mode
	Eval()             // Sets module to evaluation mode
	IsTraining() bool  // Returns true if in training mode
}

// Linear implements a fully connected (dense) layer: y = xW + b
type Linear struct {
	weight   *Parameter
	bias     *Parameter
	input    *Matrix // cached for backward
	training bool
}

// NewLinear creates a new Linear layer with Xavier/Glorot uniform
// initialization: W ~ U(-sqrt(6/(fan_in+fan_out)), sqrt(6/(fan_in+fan_out)))
func NewLinear(inputSize, outputSize int, bias bool, name string) (*Linear, error) {
	if inputSize <= 0 || outputSize <= 0 {
		return nil, fmt.Errorf("invalid linear layer shape [%d, %d]", inputSize, outputSize)
	}

	bound := math.Sqrt(6.0 / float64(inputSize+outputSize))
	weightData := make([]float32, inputSize*outputSize)
	for i := range weightData {
		weightData[i] = float32((globalRng.Float64()*2.0 - 1.0) * bound)
	}

	l := &Linear{
		weight: &Parameter{
			Name:  name + ".weight",
			Shape: []int{inputSize, outputSize},
			Data:  weightData,
			Grad:  make([]float32, inputSize*outputSize),
		},
		training: true,
	}

	if bias {
		l.bias = &Parameter{
			Name:  name + ".bias",
			Shape: []int{outputSize},
			Data:  make([]float32, outputSize),
			Grad:  make([]float32, outputSize),
		}
	}

	return l, nil
}

// Forward performs the forward pass: y = xW + b
func (l *Linear) Forward(input *Matrix) (*Matrix, error) {
	inputSize := l.weight.Shape[0]
	outputSize := l.weight.Shape[1]

	if input.Cols != inputSize {
		return nil, fmt.Errorf("input size mismatch: expected %d, got %d", inputSize, input.Cols)
	}

	weight := &Matrix{Rows: inputSize, Cols: outputSize, Data: l.weight.Data}
	output, err := MatMul(input, weight)
	if err != nil {
		return nil, fmt.Errorf("linear forward failed: %v", err)
	}

	if l.bias != nil {
		for i := 0; i < output.Rows; i++ {
			row := output.Row(i)
			for j := range row {
				row[j] += l.bias.Data[j]
			}
		}
	}

	l.input = input
	return output, nil
}

// Backward accumulates weight and bias gradients and returns the gradient
// with respect to the layer input.
func (l *Linear) Backward(gradOutput *Matrix) (*Matrix, error) {
	if l.input == nil {
		return nil, fmt.Errorf("linear backward called before forward")
	}
	if gradOutput.Rows != l.input.Rows || gradOutput.Cols != l.weight.Shape[1] {
		return nil, fmt.Errorf("gradient shape mismatch: got [%d, %d], expected [%d, %d]",
			gradOutput.Rows, gradOutput.Cols, l.input.Rows, l.weight.Shape[1])
	}

	// dW = xᵀ @ gradOutput
	gradW, err := MatMulTransA(l.input, gradOutput)
	if err != nil {
		return nil, fmt.Errorf("weight gradient failed: %v", err)
	}
	for i, g := range gradW.Data {
		l.weight.Grad[i] += g
	}

	// db = column sums of gradOutput
	if l.bias != nil {
		for i := 0; i < gradOutput.Rows; i++ {
			row := gradOutput.Row(i)
			for j, g := range row {
				l.bias.Grad[j] += g
			}
		}
	}

	// dx = gradOutput @ Wᵀ
	weight := &Matrix{Rows: l.weight.Shape[0], Cols: l.weight.Shape[1], Data: l.weight.Data}
	gradInput, err := MatMulTransB(gradOutput, weight)
	if err != nil {
		return nil, fmt.Errorf("input gradient failed: %v", err)
	}
	return gradInput, nil
}

// Parameters returns the trainable parameters
func (l *Linear) Parameters() []*Parameter {
	params := []*Parameter{l.weight}
	if l.bias != nil {
		params = append(params, l.bias)
	}
	return params
}

// Train sets the module to training mode
func (l *Linear) Train() { l.training = true }

// Eval sets the module to evaluation mode
func (l *Linear) Eval() { l.training = false }

// IsTraining returns true if in training mode
func (l *Linear) IsTraining() bool { return l.training }

// LeakyReLU implements the leaky rectifier activation: f(x) = x for x > 0,
// negativeSlope*x otherwise.
type LeakyReLU struct {
	negativeSlope float32
	input         *Matrix
	training      bool
}

// NewLeakyReLU creates a LeakyReLU activation with the given negative slope.
func NewLeakyReLU(negativeSlope float32) *LeakyReLU {
	return &LeakyReLU{negativeSlope: negativeSlope, training: true}
}

// Forward applies the activation elementwise.
func (r *LeakyReLU) Forward(input *Matrix) (*Matrix, error) {
	output := input.Clone()
	for i, v := range output.Data {
		if v < 0 {
			output.Data[i] = v * r.negativeSlope
		}
	}
	r.input = input
	return output, nil
}

// Backward scales the incoming gradient by the activation slope at each
// cached input position.
func (r *LeakyReLU) Backward(gradOutput *Matrix) (*Matrix, error) {
	if r.input == nil {
		return nil, fmt.Errorf("leaky relu backward called before forward")
	}
	if len(gradOutput.Data) != len(r.input.Data) {
		return nil, fmt.Errorf("gradient size mismatch: got %d, expected %d", len(gradOutput.Data), len(r.input.Data))
	}
	gradInput := gradOutput.Clone()
	for i, v := range r.input.Data {
		if v < 0 {
			gradInput.Data[i] *= r.negativeSlope
		}
	}
	return gradInput, nil
}

// Parameters returns empty slice (LeakyReLU has no parameters)
func (r *LeakyReLU) Parameters() []*Parameter { return []*Parameter{} }

// Train sets the module to training mode
func (r *LeakyReLU) Train() { r.training = true }

// Eval sets the module to evaluation mode
func (r *LeakyReLU) Eval() { r.training = false }

// IsTraining returns true if in training mode
func (r *LeakyReLU) IsTraining() bool { return r.training }

// Dropout implements inverted dropout: during training each element is
// zeroed with probability rate and survivors are scaled by 1/(1-rate);
// during evaluation it is the identity.
type Dropout struct {
	rate     float32
	mask     []float32
	training bool
}

// NewDropout creates a Dropout layer with the given drop probability.
func NewDropout(rate float32) (*Dropout, error) {
	if rate < 0 || rate >= 1 {
		return nil, fmt.Errorf("dropout rate must be in [0, 1), got %v", rate)
	}
	return &Dropout{rate: rate, training: true}, nil
}

// Forward applies the dropout mask in training mode.
func (d *Dropout) Forward(input *Matrix) (*Matrix, error) {
	if !d.training || d.rate == 0 {
		d.mask = nil
		return input, nil
	}

	scale := 1.0 / (1.0 - d.rate)
	d.mask = make([]float32, len(input.Data))
	output := input.Clone()
	for i := range output.Data {
		if globalRng.Float32() < d.rate {
			output.Data[i] = 0
		} else {
			d.mask[i] = scale
			output.Data[i] *= scale
		}
	}
	return output, nil
}

// Backward applies the same mask to the incoming gradient.
func (d *Dropout) Backward(gradOutput *Matrix) (*Matrix, error) {
	if d.mask == nil {
		return gradOutput, nil
	}
	if len(gradOutput.Data) != len(d.mask) {
		return nil, fmt.Errorf("gradient size mismatch: got %d, expected %d", len(gradOutput.Data), len(d.mask))
	}
	gradInput := gradOutput.Clone()
	for i, m := range d.mask {
		gradInput.Data[i] *= m
	}
	return gradInput, nil
}

// Parameters returns empty slice (Dropout has no parameters)
func (d *Dropout) Parameters() []*Parameter { return []*Parameter{} }

// Train sets the module to training mode
func (d *Dropout) Train() { d.training = true }

// Eval sets the module to evaluation mode
func (d *Dropout) Eval() { d.training = false }

// IsTraining returns true if in training mode
func (d *Dropout) IsTraining() bool { return d.training }

// Softmax normalizes each row into a probability distribution.
type Softmax struct {
	output   *Matrix
	training bool
}

// NewSoftmax creates a Softmax activation over the last axis.
func NewSoftmax() *Softmax {
	return &Softmax{training: true}
}

// Forward applies a numerically stable row softmax.
func (s *Softmax) Forward(input *Matrix) (*Matrix, error) {
	output := input.Clone()
	for i := 0; i < output.Rows; i++ {
		row := output.Row(i)

		// Subtract the row max before exponentiating for stability
		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}

		var sum float32
		for j, v := range row {
			e := float32(math.Exp(float64(v - maxVal)))
			row[j] = e
			sum += e
		}
		for j := range row {
			row[j] /= sum
		}
	}
	s.output = output
	return output, nil
}

// Backward applies the softmax Jacobian to the incoming gradient:
// dL/dx_j = p_j * (dL/dp_j - Σ_k dL/dp_k * p_k), row by row.
func (s *Softmax) Backward(gradOutput *Matrix) (*Matrix, error) {
	if s.output == nil {
		return nil, fmt.Errorf("softmax backward called before forward")
	}
	if gradOutput.Rows != s.output.Rows || gradOutput.Cols != s.output.Cols {
		return nil, fmt.Errorf("gradient shape mismatch: got [%d, %d], expected [%d, %d]",
			gradOutput.Rows, gradOutput.Cols, s.output.Rows, s.output.Cols)
	}

	gradInput, err := NewMatrix(gradOutput.Rows, gradOutput.Cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < gradOutput.Rows; i++ {
		p := s.output.Row(i)
		g := gradOutput.Row(i)
		out := gradInput.Row(i)

		var dot float32
		for k := range p {
			dot += g[k] * p[k]
		}
		for j := range p {
			out[j] = p[j] * (g[j] - dot)
		}
	}
	return gradInput, nil
}

// Parameters returns empty slice (Softmax has no parameters)
func (s *Softmax) Parameters() []*Parameter { return []*Parameter{} }

// Train sets the module to training mode
func (s *Softmax) Train() { s.training = true }

// Eval sets the module to evaluation mode
func (s *Softmax) Eval() { s.training = false }

// IsTraining returns true if in training mode
func (s *Softmax) IsTraining() bool { return s.training }

// Sequential allows chaining multiple modules together
type Sequential struct {
	modules  []Module
	training bool
}

// NewSequential creates a new Sequential container
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules, training: true}
}

// Forward passes input through all modules in sequence
func (s *Sequential) Forward(input *Matrix) (*Matrix, error) {
	output := input
	var err error
	for i, module := range s.modules {
		output, err = module.Forward(output)
		if err != nil {
			return nil, fmt.Errorf("module %d forward failed: %v", i, err)
		}
	}
	return output, nil
}

// Backward propagates the gradient through all modules in reverse order.
func (s *Sequential) Backward(gradOutput *Matrix) (*Matrix, error) {
	grad := gradOutput
	var err error
	for i := len(s.modules) - 1; i >= 0; i-- {
		grad, err = s.modules[i].Backward(grad)
		if err != nil {
			return nil, fmt.Errorf("module %d backward failed: %v", i, err)
		}
	}
	return grad, nil
}

// Parameters returns all trainable parameters from all modules
func (s *Sequential) Parameters() []*Parameter {
	var allParams []*Parameter
	for _, module := range s.modules {
		allParams = append(allParams, module.Parameters()...)
	}
	return allParams
}

// Train sets all modules to training mode
func (s *Sequential) Train() {
	s.training = true
	for _, module := range s.modules {
		module.Train()
	}
}

// Eval sets all modules to evaluation mode
func (s *Sequential) Eval() {
	s.training = false
	for _, module := range s.modules {
		module.Eval()
	}
}

// IsTraining returns true if in training mode
func (s *Sequential) IsTraining() bool { return s.training }

// Add appends a module to the sequential container
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}
