// Package layers describes feed-forward models as pure configuration:
// ordered layer specifications with computed shapes and parameter counts.
// The nn package builds runtime modules from a compiled ModelSpec, and the
// checkpoints package serializes one alongside the trained weights.
package layers

import "fmt"

// LayerType represents the type of neural network layer
type LayerType int

const (
	Dense LayerType = iota
	LeakyReLU
	Dropout
	Softmax
)

func (lt LayerType) String() string {
	switch lt {
	case Dense:
		return "Dense"
	case LeakyReLU:
		return "LeakyReLU"
	case Dropout:
		return "Dropout"
	case Softmax:
		return "Softmax"
	default:
		return "Unknown"
	}
}

// LayerSpec defines layer configuration - no execution logic
type LayerSpec struct {
	Type       LayerType              `json:"type"`
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`

	// Shape information (computed during model compilation)
	InputShape  []int `json:"input_shape,omitempty"`
	OutputShape []int `json:"output_shape,omitempty"`

	// Parameter metadata (computed during model compilation)
	ParameterShapes [][]int `json:"parameter_shapes,omitempty"`
	ParameterCount  int64   `json:"parameter_count,omitempty"`
}

// FloatParam reads a numeric layer parameter. JSON decoding turns numbers
// into float64, so both the freshly built and the reloaded forms are
// accepted.
func (ls *LayerSpec) FloatParam(key string) (float32, error) {
	v, ok := ls.Parameters[key]
	if !ok {
		return 0, fmt.Errorf("layer %s missing parameter %q", ls.Name, key)
	}
	switch n := v.(type) {
	case float32:
		return n, nil
	case float64:
		return float32(n), nil
	case int:
		return float32(n), nil
	default:
		return 0, fmt.Errorf("layer %s parameter %q has non-numeric type %T", ls.Name, key, v)
	}
}

// IntParam reads an integer layer parameter, tolerating the float64 form
// JSON decoding produces.
func (ls *LayerSpec) IntParam(key string) (int, error) {
	v, ok := ls.Parameters[key]
	if !ok {
		return 0, fmt.Errorf("layer %s missing parameter %q", ls.Name, key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	case float32:
		return int(n), nil
	default:
		return 0, fmt.Errorf("layer %s parameter %q has non-integer type %T", ls.Name, key, v)
	}
}

// BoolParam reads a boolean layer parameter.
func (ls *LayerSpec) BoolParam(key string) (bool, error) {
	v, ok := ls.Parameters[key]
	if !ok {
		return false, fmt.Errorf("layer %s missing parameter %q", ls.Name, key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("layer %s parameter %q has non-boolean type %T", ls.Name, key, v)
	}
	return b, nil
}

// ModelSpec defines a complete network model as layer configuration
type ModelSpec struct {
	Layers []LayerSpec `json:"layers"`

	// Compiled model information
	TotalParameters int64   `json:"total_parameters"`
	ParameterShapes [][]int `json:"parameter_shapes"`
	InputShape      []int   `json:"input_shape"`
	OutputShape     []int   `json:"output_shape"`
	Compiled        bool    `json:"compiled"`
}

// ModelBuilder helps construct network models
type ModelBuilder struct {
	layers     []LayerSpec
	inputShape []int
	compiled   bool
}

// NewModelBuilder creates a new model builder. inputShape is
// [batch_size, features]; the batch dimension is carried through
// compilation unchanged.
func NewModelBuilder(inputShape []int) *ModelBuilder {
	return &ModelBuilder{
		layers:     make([]LayerSpec, 0),
		inputShape: inputShape,
		compiled:   false,
	}
}

// AddLayer adds a layer to the model
func (mb *ModelBuilder) AddLayer(layer LayerSpec) *ModelBuilder {
	mb.layers = append(mb.layers, layer)
	mb.compiled = false // Invalidate compilation
	return mb
}

// AddDense adds a dense layer to the model. Input size is computed during
// compilation.
func (mb *ModelBuilder) AddDense(outputSize int, useBias bool, name string) *ModelBuilder {
	return mb.AddLayer(LayerSpec{
		Type: Dense,
		Name: name,
		Parameters: map[string]interface{}{
			"output_size": outputSize,
			"use_bias":    useBias,
		},
	})
}

// AddLeakyReLU adds a leaky rectifier activation to the model.
// negativeSlope: slope for negative input values
func (mb *ModelBuilder) AddLeakyReLU(negativeSlope float32, name string) *ModelBuilder {
	return mb.AddLayer(LayerSpec{
		Type: LeakyReLU,
		Name: name,
		Parameters: map[string]interface{}{
			"negative_slope": negativeSlope,
		},
	})
}

// AddDropout adds a Dropout layer to the model.
// rate: dropout probability (0.0 = no dropout)
func (mb *ModelBuilder) AddDropout(rate float32, name string) *ModelBuilder {
	return mb.AddLayer(LayerSpec{
		Type: Dropout,
		Name: name,
		Parameters: map[string]interface{}{
			"rate": rate,
		},
	})
}

// AddSoftmax adds a Softmax activation over the class axis to the model.
func (mb *ModelBuilder) AddSoftmax(name string) *ModelBuilder {
	return mb.AddLayer(LayerSpec{
		Type:       Softmax,
		Name:       name,
		Parameters: map[string]interface{}{},
	})
}

// Compile compiles the model and computes shapes and parameter counts
func (mb *ModelBuilder) Compile() (*ModelSpec, error) {
	if len(mb.layers) == 0 {
		return nil, fmt.Errorf("cannot compile empty model")
	}
	if len(mb.inputShape) != 2 {
		return nil, fmt.Errorf("input shape must be [batch_size, features], got %v", mb.inputShape)
	}

	model := &ModelSpec{
		Layers:     make([]LayerSpec, len(mb.layers)),
		InputShape: mb.inputShape,
		Compiled:   false,
	}
	copy(model.Layers, mb.layers)

	currentShape := mb.inputShape
	var allParameterShapes [][]int
	totalParams := int64(0)

	for i := range model.Layers {
		layer := &model.Layers[i]

		layer.InputShape = make([]int, len(currentShape))
		copy(layer.InputShape, currentShape)

		outputShape, paramShapes, paramCount, err := computeLayerInfo(layer, currentShape)
		if err != nil {
			return nil, fmt.Errorf("failed to compute layer %d (%s) info: %v", i, layer.Name, err)
		}

		layer.OutputShape = outputShape
		layer.ParameterShapes = paramShapes
		layer.ParameterCount = paramCount

		allParameterShapes = append(allParameterShapes, paramShapes...)
		totalParams += paramCount

		currentShape = outputShape
	}

	model.OutputShape = currentShape
	model.ParameterShapes = allParameterShapes
	model.TotalParameters = totalParams
	model.Compiled = true
	mb.compiled = true

	return model, nil
}

// computeLayerInfo computes output shape and parameter information for a layer
func computeLayerInfo(layer *LayerSpec, inputShape []int) ([]int, [][]int, int64, error) {
	switch layer.Type {
	case Dense:
		outputSize, err := layer.IntParam("output_size")
		if err != nil {
			return nil, nil, 0, err
		}
		useBias, err := layer.BoolParam("use_bias")
		if err != nil {
			return nil, nil, 0, err
		}

		inputSize := inputShape[1]
		outputShape := []int{inputShape[0], outputSize}

		paramShapes := [][]int{{inputSize, outputSize}}
		paramCount := int64(inputSize * outputSize)
		if useBias {
			paramShapes = append(paramShapes, []int{outputSize})
			paramCount += int64(outputSize)
		}
		return outputShape, paramShapes, paramCount, nil

	case LeakyReLU, Dropout, Softmax:
		// Activation layers preserve shape and carry no parameters
		outputShape := make([]int, len(inputShape))
		copy(outputShape, inputShape)
		return outputShape, nil, 0, nil

	default:
		return nil, nil, 0, fmt.Errorf("unsupported layer type: %s", layer.Type.String())
	}
}
