package nn

import (
	"fmt"

	"github.com/jobtools/go-jobclass/layers"
)

// FromSpec builds a runtime Sequential model from a compiled ModelSpec.
// Layer parameter names follow the "<layer>.weight" / "<layer>.bias"
// convention the checkpoints package relies on.
func FromSpec(spec *layers.ModelSpec) (*Sequential, error) {
	if spec == nil {
		return nil, fmt.Errorf("model spec cannot be nil")
	}
	if !spec.Compiled {
		return nil, fmt.Errorf("model spec must be compiled before building")
	}

	model := NewSequential()
	for i := range spec.Layers {
		layer := &spec.Layers[i]

		switch layer.Type {
		case layers.Dense:
			useBias, err := layer.BoolParam("use_bias")
			if err != nil {
				return nil, err
			}
			if len(layer.InputShape) != 2 || len(layer.OutputShape) != 2 {
				return nil, fmt.Errorf("dense layer %s has uncompiled shapes", layer.Name)
			}
			linear, err := NewLinear(layer.InputShape[1], layer.OutputShape[1], useBias, layer.Name)
			if err != nil {
				return nil, fmt.Errorf("failed to build dense layer %s: %v", layer.Name, err)
			}
			model.Add(linear)

		case layers.LeakyReLU:
			slope, err := layer.FloatParam("negative_slope")
			if err != nil {
				return nil, err
			}
			model.Add(NewLeakyReLU(slope))

		case layers.Dropout:
			rate, err := layer.FloatParam("rate")
			if err != nil {
				return nil, err
			}
			dropout, err := NewDropout(rate)
			if err != nil {
				return nil, fmt.Errorf("failed to build dropout layer %s: %v", layer.Name, err)
			}
			model.Add(dropout)

		case layers.Softmax:
			model.Add(NewSoftmax())

		default:
			return nil, fmt.Errorf("unsupported layer type for runtime build: %s", layer.Type.String())
		}
	}
	return model, nil
}
