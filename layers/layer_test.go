package layers

import "testing"

func TestLayerTypeString(t *testing.T) {
	tests := []struct {
		layerType LayerType
		expected  string
	}{
		{Dense, "Dense"},
		{LeakyReLU, "LeakyReLU"},
		{Dropout, "Dropout"},
		{Softmax, "Softmax"},
		{LayerType(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.layerType.String(); got != tt.expected {
			t.Errorf("LayerType(%d).String() = %s, expected %s", tt.layerType, got, tt.expected)
		}
	}
}

func TestCompileShapesAndParameterCounts(t *testing.T) {
	spec, err := NewModelBuilder([]int{1, 300}).
		AddDense(512, true, "dense_1").
		AddLeakyReLU(0.3, "leaky_relu_1").
		AddDropout(0.2, "dropout_1").
		AddDense(5, true, "output").
		AddSoftmax("softmax").
		Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !spec.Compiled {
		t.Fatal("spec should be marked compiled")
	}
	if spec.OutputShape[1] != 5 {
		t.Errorf("output shape = %v, expected class width 5", spec.OutputShape)
	}

	// 300*512 + 512 for the hidden layer, 512*5 + 5 for the head.
	expectedParams := int64(300*512 + 512 + 512*5 + 5)
	if spec.TotalParameters != expectedParams {
		t.Errorf("total parameters = %d, expected %d", spec.TotalParameters, expectedParams)
	}

	dense := spec.Layers[0]
	if dense.InputShape[1] != 300 || dense.OutputShape[1] != 512 {
		t.Errorf("dense_1 shapes in=%v out=%v, expected widths 300 and 512", dense.InputShape, dense.OutputShape)
	}
	if len(dense.ParameterShapes) != 2 {
		t.Fatalf("dense_1 has %d parameter shapes, expected 2", len(dense.ParameterShapes))
	}
	if dense.ParameterShapes[0][0] != 300 || dense.ParameterShapes[0][1] != 512 {
		t.Errorf("dense_1 weight shape = %v, expected [300, 512]", dense.ParameterShapes[0])
	}

	relu := spec.Layers[1]
	if relu.OutputShape[1] != 512 || relu.ParameterCount != 0 {
		t.Errorf("activation should preserve shape with no parameters, got out=%v count=%d",
			relu.OutputShape, relu.ParameterCount)
	}
}

func TestCompileEmptyModel(t *testing.T) {
	if _, err := NewModelBuilder([]int{1, 10}).Compile(); err == nil {
		t.Fatal("expected error compiling empty model")
	}
}

func TestCompileBadInputShape(t *testing.T) {
	builder := NewModelBuilder([]int{10})
	builder.AddDense(5, true, "dense")
	if _, err := builder.Compile(); err == nil {
		t.Fatal("expected error for non 2-dimensional input shape")
	}
}

func TestLayerSpecParamAccessors(t *testing.T) {
	ls := LayerSpec{
		Name: "dense",
		Parameters: map[string]interface{}{
			"output_size": float64(64), // JSON decoding produces float64
			"rate":        0.2,
			"use_bias":    true,
		},
	}

	size, err := ls.IntParam("output_size")
	if err != nil || size != 64 {
		t.Errorf("IntParam = (%d, %v), expected (64, nil)", size, err)
	}
	rate, err := ls.FloatParam("rate")
	if err != nil || rate != 0.2 {
		t.Errorf("FloatParam = (%v, %v), expected (0.2, nil)", rate, err)
	}
	bias, err := ls.BoolParam("use_bias")
	if err != nil || !bias {
		t.Errorf("BoolParam = (%v, %v), expected (true, nil)", bias, err)
	}

	if _, err := ls.IntParam("missing"); err == nil {
		t.Error("expected error for missing parameter")
	}
	if _, err := ls.BoolParam("rate"); err == nil {
		t.Error("expected error for wrong parameter type")
	}
}
