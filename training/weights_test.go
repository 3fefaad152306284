package training

import (
	"math"
	"testing"

	"github.com/jobtools/go-jobclass/labels"
)

func TestBalancedSampleWeights(t *testing.T) {
	codec := labels.NewDefaultCodec()

	// 6 description, 2 skills, 2 others: rarer classes get heavier weights.
	trainLabels := []string{
		"description", "description", "description", "description", "description", "description",
		"skills", "skills",
		"others", "others",
	}

	weights, err := BalancedSampleWeights(trainLabels, codec)
	if err != nil {
		t.Fatalf("BalancedSampleWeights failed: %v", err)
	}
	if len(weights) != len(trainLabels) {
		t.Fatalf("got %d weights, expected %d", len(weights), len(trainLabels))
	}

	// w = total / (numClasses * classCount)
	expectedDesc := float32(10.0 / (5.0 * 6.0))
	expectedRare := float32(10.0 / (5.0 * 2.0))
	if math.Abs(float64(weights[0]-expectedDesc)) > 1e-6 {
		t.Errorf("description weight = %v, expected %v", weights[0], expectedDesc)
	}
	if math.Abs(float64(weights[6]-expectedRare)) > 1e-6 {
		t.Errorf("skills weight = %v, expected %v", weights[6], expectedRare)
	}
	if weights[6] <= weights[0] {
		t.Errorf("rare class weight %v should exceed common class weight %v", weights[6], weights[0])
	}

	// Every present class contributes the same summed weight.
	perClass := make(map[string]float64)
	for i, label := range trainLabels {
		perClass[label] += float64(weights[i])
	}
	if math.Abs(perClass["description"]-perClass["skills"]) > 1e-5 {
		t.Errorf("class weight sums differ: description %v, skills %v", perClass["description"], perClass["skills"])
	}
}

func TestBalancedSampleWeightsUniform(t *testing.T) {
	codec := labels.NewDefaultCodec()
	trainLabels := []string{"others", "description", "skills", "job_title", "education"}

	weights, err := BalancedSampleWeights(trainLabels, codec)
	if err != nil {
		t.Fatalf("BalancedSampleWeights failed: %v", err)
	}
	for i, w := range weights {
		if math.Abs(float64(w-1)) > 1e-6 {
			t.Errorf("weight %d = %v, expected 1 for a perfectly balanced set", i, w)
		}
	}
}

func TestBalancedSampleWeightsErrors(t *testing.T) {
	codec := labels.NewDefaultCodec()

	if _, err := BalancedSampleWeights(nil, codec); err == nil {
		t.Error("expected error for empty label set")
	}
	if _, err := BalancedSampleWeights([]string{"salary"}, codec); err == nil {
		t.Error("expected error for unknown label")
	}
}
