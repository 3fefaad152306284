package training

import (
	"fmt"

	"github.com/jobtools/go-jobclass/labels"
)

// BalancedSampleWeights computes per-example weights inversely proportional
// to class frequency: w = total / (numClasses * classCount). Each present
// class then contributes total/numClasses in summed weight, and the weights
// of a fully represented training set sum to the unweighted example count.
func BalancedSampleWeights(trainLabels []string, codec *labels.Codec) ([]float32, error) {
	if len(trainLabels) == 0 {
		return nil, fmt.Errorf("cannot compute sample weights for empty label set")
	}

	counts := make(map[string]int, codec.NumClasses())
	for _, label := range trainLabels {
		if _, err := codec.Index(label); err != nil {
			return nil, err
		}
		counts[label]++
	}

	total := float64(len(trainLabels))
	numClasses := float64(codec.NumClasses())

	weights := make([]float32, len(trainLabels))
	for i, label := range trainLabels {
		weights[i] = float32(total / (numClasses * float64(counts[label])))
	}
	return weights, nil
}
