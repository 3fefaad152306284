package labels

import (
	"fmt"
	"strings"
)

// DefaultBucketThreshold is the default inclusion threshold for the
// multi-bucket interpretation of a probability vector.
const DefaultBucketThreshold float32 = 0.20

// Bucketed pairs the multi-label decode of one probability row with the
// original input it was predicted from, ready for spreadsheet consumption.
type Bucketed struct {
	// Labels holds every class at or above the threshold, comma separated,
	// in class index order. Empty when no class reaches the threshold.
	Labels string
	Text   string
}

// MultiBucketDecoder interprets probability vectors as label sets: every
// class whose probability meets the threshold is included, independent of
// the single-label argmax path.
type MultiBucketDecoder struct {
	codec     *Codec
	threshold float32
}

// NewMultiBucketDecoder creates a decoder with the given inclusion
// threshold. The threshold is free configuration, not derived from data.
func NewMultiBucketDecoder(codec *Codec, threshold float32) *MultiBucketDecoder {
	return &MultiBucketDecoder{codec: codec, threshold: threshold}
}

// Decode maps each probability row to the set of classes meeting the
// threshold, joined in class index order, paired with the corresponding
// input text. A row where nothing reaches the threshold yields an empty
// label string rather than being dropped.
func (d *MultiBucketDecoder) Decode(probabilities [][]float32, texts []string) ([]Bucketed, error) {
	if len(probabilities) != len(texts) {
		return nil, fmt.Errorf("probability rows (%d) and texts (%d) must align", len(probabilities), len(texts))
	}

	out := make([]Bucketed, len(probabilities))
	for i, row := range probabilities {
		if len(row) != d.codec.NumClasses() {
			return nil, fmt.Errorf("row %d has %d probabilities, expected %d", i, len(row), d.codec.NumClasses())
		}

		var picked []string
		for j, p := range row {
			if p >= d.threshold {
				picked = append(picked, d.codec.names[j])
			}
		}
		out[i] = Bucketed{Labels: strings.Join(picked, ", "), Text: texts[i]}
	}
	return out, nil
}
