package labels

// DefaultConfidenceThreshold is the cutoff above which a prediction's top
// class probability marks the prediction as confident.
const DefaultConfidenceThreshold float32 = 0.65

// Confidence flags each probability row as confident when its maximum
// class probability strictly exceeds the threshold.
func Confidence(probabilities [][]float32, threshold float32) []bool {
	flags := make([]bool, len(probabilities))
	for i, row := range probabilities {
		if len(row) == 0 {
			continue
		}
		if row[Argmax(row)] > threshold {
			flags[i] = true
		}
	}
	return flags
}

// ClassProbabilities expands each probability row into a label-keyed map,
// for per-prediction inspection logs.
func (c *Codec) ClassProbabilities(probabilities [][]float32) []map[string]float32 {
	out := make([]map[string]float32, len(probabilities))
	for i, row := range probabilities {
		m := make(map[string]float32, len(c.names))
		for j, p := range row {
			if j >= len(c.names) {
				break
			}
			m[c.names[j]] = p
		}
		out[i] = m
	}
	return out
}

// Prediction groups everything derived from one probability row: the raw
// probabilities, the argmax class, the confidence flag, and the
// multi-bucket label string.
type Prediction struct {
	Probabilities []float32
	Best          string
	Confident     bool
	Buckets       string
}

// BuildPredictions assembles a Prediction per probability row using the
// given confidence and bucket thresholds.
func (c *Codec) BuildPredictions(probabilities [][]float32, confThreshold, bucketThreshold float32) ([]Prediction, error) {
	best, err := c.Decode(probabilities)
	if err != nil {
		return nil, err
	}
	flags := Confidence(probabilities, confThreshold)

	texts := make([]string, len(probabilities))
	bucketed, err := NewMultiBucketDecoder(c, bucketThreshold).Decode(probabilities, texts)
	if err != nil {
		return nil, err
	}

	preds := make([]Prediction, len(probabilities))
	for i := range probabilities {
		preds[i] = Prediction{
			Probabilities: probabilities[i],
			Best:          best[i],
			Confident:     flags[i],
			Buckets:       bucketed[i].Labels,
		}
	}
	return preds, nil
}
