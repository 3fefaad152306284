package labels

import "testing"

func TestMultiBucketDecode(t *testing.T) {
	codec := NewDefaultCodec()
	decoder := NewMultiBucketDecoder(codec, DefaultBucketThreshold)

	probs := [][]float32{
		{0.05, 0.80, 0.05, 0.05, 0.05}, // only description
		{0.25, 0.25, 0.30, 0.10, 0.10}, // others, description, skills
		{0.20, 0.20, 0.20, 0.20, 0.20}, // everything at exactly the threshold
		{0.19, 0.19, 0.19, 0.19, 0.19}, // nothing reaches the threshold
	}
	texts := []string{"a", "b", "c", "d"}

	bucketed, err := decoder.Decode(probs, texts)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	expected := []string{
		"description",
		"others, description, skills",
		"others, description, skills, job_title, education",
		"",
	}
	for i, want := range expected {
		if bucketed[i].Labels != want {
			t.Errorf("row %d: got %q, expected %q", i, bucketed[i].Labels, want)
		}
		if bucketed[i].Text != texts[i] {
			t.Errorf("row %d: text %q, expected %q", i, bucketed[i].Text, texts[i])
		}
	}
}

func TestMultiBucketThresholdExtremes(t *testing.T) {
	codec := NewDefaultCodec()
	probs := [][]float32{{0.3, 0.3, 0.2, 0.1, 0.1}}
	texts := []string{"x"}

	high := NewMultiBucketDecoder(codec, 1.01)
	bucketed, err := high.Decode(probs, texts)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if bucketed[0].Labels != "" {
		t.Errorf("threshold above 1 should match nothing, got %q", bucketed[0].Labels)
	}

	low := NewMultiBucketDecoder(codec, 0)
	bucketed, err = low.Decode(probs, texts)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := "others, description, skills, job_title, education"
	if bucketed[0].Labels != want {
		t.Errorf("zero threshold should match every class in index order: got %q, expected %q", bucketed[0].Labels, want)
	}
}

func TestMultiBucketLengthMismatch(t *testing.T) {
	codec := NewDefaultCodec()
	decoder := NewMultiBucketDecoder(codec, DefaultBucketThreshold)

	if _, err := decoder.Decode([][]float32{{1, 0, 0, 0, 0}}, []string{"a", "b"}); err == nil {
		t.Fatal("expected error for mismatched probabilities and texts")
	}
}
