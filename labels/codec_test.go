package labels

import (
	"errors"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := NewDefaultCodec()

	input := []string{"others", "description", "skills", "job_title", "education"}
	encoded, err := codec.Encode(input)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i, label := range input {
		if decoded[i] != label {
			t.Errorf("round trip mismatch at %d: got %s, expected %s", i, decoded[i], label)
		}
	}
}

func TestCodecEncodeOneHot(t *testing.T) {
	codec := NewDefaultCodec()

	tests := []struct {
		label string
		index int
	}{
		{"others", 0},
		{"description", 1},
		{"skills", 2},
		{"job_title", 3},
		{"education", 4},
	}

	for _, tt := range tests {
		rows, err := codec.Encode([]string{tt.label})
		if err != nil {
			t.Fatalf("Encode(%s) failed: %v", tt.label, err)
		}
		row := rows[0]
		if len(row) != codec.NumClasses() {
			t.Fatalf("encoded row for %s has width %d, expected %d", tt.label, len(row), codec.NumClasses())
		}
		var sum float32
		for j, v := range row {
			sum += v
			if j == tt.index && v != 1 {
				t.Errorf("Encode(%s): position %d = %v, expected 1", tt.label, j, v)
			}
			if j != tt.index && v != 0 {
				t.Errorf("Encode(%s): position %d = %v, expected 0", tt.label, j, v)
			}
		}
		if sum != 1 {
			t.Errorf("Encode(%s): row sums to %v, expected 1", tt.label, sum)
		}
	}
}

func TestCodecEncodeIndices(t *testing.T) {
	codec := NewDefaultCodec()

	indices, err := codec.EncodeIndices([]string{"education", "others", "skills"})
	if err != nil {
		t.Fatalf("EncodeIndices failed: %v", err)
	}
	expected := []int32{4, 0, 2}
	for i, idx := range indices {
		if idx != expected[i] {
			t.Errorf("index %d: got %d, expected %d", i, idx, expected[i])
		}
	}
}

func TestCodecUnknownLabel(t *testing.T) {
	codec := NewDefaultCodec()

	_, err := codec.Encode([]string{"description", "salary"})
	if err == nil {
		t.Fatal("expected error for unknown label")
	}
	var unknownErr *UnknownLabelError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownLabelError, got %T: %v", err, err)
	}
	if unknownErr.Label != "salary" {
		t.Errorf("error label = %q, expected %q", unknownErr.Label, "salary")
	}
}

func TestCodecDecodeWidthMismatch(t *testing.T) {
	codec := NewDefaultCodec()

	_, err := codec.Decode([][]float32{{0.5, 0.5}})
	if err == nil {
		t.Fatal("expected error for probability row narrower than the class set")
	}
}

func TestArgmaxTieBreak(t *testing.T) {
	tests := []struct {
		name     string
		row      []float32
		expected int
	}{
		{"distinct max", []float32{0.1, 0.7, 0.2}, 1},
		{"tie picks lowest index", []float32{0.4, 0.4, 0.2}, 0},
		{"all equal picks first", []float32{0.2, 0.2, 0.2, 0.2, 0.2}, 0},
		{"max at end", []float32{0.1, 0.2, 0.7}, 2},
	}

	for _, tt := range tests {
		if got := Argmax(tt.row); got != tt.expected {
			t.Errorf("%s: Argmax = %d, expected %d", tt.name, got, tt.expected)
		}
	}
}

func TestNewCodecRejectsDuplicates(t *testing.T) {
	if _, err := NewCodec([]string{"a", "b", "a"}); err == nil {
		t.Fatal("expected error for duplicate class name")
	}
}
