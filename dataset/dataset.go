// Package dataset loads and manages the classifier's data splits. A bundle
// pairs pre-vectorized feature rows with their labels and original text
// snippets; the text rides along untouched so downstream reports can show
// what was classified.
package dataset

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/jobtools/go-jobclass/nn"
)

// Bundle holds one data split: feature vectors, the label per row, and the
// raw text each row was vectorized from. Labels and Texts align with
// Features by index.
type Bundle struct {
	Features [][]float32 `json:"features"`
	Labels   []string    `json:"labels"`
	Texts    []string    `json:"texts"`
}

// Validate checks that features, labels, and texts align and that every
// feature row has the same width.
func (b *Bundle) Validate() error {
	if len(b.Features) == 0 {
		return fmt.Errorf("bundle has no feature rows")
	}
	if len(b.Labels) != len(b.Features) {
		return fmt.Errorf("bundle has %d feature rows but %d labels", len(b.Features), len(b.Labels))
	}
	if len(b.Texts) != len(b.Features) {
		return fmt.Errorf("bundle has %d feature rows but %d texts", len(b.Features), len(b.Texts))
	}
	width := len(b.Features[0])
	for i, row := range b.Features {
		if len(row) != width {
			return fmt.Errorf("feature row %d has width %d, expected %d", i, len(row), width)
		}
	}
	return nil
}

// Len returns the number of examples in the bundle.
func (b *Bundle) Len() int {
	return len(b.Features)
}

// FeatureSize returns the width of the feature vectors, 0 for an empty
// bundle.
func (b *Bundle) FeatureSize() int {
	if len(b.Features) == 0 {
		return 0
	}
	return len(b.Features[0])
}

// Matrix packs the feature rows into a single matrix for the engine.
func (b *Bundle) Matrix() (*nn.Matrix, error) {
	return nn.FromRows(b.Features)
}

// Distribution counts examples per label.
func (b *Bundle) Distribution() map[string]int {
	counts := make(map[string]int)
	for _, label := range b.Labels {
		counts[label]++
	}
	return counts
}

// Split partitions the bundle into train and validation bundles after a
// seeded shuffle. validFraction is the share of examples that go to the
// validation side; the same seed always produces the same partition.
func (b *Bundle) Split(validFraction float64, seed int64) (*Bundle, *Bundle, error) {
	if validFraction <= 0 || validFraction >= 1 {
		return nil, nil, fmt.Errorf("validation fraction must be in (0, 1), got %g", validFraction)
	}
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}

	n := b.Len()
	validCount := int(float64(n) * validFraction)
	if validCount == 0 || validCount == n {
		return nil, nil, fmt.Errorf("validation fraction %g leaves an empty split for %d examples", validFraction, n)
	}

	indices := rand.New(rand.NewSource(seed)).Perm(n)

	take := func(idx []int) *Bundle {
		out := &Bundle{
			Features: make([][]float32, len(idx)),
			Labels:   make([]string, len(idx)),
			Texts:    make([]string, len(idx)),
		}
		for i, j := range idx {
			out.Features[i] = b.Features[j]
			out.Labels[i] = b.Labels[j]
			out.Texts[i] = b.Texts[j]
		}
		return out
	}

	valid := take(indices[:validCount])
	train := take(indices[validCount:])
	return train, valid, nil
}

// Load reads a bundle from a JSON file and validates it.
func Load(path string) (*Bundle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %v", err)
	}
	defer file.Close()

	var bundle Bundle
	if err := json.NewDecoder(file).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %v", path, err)
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %v", path, err)
	}
	return &bundle, nil
}

// Save writes the bundle to a JSON file.
func Save(bundle *Bundle, path string) error {
	if err := bundle.Validate(); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %v", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(bundle); err != nil {
		return fmt.Errorf("failed to encode dataset: %v", err)
	}
	return nil
}
