// Package labels translates between string class labels and the numeric
// representations consumed and produced by the network: one-hot target
// vectors on the way in, probability vectors on the way out.
package labels

import "fmt"

// ClassNames is the fixed label set in encoding order. The position of a
// name in this slice is its class index, and the same ordering is used by
// every encode and decode path in the process. Changing it invalidates any
// previously saved checkpoint.
var ClassNames = []string{"others", "description", "skills", "job_title", "education"}

// UnknownLabelError reports a label outside the configured class set.
// It signals a data or configuration mismatch and is never retried.
type UnknownLabelError struct {
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown class label %q", e.Label)
}

// Codec is an immutable bidirectional mapping between class labels and
// class indices. Construct it once at startup and share it by reference;
// two inconsistent copies must never exist in one process.
type Codec struct {
	names   []string
	indexOf map[string]int
}

// NewCodec creates a codec over the given class names. Index assignment
// follows slice order.
func NewCodec(names []string) (*Codec, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("class name list cannot be empty")
	}

	indexOf := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := indexOf[name]; dup {
			return nil, fmt.Errorf("duplicate class name %q", name)
		}
		indexOf[name] = i
	}

	namesCopy := make([]string, len(names))
	copy(namesCopy, names)

	return &Codec{names: namesCopy, indexOf: indexOf}, nil
}

// NewDefaultCodec creates the codec over the fixed five-class set.
func NewDefaultCodec() *Codec {
	c, err := NewCodec(ClassNames)
	if err != nil {
		panic(err) // ClassNames is a package constant; this cannot happen
	}
	return c
}

// NumClasses returns the number of classes in the mapping.
func (c *Codec) NumClasses() int {
	return len(c.names)
}

// Names returns a copy of the class names in index order.
func (c *Codec) Names() []string {
	namesCopy := make([]string, len(c.names))
	copy(namesCopy, c.names)
	return namesCopy
}

// Index returns the class index for a label.
func (c *Codec) Index(label string) (int, error) {
	idx, ok := c.indexOf[label]
	if !ok {
		return 0, &UnknownLabelError{Label: label}
	}
	return idx, nil
}

// Name returns the class label for an index.
func (c *Codec) Name(index int) (string, error) {
	if index < 0 || index >= len(c.names) {
		return "", fmt.Errorf("class index %d out of range [0, %d)", index, len(c.names))
	}
	return c.names[index], nil
}

// Encode converts labels to one-hot target rows. Each row has exactly one
// 1.0, at the class index of its label, and sums to exactly 1.0.
func (c *Codec) Encode(labels []string) ([][]float32, error) {
	rows := make([][]float32, len(labels))
	for i, label := range labels {
		idx, ok := c.indexOf[label]
		if !ok {
			return nil, &UnknownLabelError{Label: label}
		}
		row := make([]float32, len(c.names))
		row[idx] = 1.0
		rows[i] = row
	}
	return rows, nil
}

// EncodeIndices converts labels to their class indices. This is the target
// form the cross-entropy loss consumes.
func (c *Codec) EncodeIndices(labels []string) ([]int32, error) {
	indices := make([]int32, len(labels))
	for i, label := range labels {
		idx, ok := c.indexOf[label]
		if !ok {
			return nil, &UnknownLabelError{Label: label}
		}
		indices[i] = int32(idx)
	}
	return indices, nil
}

// Decode converts probability rows to the best class label per row via
// argmax. Ties break toward the lowest index; that rule is part of the
// contract, not an accident of iteration order.
func (c *Codec) Decode(probabilities [][]float32) ([]string, error) {
	out := make([]string, len(probabilities))
	for i, row := range probabilities {
		if len(row) != len(c.names) {
			return nil, fmt.Errorf("row %d has %d probabilities, expected %d", i, len(row), len(c.names))
		}
		out[i] = c.names[Argmax(row)]
	}
	return out, nil
}

// Argmax returns the index of the maximum value in row. Ties break toward
// the lowest index. An empty row returns 0.
func Argmax(row []float32) int {
	if len(row) == 0 {
		return 0
	}
	maxIdx := 0
	maxVal := row[0]
	for j := 1; j < len(row); j++ {
		if row[j] > maxVal {
			maxVal = row[j]
			maxIdx = j
		}
	}
	return maxIdx
}
