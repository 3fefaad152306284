// Package nn is the CPU execution engine for feed-forward networks: dense
// matrices, differentiable modules, and the categorical cross-entropy loss.
// Models are described as layer configuration (package layers) and built
// into runtime modules here.
package nn

import "fmt"

// Matrix is a dense row-major float32 matrix. Rows are examples, columns
// are features or class probabilities.
type Matrix struct {
	Rows int
	Cols int
	Data []float32
}

// NewMatrix creates a zero matrix of the given shape.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid matrix shape [%d, %d]", rows, cols)
	}
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}, nil
}

// NewMatrixFrom wraps existing flat data in a matrix after validating the
// shape. The data slice is used directly, not copied.
func NewMatrixFrom(rows, cols int, data []float32) (*Matrix, error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("data size %d doesn't match shape [%d, %d] (expected %d)",
			len(data), rows, cols, rows*cols)
	}
	return &Matrix{Rows: rows, Cols: cols, Data: data}, nil
}

// FromRows builds a matrix from per-row slices. All rows must have the
// same length.
func FromRows(rows [][]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot build matrix from zero rows")
	}
	cols := len(rows[0])
	m, err := NewMatrix(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), cols)
		}
		copy(m.Data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float32 {
	return m.Data[i*m.Cols+j]
}

// Set assigns the element at row i, column j.
func (m *Matrix) Set(i, j int, v float32) {
	m.Data[i*m.Cols+j] = v
}

// Row returns row i as a slice sharing the matrix storage.
func (m *Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// ToRows copies the matrix out as per-row slices.
func (m *Matrix) ToRows() [][]float32 {
	rows := make([][]float32, m.Rows)
	for i := range rows {
		row := make([]float32, m.Cols)
		copy(row, m.Row(i))
		rows[i] = row
	}
	return rows
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	data := make([]float32, len(m.Data))
	copy(data, m.Data)
	return &Matrix{Rows: m.Rows, Cols: m.Cols, Data: data}
}

// SelectRows gathers the given rows into a new matrix, in index order.
func (m *Matrix) SelectRows(indices []int) (*Matrix, error) {
	out, err := NewMatrix(len(indices), m.Cols)
	if err != nil {
		return nil, err
	}
	for i, idx := range indices {
		if idx < 0 || idx >= m.Rows {
			return nil, fmt.Errorf("row index %d out of range [0, %d)", idx, m.Rows)
		}
		copy(out.Row(i), m.Row(idx))
	}
	return out, nil
}

// MatMul computes a @ b for a [r×k] and b [k×c].
func MatMul(a, b *Matrix) (*Matrix, error) {
	if a.Cols != b.Rows {
		return nil, fmt.Errorf("matmul shape mismatch: [%d, %d] @ [%d, %d]", a.Rows, a.Cols, b.Rows, b.Cols)
	}
	out, err := NewMatrix(a.Rows, b.Cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < a.Rows; i++ {
		for k := 0; k < a.Cols; k++ {
			av := a.Data[i*a.Cols+k]
			if av == 0 {
				continue
			}
			bRow := b.Data[k*b.Cols : (k+1)*b.Cols]
			outRow := out.Data[i*out.Cols : (i+1)*out.Cols]
			for j := range bRow {
				outRow[j] += av * bRow[j]
			}
		}
	}
	return out, nil
}

// MatMulTransA computes aᵀ @ b for a [k×r] and b [k×c]. Used for weight
// gradients: xᵀ @ gradOutput.
func MatMulTransA(a, b *Matrix) (*Matrix, error) {
	if a.Rows != b.Rows {
		return nil, fmt.Errorf("matmul shape mismatch: [%d, %d]ᵀ @ [%d, %d]", a.Rows, a.Cols, b.Rows, b.Cols)
	}
	out, err := NewMatrix(a.Cols, b.Cols)
	if err != nil {
		return nil, err
	}
	for k := 0; k < a.Rows; k++ {
		aRow := a.Data[k*a.Cols : (k+1)*a.Cols]
		bRow := b.Data[k*b.Cols : (k+1)*b.Cols]
		for i, av := range aRow {
			if av == 0 {
				continue
			}
			outRow := out.Data[i*out.Cols : (i+1)*out.Cols]
			for j, bv := range bRow {
				outRow[j] += av * bv
			}
		}
	}
	return out, nil
}

// MatMulTransB computes a @ bᵀ for a [r×k] and b [c×k]. Used for input
// gradients: gradOutput @ weightᵀ.
func MatMulTransB(a, b *Matrix) (*Matrix, error) {
	if a.Cols != b.Cols {
		return nil, fmt.Errorf("matmul shape mismatch: [%d, %d] @ [%d, %d]ᵀ", a.Rows, a.Cols, b.Rows, b.Cols)
	}
	out, err := NewMatrix(a.Rows, b.Rows)
	if err != nil {
		return nil, err
	}
	for i := 0; i < a.Rows; i++ {
		aRow := a.Data[i*a.Cols : (i+1)*a.Cols]
		for j := 0; j < b.Rows; j++ {
			bRow := b.Data[j*b.Cols : (j+1)*b.Cols]
			var sum float32
			for k, av := range aRow {
				sum += av * bRow[k]
			}
			out.Data[i*out.Cols+j] = sum
		}
	}
	return out, nil
}
