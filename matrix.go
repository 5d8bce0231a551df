package galois

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Matrix is a row-major boolean cross table: rows are objects, columns are
// attributes.
type Matrix [][]bool

// MatrixFromInts converts a 0/1 grid into a Matrix. Any non-zero cell is true.
// Ragged grids are rejected.
func MatrixFromInts(grid [][]int) (Matrix, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidArgument)
	}
	m := make(Matrix, len(grid))
	for i, row := range grid {
		if len(row) != len(grid[0]) {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidContext, i, len(row), len(grid[0]))
		}
		m[i] = make([]bool, len(row))
		for j, v := range row {
			m[i][j] = v != 0
		}
	}
	return m, nil
}

// Rows returns the number of rows.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the number of columns, taken from the first row.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Validate checks that the matrix is rectangular.
func (m Matrix) Validate() error {
	cols := m.Cols()
	for i, row := range m {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidContext, i, len(row), cols)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]bool, len(row))
		copy(out[i], row)
	}
	return out
}

// Equal reports whether both matrices have the same shape and cells.
func (m Matrix) Equal(other Matrix) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if len(m[i]) != len(other[i]) {
			return false
		}
		for j := range m[i] {
			if m[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// Ints converts the matrix back to a 0/1 grid.
func (m Matrix) Ints() [][]int {
	out := make([][]int, len(m))
	for i, row := range m {
		out[i] = make([]int, len(row))
		for j, v := range row {
			if v {
				out[i][j] = 1
			}
		}
	}
	return out
}

// String renders one line of 0/1 per row.
func (m Matrix) String() string {
	var b strings.Builder
	for i, row := range m {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeBits(&b, row)
	}
	return b.String()
}

// Scan implements sql.Scanner. The stored format is one bit string per row
// separated by commas, e.g. "0110,1111".
func (m *Matrix) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}

	var s string
	switch val := src.(type) {
	case []byte:
		s = string(val)
	case string:
		s = val
	default:
		return fmt.Errorf("cannot scan %T into Matrix", src)
	}

	rows := strings.Split(s, ",")
	out := make(Matrix, len(rows))
	for i, r := range rows {
		out[i] = make([]bool, len(r))
		for j, c := range r {
			switch c {
			case '0':
			case '1':
				out[i][j] = true
			default:
				return fmt.Errorf("invalid matrix cell %q at row %d column %d", c, i, j)
			}
		}
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*m = out
	return nil
}

// Value implements driver.Valuer.
func (m Matrix) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	var b strings.Builder
	for i, row := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		writeBits(&b, row)
	}
	return b.String(), nil
}

func writeBits(b *strings.Builder, row []bool) {
	for _, v := range row {
		if v {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
}
