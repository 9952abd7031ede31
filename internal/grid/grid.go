package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidLayout   = errors.New("invalid grid layout")
	ErrLabelOutOfRange = errors.New("label out of range for grid layout")
)

// LabelStyle selects how position labels are generated
type LabelStyle string

const (
	// StyleAlnum labels cells with a row letter and a 1-based column
	// number, e.g. "A1" for row 0, column 0. Rows beyond 26 use
	// spreadsheet-style letter pairs ("AA", "AB", ...).
	StyleAlnum LabelStyle = "alnum"

	// StyleNumeric labels cells with a 1-based row-major index,
	// e.g. "1" for row 0, column 0.
	StyleNumeric LabelStyle = "numeric"
)

// IsValid reports whether s is a known label style
func (s LabelStyle) IsValid() bool {
	return s == StyleAlnum || s == StyleNumeric
}

// Mapper converts between (row, column) coordinates and canonical position
// labels for a fixed rows x columns layout. Label generation is deterministic
// and invertible for the layout it was built with.
type Mapper struct {
	rows  int
	cols  int
	style LabelStyle
}

// NewMapper creates a mapper for the given layout
func NewMapper(rows, cols int, style LabelStyle) (*Mapper, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: rows=%d, columns=%d", ErrInvalidLayout, rows, cols)
	}
	if !style.IsValid() {
		return nil, fmt.Errorf("%w: unknown label style %q", ErrInvalidLayout, style)
	}
	return &Mapper{rows: rows, cols: cols, style: style}, nil
}

// Rows returns the configured row count
func (m *Mapper) Rows() int { return m.rows }

// Cols returns the configured column count
func (m *Mapper) Cols() int { return m.cols }

// Style returns the configured label style
func (m *Mapper) Style() LabelStyle { return m.style }

// Capacity returns rows x columns
func (m *Mapper) Capacity() int { return m.rows * m.cols }

// Labels returns every position label in row-major order: row 0 first, its
// columns left to right, then row 1, and so on. The result always has
// exactly Capacity() entries.
func (m *Mapper) Labels() []string {
	labels := make([]string, 0, m.rows*m.cols)
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			label, _ := m.LabelAt(row, col)
			labels = append(labels, label)
		}
	}
	return labels
}

// LabelAt returns the canonical label for the given zero-based coordinates
func (m *Mapper) LabelAt(row, col int) (string, error) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return "", fmt.Errorf("%w: row=%d, col=%d", ErrLabelOutOfRange, row, col)
	}
	switch m.style {
	case StyleNumeric:
		return strconv.Itoa(row*m.cols + col + 1), nil
	default:
		return rowLetters(row) + strconv.Itoa(col+1), nil
	}
}

// Decode recovers the zero-based (row, column) coordinates of a label.
// Labels not producible by this layout fail with ErrLabelOutOfRange.
func (m *Mapper) Decode(label string) (int, int, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, 0, fmt.Errorf("%w: empty label", ErrLabelOutOfRange)
	}

	switch m.style {
	case StyleNumeric:
		idx, err := strconv.Atoi(label)
		if err != nil || idx < 1 || idx > m.rows*m.cols {
			return 0, 0, fmt.Errorf("%w: %q", ErrLabelOutOfRange, label)
		}
		return (idx - 1) / m.cols, (idx - 1) % m.cols, nil

	default:
		upper := strings.ToUpper(label)
		split := 0
		for split < len(upper) && upper[split] >= 'A' && upper[split] <= 'Z' {
			split++
		}
		if split == 0 || split == len(upper) {
			return 0, 0, fmt.Errorf("%w: %q", ErrLabelOutOfRange, label)
		}
		row, err := lettersToRow(upper[:split])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrLabelOutOfRange, label)
		}
		colNum, err := strconv.Atoi(upper[split:])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrLabelOutOfRange, label)
		}
		col := colNum - 1
		if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
			return 0, 0, fmt.Errorf("%w: %q", ErrLabelOutOfRange, label)
		}
		return row, col, nil
	}
}

// Contains reports whether label is producible by this layout
func (m *Mapper) Contains(label string) bool {
	_, _, err := m.Decode(label)
	return err == nil
}

// rowLetters converts a zero-based row index to spreadsheet-style letters:
// 0 -> "A", 25 -> "Z", 26 -> "AA", 27 -> "AB", ...
func rowLetters(row int) string {
	var sb strings.Builder
	n := row
	for n >= 0 {
		sb.WriteByte(byte('A' + n%26))
		n = n/26 - 1
	}
	// Letters were produced least-significant first; reverse them
	s := sb.String()
	runes := []byte(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// lettersToRow is the inverse of rowLetters
func lettersToRow(letters string) (int, error) {
	row := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("invalid row letter %q", c)
		}
		row = row*26 + int(c-'A') + 1
	}
	return row - 1, nil
}
