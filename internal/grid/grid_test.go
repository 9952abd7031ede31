package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMapper_InvalidLayout(t *testing.T) {
	tests := []struct {
		name  string
		rows  int
		cols  int
		style LabelStyle
	}{
		{"zero rows", 0, 12, StyleAlnum},
		{"zero columns", 8, 0, StyleAlnum},
		{"negative rows", -1, 12, StyleAlnum},
		{"negative columns", 8, -3, StyleNumeric},
		{"unknown style", 8, 12, LabelStyle("roman")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMapper(tt.rows, tt.cols, tt.style)
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}

func TestMapper_AlnumLabels(t *testing.T) {
	m, err := NewMapper(8, 12, StyleAlnum)
	require.NoError(t, err)

	labels := m.Labels()
	require.Len(t, labels, 96)
	assert.Equal(t, "A1", labels[0])
	assert.Equal(t, "A12", labels[11])
	assert.Equal(t, "B1", labels[12])
	assert.Equal(t, "H12", labels[95])

	label, err := m.LabelAt(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "A1", label)

	label, err = m.LabelAt(7, 11)
	require.NoError(t, err)
	assert.Equal(t, "H12", label)

	row, col, err := m.Decode("H12")
	require.NoError(t, err)
	assert.Equal(t, 7, row)
	assert.Equal(t, 11, col)
}

func TestMapper_NumericLabels(t *testing.T) {
	m, err := NewMapper(2, 3, StyleNumeric)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, m.Labels())

	row, col, err := m.Decode("4")
	require.NoError(t, err)
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)
}

func TestMapper_RoundTrip(t *testing.T) {
	layouts := []struct {
		rows  int
		cols  int
		style LabelStyle
	}{
		{1, 1, StyleAlnum},
		{8, 12, StyleAlnum},
		{9, 9, StyleAlnum},
		{30, 4, StyleAlnum}, // rows beyond Z
		{8, 12, StyleNumeric},
		{5, 1, StyleNumeric},
	}

	for _, layout := range layouts {
		name := fmt.Sprintf("%dx%d_%s", layout.rows, layout.cols, layout.style)
		t.Run(name, func(t *testing.T) {
			m, err := NewMapper(layout.rows, layout.cols, layout.style)
			require.NoError(t, err)

			labels := m.Labels()
			require.Len(t, labels, layout.rows*layout.cols)

			seen := make(map[string]bool)
			for i, label := range labels {
				require.False(t, seen[label], "duplicate label %s", label)
				seen[label] = true

				row, col, err := m.Decode(label)
				require.NoError(t, err)
				assert.Equal(t, i/layout.cols, row)
				assert.Equal(t, i%layout.cols, col)

				again, err := m.LabelAt(row, col)
				require.NoError(t, err)
				assert.Equal(t, label, again)
			}
		})
	}
}

func TestMapper_WideRowLetters(t *testing.T) {
	m, err := NewMapper(30, 2, StyleAlnum)
	require.NoError(t, err)

	label, err := m.LabelAt(25, 0)
	require.NoError(t, err)
	assert.Equal(t, "Z1", label)

	label, err = m.LabelAt(26, 0)
	require.NoError(t, err)
	assert.Equal(t, "AA1", label)

	label, err = m.LabelAt(27, 1)
	require.NoError(t, err)
	assert.Equal(t, "AB2", label)
}

func TestMapper_DecodeOutOfRange(t *testing.T) {
	m, err := NewMapper(8, 12, StyleAlnum)
	require.NoError(t, err)

	for _, label := range []string{"", "I1", "A13", "A0", "99", "AA1", "1", "H13", "garbage"} {
		_, _, err := m.Decode(label)
		assert.ErrorIs(t, err, ErrLabelOutOfRange, "label %q", label)
	}

	n, err := NewMapper(2, 3, StyleNumeric)
	require.NoError(t, err)
	for _, label := range []string{"0", "7", "-1", "A1", ""} {
		_, _, err := n.Decode(label)
		assert.ErrorIs(t, err, ErrLabelOutOfRange, "label %q", label)
	}
}

func TestMapper_LabelAtOutOfRange(t *testing.T) {
	m, err := NewMapper(8, 12, StyleAlnum)
	require.NoError(t, err)

	for _, coord := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 12}} {
		_, err := m.LabelAt(coord[0], coord[1])
		assert.ErrorIs(t, err, ErrLabelOutOfRange)
	}
}

func TestMapper_DecodeIsCaseInsensitive(t *testing.T) {
	m, err := NewMapper(8, 12, StyleAlnum)
	require.NoError(t, err)

	row, col, err := m.Decode("h12")
	require.NoError(t, err)
	assert.Equal(t, 7, row)
	assert.Equal(t, 11, col)
}
