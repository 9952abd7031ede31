package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchwise/labstock/internal/grid"
)

func testBox(t *testing.T, rows, cols int) *StorageBox {
	t.Helper()
	box, err := NewStorageBox("Plasmid Box 1", BoxLayout{
		Rows:       rows,
		Columns:    cols,
		LabelStyle: grid.StyleAlnum,
	}, BoxLocation{Freezer: "F1", Shelf: "2"})
	require.NoError(t, err)
	return box
}

func position(name string) MaterialPosition {
	return MaterialPosition{
		MaterialID:   1,
		MaterialName: name,
		MaterialType: TypePlasmid,
		Amount:       25,
		Unit:         "µg",
	}
}

func TestNewStorageBox_RejectsInvalidLayout(t *testing.T) {
	_, err := NewStorageBox("bad", BoxLayout{Rows: 0, Columns: 12, LabelStyle: grid.StyleAlnum}, BoxLocation{})
	assert.ErrorIs(t, err, grid.ErrInvalidLayout)

	_, err = NewStorageBox("bad", BoxLayout{Rows: 8, Columns: 12, LabelStyle: "hex"}, BoxLocation{})
	assert.ErrorIs(t, err, grid.ErrInvalidLayout)
}

func TestStorageBox_SetAndGetPosition(t *testing.T) {
	box := testBox(t, 8, 12)

	require.NoError(t, box.SetPosition("A1", position("pCMV-GFP")))

	mp := box.Position("A1")
	require.NotNil(t, mp)
	assert.Equal(t, "pCMV-GFP", mp.MaterialName)
	assert.False(t, mp.AddedAt.IsZero())

	assert.Nil(t, box.Position("A2"))
}

func TestStorageBox_SetPositionRejectsBadLabel(t *testing.T) {
	box := testBox(t, 8, 12)

	for _, label := range []string{"I1", "A13", "Z99", ""} {
		err := box.SetPosition(label, position("x"))
		assert.ErrorIs(t, err, grid.ErrLabelOutOfRange, "label %q", label)
	}
	assert.Empty(t, box.Positions)
}

func TestStorageBox_SetPositionIsLastWriteWins(t *testing.T) {
	box := testBox(t, 8, 12)

	require.NoError(t, box.SetPosition("B3", position("first")))
	require.NoError(t, box.SetPosition("B3", position("second")))

	mp := box.Position("B3")
	require.NotNil(t, mp)
	assert.Equal(t, "second", mp.MaterialName)
	assert.Equal(t, 1, box.Occupancy().Occupied)
}

func TestStorageBox_SetPositionIfVacant(t *testing.T) {
	box := testBox(t, 8, 12)

	require.NoError(t, box.SetPositionIfVacant("B3", position("first")))

	err := box.SetPositionIfVacant("B3", position("second"))
	assert.ErrorIs(t, err, ErrPositionOccupied)

	mp := box.Position("B3")
	require.NotNil(t, mp)
	assert.Equal(t, "first", mp.MaterialName)
}

func TestStorageBox_SetPositionBumpsUpdatedAt(t *testing.T) {
	box := testBox(t, 8, 12)
	box.UpdatedAt = time.Time{}

	require.NoError(t, box.SetPosition("A1", position("x")))
	assert.False(t, box.UpdatedAt.IsZero())
}

func TestStorageBox_RemovePosition(t *testing.T) {
	box := testBox(t, 8, 12)
	require.NoError(t, box.SetPosition("A1", position("x")))

	assert.True(t, box.RemovePosition("A1"))
	assert.Nil(t, box.Position("A1"))
	assert.False(t, box.RemovePosition("A1"))
	assert.False(t, box.RemovePosition("H12"))
}

func TestStorageBox_MovePosition(t *testing.T) {
	box := testBox(t, 8, 12)
	require.NoError(t, box.SetPosition("A1", position("mover")))
	require.NoError(t, box.SetPosition("A2", position("blocker")))

	// vacant target
	require.NoError(t, box.MovePosition("A1", "C5", false))
	assert.Nil(t, box.Position("A1"))
	require.NotNil(t, box.Position("C5"))
	assert.Equal(t, "mover", box.Position("C5").MaterialName)

	// occupied target without overwrite
	err := box.MovePosition("C5", "A2", false)
	assert.ErrorIs(t, err, ErrPositionOccupied)
	assert.Equal(t, "mover", box.Position("C5").MaterialName)

	// occupied target with overwrite
	require.NoError(t, box.MovePosition("C5", "A2", true))
	assert.Nil(t, box.Position("C5"))
	assert.Equal(t, "mover", box.Position("A2").MaterialName)

	// empty source
	err = box.MovePosition("D1", "D2", false)
	assert.Error(t, err)

	// target outside the layout
	err = box.MovePosition("A2", "Z99", false)
	assert.ErrorIs(t, err, grid.ErrLabelOutOfRange)
	assert.Equal(t, "mover", box.Position("A2").MaterialName)
}

func TestStorageBox_MoveToOwnCellKeepsOccupant(t *testing.T) {
	box := testBox(t, 8, 12)
	require.NoError(t, box.SetPosition("A1", position("keeper")))

	for _, overwrite := range []bool{false, true} {
		err := box.MovePosition("A1", "A1", overwrite)
		assert.Error(t, err, "overwrite=%v", overwrite)

		mp := box.Position("A1")
		require.NotNil(t, mp, "overwrite=%v", overwrite)
		assert.Equal(t, "keeper", mp.MaterialName)
		assert.Equal(t, 1, box.Occupancy().Occupied)
	}

	// same cell spelled differently is still a move onto itself
	err := box.MovePosition("A1", "a1", true)
	assert.Error(t, err)
	require.NotNil(t, box.Position("A1"))
}

func TestStorageBox_LabelsAreCanonicalized(t *testing.T) {
	box := testBox(t, 8, 12)

	// case variants address the same physical cell
	require.NoError(t, box.SetPosition("a1", position("first")))
	require.NoError(t, box.SetPosition("A1", position("second")))

	assert.Equal(t, 1, box.Occupancy().Occupied)
	require.NotNil(t, box.Position("a1"))
	assert.Equal(t, "second", box.Position("A1").MaterialName)

	// the stored key is the label the mapper produces
	_, ok := box.Positions["A1"]
	assert.True(t, ok)
	_, ok = box.Positions["a1"]
	assert.False(t, ok)

	err := box.SetPositionIfVacant("a1", position("third"))
	assert.ErrorIs(t, err, ErrPositionOccupied)

	assert.True(t, box.RemovePosition("a1"))
	assert.Nil(t, box.Position("A1"))

	canonical, err := box.CanonicalLabel("h12")
	require.NoError(t, err)
	assert.Equal(t, "H12", canonical)
	_, err = box.CanonicalLabel("Z99")
	assert.ErrorIs(t, err, grid.ErrLabelOutOfRange)
}

func TestStorageBox_NumericLabelsAreCanonicalized(t *testing.T) {
	box, err := NewStorageBox("Numeric Box", BoxLayout{
		Rows:       2,
		Columns:    3,
		LabelStyle: grid.StyleNumeric,
	}, BoxLocation{})
	require.NoError(t, err)

	// "01" and "+1" both decode to cell 1; the store keys on "1"
	require.NoError(t, box.SetPosition("01", position("first")))
	require.NoError(t, box.SetPosition("+1", position("second")))

	assert.Equal(t, 1, box.Occupancy().Occupied)
	require.NotNil(t, box.Position("1"))
	assert.Equal(t, "second", box.Position("1").MaterialName)

	_, ok := box.Positions["1"]
	assert.True(t, ok)
}

func TestStorageBox_Occupancy(t *testing.T) {
	box := testBox(t, 8, 12)

	occ := box.Occupancy()
	assert.Equal(t, 0, occ.Occupied)
	assert.Equal(t, 96, occ.Capacity)
	assert.Zero(t, occ.PercentFull)

	require.NoError(t, box.SetPosition("A1", position("a")))
	require.NoError(t, box.SetPosition("A2", position("b")))

	occ = box.Occupancy()
	assert.Equal(t, 2, occ.Occupied)
	assert.InDelta(t, 2.1, occ.PercentFull, 0.001)
}

func TestStorageBox_NextFreePositions(t *testing.T) {
	box := testBox(t, 2, 3)

	assert.Equal(t, []string{"A1", "A2", "A3"}, box.NextFreePositions(3))

	require.NoError(t, box.SetPosition("A2", position("x")))
	assert.Equal(t, []string{"A1", "A3", "B1"}, box.NextFreePositions(3))

	// asking for more than remain returns what is left
	assert.Len(t, box.NextFreePositions(10), 5)
}
