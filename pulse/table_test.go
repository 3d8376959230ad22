package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Set(t *testing.T) {
	var tbl Table
	assert.True(t, tbl.Set(0, 1, 2, 3))
	assert.True(t, tbl.Set(63, 4, 5, 6))
	assert.False(t, tbl.Set(64, 7, 8, 9))
	assert.False(t, tbl.Set(255, 7, 8, 9))

	snap := tbl.Snapshot()
	assert.Equal(t, Slot{Timestamp: 3, Sender: 1, Value: 2}, snap[0])
	assert.Equal(t, Slot{Timestamp: 6, Sender: 4, Value: 5}, snap[63])
	for i := 1; i < 63; i++ {
		assert.Equal(t, Slot{}, snap[i])
	}
}

func TestTable_SnapshotIsCopy(t *testing.T) {
	var tbl Table
	tbl.Set(1, 1, 1, 1)
	snap := tbl.Snapshot()
	snap[1].Value = 99

	s, ok := tbl.Slot(1)
	assert.True(t, ok)
	assert.Equal(t, uint8(1), s.Value)
}

func TestTable_OverwriteKeepsLatest(t *testing.T) {
	var tbl Table
	tbl.Set(7, 1, 10, 100)
	tbl.Set(7, 2, 20, 200)
	s, _ := tbl.Slot(7)
	assert.Equal(t, Slot{Timestamp: 200, Sender: 2, Value: 20}, s)
}
