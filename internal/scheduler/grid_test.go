package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDaySlotsCoversFullDay(t *testing.T) {
	slots := GenerateDaySlots()
	require.Len(t, slots, 48)

	assert.Equal(t, 0, slots[0].Start)
	assert.Equal(t, 30, slots[0].End)
	assert.Equal(t, 10, slots[0].CoreEnd)

	for i, slot := range slots {
		assert.Equal(t, i*30, slot.Start)
	}

	// the last slot wraps to midnight
	last := slots[47]
	assert.Equal(t, 1410, last.Start)
	assert.Equal(t, 0, last.End)
	assert.Equal(t, 1420, last.CoreEnd)
}

func TestGenerateDaySlotsReturnsFreshCatalog(t *testing.T) {
	a := GenerateDaySlots()
	b := GenerateDaySlots()
	a[0].Start = 99
	assert.Equal(t, 0, b[0].Start)
}
