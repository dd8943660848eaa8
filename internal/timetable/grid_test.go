package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beeplan-api/internal/models"
)

func TestDefaultCommonScheduleDerivesFridayExamBlock(t *testing.T) {
	common := DefaultCommonSchedule()

	assert.Equal(t, models.WeekDays, common.Days)
	assert.Equal(t, CanonicalSlotsPerDay, common.SlotsPerDay)
	// The 13:20-15:10 exam window overlaps the 13:30 and 14:30 teaching
	// slots, and only those.
	require.Equal(t, []models.TimeSlot{
		{Day: models.Friday, Index: 5},
		{Day: models.Friday, Index: 6},
	}, common.ForbiddenSlots)
}

func TestForbiddenSlotsInWindowIgnoresTouchingBoundaries(t *testing.T) {
	// Slot 4 ends exactly when the window opens; it must stay usable.
	window := SlotTime{Start: 13*60 + 20, End: 15*60 + 10}
	slots := ForbiddenSlotsInWindow(models.Friday, window, CanonicalSlotsPerDay)

	for _, slot := range slots {
		assert.NotEqual(t, 4, slot.Index)
		assert.NotEqual(t, 7, slot.Index)
	}
	assert.Len(t, slots, 2)
}

func TestExpandGridExcludesForbiddenSlots(t *testing.T) {
	common := DefaultCommonSchedule()
	grid := ExpandGrid(common)

	assert.Len(t, grid, 5*8-2)
	for _, slot := range grid {
		if slot.Day == models.Friday {
			assert.NotContains(t, []int{5, 6}, slot.Index)
		}
	}
}

func TestExpandGridDeterministicOrder(t *testing.T) {
	common := models.CommonSchedule{
		Days:        []models.Day{models.Monday, models.Tuesday},
		SlotsPerDay: 2,
	}
	grid := ExpandGrid(common)
	require.Equal(t, []models.TimeSlot{
		{Day: models.Monday, Index: 1},
		{Day: models.Monday, Index: 2},
		{Day: models.Tuesday, Index: 1},
		{Day: models.Tuesday, Index: 2},
	}, grid)
}

func TestSlotTimeFor(t *testing.T) {
	st, ok := SlotTimeFor(1)
	require.True(t, ok)
	assert.Equal(t, 9*60+30, st.Start)

	_, ok = SlotTimeFor(9)
	assert.False(t, ok)
}
