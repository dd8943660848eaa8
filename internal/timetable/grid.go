package timetable

import (
	"github.com/noah-isme/beeplan-api/internal/models"
)

// SlotTime is a wall-clock window for one intra-day slot, in minutes from
// midnight.
type SlotTime struct {
	Start int
	End   int
}

// CanonicalSlotsPerDay is the default intra-day slot count.
const CanonicalSlotsPerDay = 8

// canonicalSlotTimes maps slot index 1..8 to its teaching window
// (09:30-10:20 through 16:30-17:20, ten-minute breaks in between).
var canonicalSlotTimes = map[int]SlotTime{
	1: {Start: 9*60 + 30, End: 10*60 + 20},
	2: {Start: 10*60 + 30, End: 11*60 + 20},
	3: {Start: 11*60 + 30, End: 12*60 + 20},
	4: {Start: 12*60 + 30, End: 13*60 + 20},
	5: {Start: 13*60 + 30, End: 14*60 + 20},
	6: {Start: 14*60 + 30, End: 15*60 + 20},
	7: {Start: 15*60 + 30, End: 16*60 + 20},
	8: {Start: 16*60 + 30, End: 17*60 + 20},
}

// fridayExamWindow is the institution-wide Friday exam block, 13:20-15:10.
var fridayExamWindow = SlotTime{Start: 13*60 + 20, End: 15*60 + 10}

// SlotTimeFor returns the canonical wall-clock window for a slot index.
func SlotTimeFor(index int) (SlotTime, bool) {
	st, ok := canonicalSlotTimes[index]
	return st, ok
}

// ForbiddenSlotsInWindow derives the slot indices whose teaching window
// overlaps the given wall-clock interval. Forbidden slots come from an
// explicit time-of-day interval rather than hard-coded indices.
func ForbiddenSlotsInWindow(day models.Day, window SlotTime, slotsPerDay int) []models.TimeSlot {
	var out []models.TimeSlot
	for index := 1; index <= slotsPerDay; index++ {
		st, ok := canonicalSlotTimes[index]
		if !ok {
			continue
		}
		if st.Start < window.End && window.Start < st.End {
			out = append(out, models.TimeSlot{Day: day, Index: index})
		}
	}
	return out
}

// DefaultCommonSchedule builds the canonical Mon..Fri grid with eight slots
// per day and the Friday exam block forbidden.
func DefaultCommonSchedule() models.CommonSchedule {
	days := make([]models.Day, len(models.WeekDays))
	copy(days, models.WeekDays)
	return models.CommonSchedule{
		Days:           days,
		SlotsPerDay:    CanonicalSlotsPerDay,
		ForbiddenSlots: ForbiddenSlotsInWindow(models.Friday, fridayExamWindow, CanonicalSlotsPerDay),
	}
}

// ExpandGrid materialises the permissible slots: days x {1..slots_per_day}
// minus the forbidden pairs, in deterministic (day, index) order.
func ExpandGrid(common models.CommonSchedule) []models.TimeSlot {
	forbidden := forbiddenSet(common)
	out := make([]models.TimeSlot, 0, len(common.Days)*common.SlotsPerDay)
	for _, day := range common.Days {
		for index := 1; index <= common.SlotsPerDay; index++ {
			slot := models.TimeSlot{Day: day, Index: index}
			if _, bad := forbidden[slot]; bad {
				continue
			}
			out = append(out, slot)
		}
	}
	return out
}

func forbiddenSet(common models.CommonSchedule) map[models.TimeSlot]struct{} {
	out := make(map[models.TimeSlot]struct{}, len(common.ForbiddenSlots))
	for _, slot := range common.ForbiddenSlots {
		out[slot] = struct{}{}
	}
	return out
}
