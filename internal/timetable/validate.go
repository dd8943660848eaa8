package timetable

import (
	"fmt"

	"github.com/noah-isme/beeplan-api/internal/models"
	appErrors "github.com/noah-isme/beeplan-api/pkg/errors"
)

// Validate checks referential integrity and domain validity of the
// configuration before any search begins. It returns an error describing the
// first offending field: CONSTRAINT_CONFIG for a negative daily theory cap,
// INVALID_INPUT for every other defect. It never mutates the input.
func Validate(cfg models.Config) error {
	if len(cfg.Common.Days) == 0 || cfg.Common.SlotsPerDay <= 0 {
		return appErrors.Clone(appErrors.ErrInvalidInput, "days and slots_per_day must be set")
	}
	for _, day := range cfg.Common.Days {
		if !day.Valid() {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown day %q in common schedule", day))
		}
	}

	valid := make(map[models.TimeSlot]struct{}, len(cfg.Common.Days)*cfg.Common.SlotsPerDay)
	for _, day := range cfg.Common.Days {
		for index := 1; index <= cfg.Common.SlotsPerDay; index++ {
			valid[models.TimeSlot{Day: day, Index: index}] = struct{}{}
		}
	}

	seenCourses := make(map[string]struct{}, len(cfg.Courses))
	for _, course := range cfg.Courses {
		if course.ID == "" || course.Year < 1 || course.Year > 4 {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("course %q has invalid id or year", course.Name))
		}
		if course.WeeklyTheoryHours < 0 || course.WeeklyLabHours < 0 {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("course %s has negative weekly hours", course.ID))
		}
		if course.InstructorID == "" {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("course %s has no instructor", course.ID))
		}
		if !course.Program.Valid() {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("course %s has unknown program %q", course.ID, course.Program))
		}
		if course.ExpectedStudents < 0 {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("course %s has negative expected students", course.ID))
		}
		if _, dup := seenCourses[course.ID]; dup {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("duplicate course id %s", course.ID))
		}
		seenCourses[course.ID] = struct{}{}
	}

	seenInstructors := make(map[string]struct{}, len(cfg.Instructors))
	for _, ins := range cfg.Instructors {
		if ins.ID == "" || ins.Name == "" {
			return appErrors.Clone(appErrors.ErrInvalidInput, "instructor missing id or name")
		}
		if len(ins.Availability) == 0 {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("instructor %s has empty availability", ins.ID))
		}
		for _, slot := range ins.Availability {
			if _, ok := valid[slot]; !ok {
				return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("instructor %s availability out of grid: %s-%d", ins.ID, slot.Day, slot.Index))
			}
		}
		if ins.MaxDailyTheoryHours < 0 {
			return appErrors.Clone(appErrors.ErrConstraintConfig, fmt.Sprintf("instructor %s has negative max daily theory hours", ins.ID))
		}
		if _, dup := seenInstructors[ins.ID]; dup {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("duplicate instructor id %s", ins.ID))
		}
		seenInstructors[ins.ID] = struct{}{}
	}

	seenRooms := make(map[string]struct{}, len(cfg.Rooms))
	for _, room := range cfg.Rooms {
		if room.ID == "" || room.Capacity <= 0 || !room.Type.Valid() {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("room %q has an invalid definition", room.ID))
		}
		if _, dup := seenRooms[room.ID]; dup {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("duplicate room id %s", room.ID))
		}
		seenRooms[room.ID] = struct{}{}
	}

	for _, course := range cfg.Courses {
		if _, ok := seenInstructors[course.InstructorID]; !ok {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("course %s references unknown instructor %s", course.ID, course.InstructorID))
		}
	}
	for _, slot := range cfg.Common.ForbiddenSlots {
		if _, ok := valid[slot]; !ok {
			return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("forbidden slot out of grid: %s-%d", slot.Day, slot.Index))
		}
	}
	return nil
}
