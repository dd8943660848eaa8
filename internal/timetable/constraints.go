package timetable

import (
	"fmt"
	"sort"

	"github.com/noah-isme/beeplan-api/internal/models"
)

// CollectViolations evaluates the full constraint taxonomy against a final
// (possibly partial) schedule. It is pure and deterministic: identical inputs
// produce an identical violation list, making it the ground-truth oracle the
// search and the tests both rely on.
func CollectViolations(schedule models.Schedule, cfg models.Config) []models.Violation {
	courses := cfg.CoursesByID()
	instructors := cfg.InstructorsByID()
	rooms := cfg.RoomsByID()

	var out []models.Violation
	out = append(out, forbiddenSlotViolations(schedule, cfg.Common)...)
	out = append(out, roomViolations(schedule, courses, rooms)...)
	out = append(out, instructorViolations(schedule, instructors)...)
	out = append(out, labAfterTheoryViolations(schedule)...)
	out = append(out, cohortViolations(schedule, courses)...)
	out = append(out, consecutiveLabViolations(schedule, courses)...)
	out = append(out, unplacedViolations(schedule, cfg.Courses)...)
	return out
}

func forbiddenSlotViolations(schedule models.Schedule, common models.CommonSchedule) []models.Violation {
	forbidden := forbiddenSet(common)
	var out []models.Violation
	for _, p := range schedule.Placements {
		if _, bad := forbidden[p.Slot]; !bad {
			continue
		}
		slot := p.Slot
		out = append(out, models.Violation{
			Kind:      models.ViolationForbiddenSlot,
			Message:   fmt.Sprintf("%s scheduled in forbidden slot %s-%d", p.Atom.CourseID, p.Slot.Day, p.Slot.Index),
			Severity:  models.SeverityHard,
			Slot:      &slot,
			CourseIDs: []string{p.Atom.CourseID},
			RoomID:    p.RoomID,
		})
	}
	return out
}

func roomViolations(schedule models.Schedule, courses map[string]models.Course, rooms map[string]models.Room) []models.Violation {
	var out []models.Violation
	for _, p := range schedule.Placements {
		room, ok := rooms[p.RoomID]
		if !ok {
			continue
		}
		course := courses[p.Atom.CourseID]
		slot := p.Slot

		if p.Atom.SessionType == models.SessionLab {
			if room.Type != models.RoomLab {
				out = append(out, models.Violation{
					Kind:      models.ViolationRoomType,
					Message:   fmt.Sprintf("lab session of %s in non-lab room %s", course.ID, room.Name),
					Severity:  models.SeverityHard,
					Slot:      &slot,
					CourseIDs: []string{course.ID},
					RoomID:    room.ID,
				})
			}
			if room.Capacity > models.MaxLabRoomCapacity {
				out = append(out, models.Violation{
					Kind:      models.ViolationLabCapacity,
					Message:   fmt.Sprintf("lab room %s exceeds capacity cap (%d > %d)", room.Name, room.Capacity, models.MaxLabRoomCapacity),
					Severity:  models.SeverityHard,
					Slot:      &slot,
					CourseIDs: []string{course.ID},
					RoomID:    room.ID,
				})
			}
			continue
		}

		if room.Type != models.RoomTheory {
			out = append(out, models.Violation{
				Kind:      models.ViolationRoomType,
				Message:   fmt.Sprintf("theory session of %s in lab room %s", course.ID, room.Name),
				Severity:  models.SeverityHard,
				Slot:      &slot,
				CourseIDs: []string{course.ID},
				RoomID:    room.ID,
			})
		}
		if course.ExpectedStudents > 0 && room.Capacity < course.ExpectedStudents {
			out = append(out, models.Violation{
				Kind:      models.ViolationRoomCapacity,
				Message:   fmt.Sprintf("room %s capacity %d below expected %d for %s", room.Name, room.Capacity, course.ExpectedStudents, course.ID),
				Severity:  models.SeverityHard,
				Slot:      &slot,
				CourseIDs: []string{course.ID},
				RoomID:    room.ID,
			})
		}
	}
	return out
}

func instructorViolations(schedule models.Schedule, instructors map[string]models.Instructor) []models.Violation {
	type insSlot struct {
		ID   string
		Slot models.TimeSlot
	}
	type insDay struct {
		ID  string
		Day models.Day
	}

	overlapping := make(map[insSlot][]string)
	dailyTheory := make(map[insDay]int)
	var slotKeys []insSlot
	var dayKeys []insDay

	for _, p := range schedule.Placements {
		sk := insSlot{ID: p.Atom.InstructorID, Slot: p.Slot}
		if _, seen := overlapping[sk]; !seen {
			slotKeys = append(slotKeys, sk)
		}
		overlapping[sk] = append(overlapping[sk], p.Atom.CourseID)

		if p.Atom.SessionType == models.SessionTheory {
			dk := insDay{ID: p.Atom.InstructorID, Day: p.Slot.Day}
			if _, seen := dailyTheory[dk]; !seen {
				dayKeys = append(dayKeys, dk)
			}
			dailyTheory[dk]++
		}
	}

	var out []models.Violation
	for _, sk := range slotKeys {
		courseIDs := overlapping[sk]
		if len(courseIDs) < 2 {
			continue
		}
		slot := sk.Slot
		out = append(out, models.Violation{
			Kind:         models.ViolationInstructorOverlap,
			Message:      fmt.Sprintf("instructor %s overlap at %s-%d", sk.ID, sk.Slot.Day, sk.Slot.Index),
			Severity:     models.SeverityHard,
			Slot:         &slot,
			CourseIDs:    courseIDs,
			InstructorID: sk.ID,
		})
	}
	for _, dk := range dayKeys {
		limit := instructors[dk.ID].EffectiveMaxDailyTheoryHours()
		hours := dailyTheory[dk]
		if hours <= limit {
			continue
		}
		out = append(out, models.Violation{
			Kind:         models.ViolationInstructorTheoryCap,
			Message:      fmt.Sprintf("instructor %s exceeds %d theory hours on %s (%d)", dk.ID, limit, dk.Day, hours),
			Severity:     models.SeverityHard,
			InstructorID: dk.ID,
		})
	}
	return out
}

// labAfterTheoryViolations enforces the strict week-wide ordering: for any
// course with lab placements, a theory placement must exist and the earliest
// lab must strictly follow the earliest theory by (day ordinal, slot index).
func labAfterTheoryViolations(schedule models.Schedule) []models.Violation {
	earliestTheory := make(map[string]models.TimeSlot)
	earliestLab := make(map[string]models.TimeSlot)
	var labCourses []string

	for _, p := range schedule.Placements {
		switch p.Atom.SessionType {
		case models.SessionTheory:
			if cur, ok := earliestTheory[p.Atom.CourseID]; !ok || p.Slot.Before(cur) {
				earliestTheory[p.Atom.CourseID] = p.Slot
			}
		case models.SessionLab:
			if cur, ok := earliestLab[p.Atom.CourseID]; !ok {
				labCourses = append(labCourses, p.Atom.CourseID)
				earliestLab[p.Atom.CourseID] = p.Slot
			} else if p.Slot.Before(cur) {
				earliestLab[p.Atom.CourseID] = p.Slot
			}
		}
	}

	var out []models.Violation
	for _, courseID := range labCourses {
		lab := earliestLab[courseID]
		theory, ok := earliestTheory[courseID]
		if ok && theory.Before(lab) {
			continue
		}
		out = append(out, models.Violation{
			Kind:      models.ViolationLabAfterTheory,
			Message:   fmt.Sprintf("lab scheduled before theory for %s", courseID),
			Severity:  models.SeverityHard,
			CourseIDs: []string{courseID},
		})
	}
	return out
}

func cohortViolations(schedule models.Schedule, courses map[string]models.Course) []models.Violation {
	bySlot := schedule.BySlot()
	slots := make([]models.TimeSlot, 0, len(bySlot))
	for slot := range bySlot {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })

	var out []models.Violation
	for _, slot := range slots {
		placements := bySlot[slot]
		if len(placements) < 2 {
			continue
		}
		slot := slot
		courseIDs := make([]string, 0, len(placements))
		years := make(map[int]int)
		hasY3Required := false
		hasElective := false
		electivePrograms := make(map[models.Program]struct{})

		for _, p := range placements {
			course := courses[p.Atom.CourseID]
			courseIDs = append(courseIDs, course.ID)
			years[course.Year]++
			if course.Required && course.Year == 3 {
				hasY3Required = true
			}
			if !course.Required {
				hasElective = true
				electivePrograms[course.Program] = struct{}{}
			}
		}

		duplicateYear := false
		for _, count := range years {
			if count > 1 {
				duplicateYear = true
			}
		}
		if duplicateYear {
			out = append(out, models.Violation{
				Kind:      models.ViolationYearOverlap,
				Message:   fmt.Sprintf("same-year overlap at %s-%d", slot.Day, slot.Index),
				Severity:  models.SeverityHard,
				Slot:      &slot,
				CourseIDs: courseIDs,
			})
		}
		if hasY3Required && hasElective {
			out = append(out, models.Violation{
				Kind:      models.ViolationY3VsElectives,
				Message:   fmt.Sprintf("third-year required courses overlap with electives at %s-%d", slot.Day, slot.Index),
				Severity:  models.SeverityHard,
				Slot:      &slot,
				CourseIDs: courseIDs,
			})
		}
		_, ceng := electivePrograms[models.ProgramCENG]
		_, seng := electivePrograms[models.ProgramSENG]
		if ceng && seng {
			out = append(out, models.Violation{
				Kind:      models.ViolationProgramElectiveOverlap,
				Message:   fmt.Sprintf("CENG and SENG electives overlap at %s-%d", slot.Day, slot.Index),
				Severity:  models.SeverityHard,
				Slot:      &slot,
				CourseIDs: courseIDs,
			})
		}
	}
	return out
}

// consecutiveLabViolations flags the soft preference: a course asking for
// consecutive labs should have its lab hours as one contiguous run on a
// single day.
func consecutiveLabViolations(schedule models.Schedule, courses map[string]models.Course) []models.Violation {
	labSlots := make(map[string][]models.TimeSlot)
	var order []string
	for _, p := range schedule.Placements {
		if p.Atom.SessionType != models.SessionLab {
			continue
		}
		if _, seen := labSlots[p.Atom.CourseID]; !seen {
			order = append(order, p.Atom.CourseID)
		}
		labSlots[p.Atom.CourseID] = append(labSlots[p.Atom.CourseID], p.Slot)
	}

	var out []models.Violation
	for _, courseID := range order {
		course := courses[courseID]
		slots := labSlots[courseID]
		if !course.PreferConsecutiveLab || len(slots) < 2 {
			continue
		}
		sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
		contiguous := true
		for i := 0; i < len(slots)-1; i++ {
			if slots[i+1].Day != slots[i].Day || slots[i+1].Index != slots[i].Index+1 {
				contiguous = false
				break
			}
		}
		if contiguous {
			continue
		}
		out = append(out, models.Violation{
			Kind:      models.ViolationLabNonConsecutive,
			Message:   fmt.Sprintf("lab hours not consecutive for %s", courseID),
			Severity:  models.SeveritySoft,
			CourseIDs: []string{courseID},
		})
	}
	return out
}

func unplacedViolations(schedule models.Schedule, courses []models.Course) []models.Violation {
	placed := make(map[string]int)
	for _, p := range schedule.Placements {
		placed[p.Atom.CourseID]++
	}

	var out []models.Violation
	for _, course := range courses {
		missing := course.TotalWeeklyHours() - placed[course.ID]
		if missing <= 0 {
			continue
		}
		out = append(out, models.Violation{
			Kind:      models.ViolationUnplaced,
			Message:   fmt.Sprintf("%d of %d weekly hours unplaced for %s", missing, course.TotalWeeklyHours(), course.ID),
			Severity:  models.SeverityHard,
			CourseIDs: []string{course.ID},
		})
	}
	return out
}
