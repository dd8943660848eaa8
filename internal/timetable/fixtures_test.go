package timetable

import (
	"github.com/noah-isme/beeplan-api/internal/models"
)

// allWeekAvailability enumerates every slot of the canonical grid, including
// forbidden ones; the domain builder is responsible for excluding those.
func allWeekAvailability() []models.TimeSlot {
	var out []models.TimeSlot
	for _, day := range models.WeekDays {
		for index := 1; index <= CanonicalSlotsPerDay; index++ {
			out = append(out, models.TimeSlot{Day: day, Index: index})
		}
	}
	return out
}

func daySlots(day models.Day, indices ...int) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(indices))
	for _, index := range indices {
		out = append(out, models.TimeSlot{Day: day, Index: index})
	}
	return out
}

func theoryRoom(id string, capacity int) models.Room {
	return models.Room{ID: id, Name: id, Capacity: capacity, Type: models.RoomTheory}
}

func labRoom(id string, capacity int) models.Room {
	return models.Room{ID: id, Name: id, Capacity: capacity, Type: models.RoomLab}
}

func trivialConfig() models.Config {
	return models.Config{
		Common: DefaultCommonSchedule(),
		Courses: []models.Course{{
			ID:                "CS101",
			Name:              "Intro to Computing",
			Year:              1,
			Required:          true,
			WeeklyTheoryHours: 1,
			InstructorID:      "ins-1",
			Program:           models.ProgramCENG,
			ExpectedStudents:  20,
		}},
		Instructors: []models.Instructor{{
			ID:           "ins-1",
			Name:         "Ada",
			Availability: daySlots(models.Monday, 1),
		}},
		Rooms: []models.Room{theoryRoom("T1", 30)},
	}
}
