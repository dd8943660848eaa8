package timetable

import (
	"github.com/noah-isme/beeplan-api/internal/models"
)

// BuildAtoms expands every course into one atom per required weekly hour.
// Theory atoms come before lab atoms for a course; Seq numbers atoms within
// the same (course, session type) so each is a distinct search variable.
func BuildAtoms(courses []models.Course) []models.SessionAtom {
	var atoms []models.SessionAtom
	for _, course := range courses {
		for seq := 0; seq < course.WeeklyTheoryHours; seq++ {
			atoms = append(atoms, models.SessionAtom{
				CourseID:     course.ID,
				SessionType:  models.SessionTheory,
				Year:         course.Year,
				Program:      course.Program,
				InstructorID: course.InstructorID,
				Seq:          seq,
			})
		}
		for seq := 0; seq < course.WeeklyLabHours; seq++ {
			atoms = append(atoms, models.SessionAtom{
				CourseID:     course.ID,
				SessionType:  models.SessionLab,
				Year:         course.Year,
				Program:      course.Program,
				InstructorID: course.InstructorID,
				Seq:          seq,
			})
		}
	}
	return atoms
}
