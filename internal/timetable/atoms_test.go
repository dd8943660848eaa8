package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beeplan-api/internal/models"
)

func TestBuildAtomsExpandsWeeklyHours(t *testing.T) {
	courses := []models.Course{
		{ID: "CS201", Year: 2, Required: true, WeeklyTheoryHours: 2, WeeklyLabHours: 1, InstructorID: "i1", Program: models.ProgramCENG},
		{ID: "SE300", Year: 3, WeeklyTheoryHours: 0, WeeklyLabHours: 0, InstructorID: "i2", Program: models.ProgramSENG},
	}

	atoms := BuildAtoms(courses)
	require.Len(t, atoms, 3)

	theory, lab := 0, 0
	for _, atom := range atoms {
		assert.Equal(t, "CS201", atom.CourseID)
		assert.Equal(t, 2, atom.Year)
		assert.Equal(t, "i1", atom.InstructorID)
		switch atom.SessionType {
		case models.SessionTheory:
			theory++
		case models.SessionLab:
			lab++
		}
	}
	assert.Equal(t, 2, theory)
	assert.Equal(t, 1, lab)
}

func TestBuildAtomsAreDistinctVariables(t *testing.T) {
	courses := []models.Course{
		{ID: "CS201", Year: 2, WeeklyTheoryHours: 3, InstructorID: "i1", Program: models.ProgramCENG},
	}
	atoms := BuildAtoms(courses)
	require.Len(t, atoms, 3)

	seen := make(map[models.SessionAtom]struct{})
	for _, atom := range atoms {
		_, dup := seen[atom]
		assert.False(t, dup, "atoms of the same course must remain distinct map keys")
		seen[atom] = struct{}{}
	}
}
