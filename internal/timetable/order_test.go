package timetable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beeplan-api/internal/models"
)

func TestOrderAtomsCompositePriority(t *testing.T) {
	courses := map[string]models.Course{
		"REQ-HEAVY": {ID: "REQ-HEAVY", Year: 2, Required: true, WeeklyTheoryHours: 3, WeeklyLabHours: 1},
		"REQ-LIGHT": {ID: "REQ-LIGHT", Year: 4, Required: true, WeeklyTheoryHours: 1},
		"ELECTIVE":  {ID: "ELECTIVE", Year: 3, Required: false, WeeklyTheoryHours: 4},
	}

	atoms := []models.SessionAtom{
		{CourseID: "ELECTIVE", SessionType: models.SessionTheory, Year: 3, Seq: 0},
		{CourseID: "REQ-LIGHT", SessionType: models.SessionTheory, Year: 4, Seq: 0},
		{CourseID: "REQ-HEAVY", SessionType: models.SessionTheory, Year: 2, Seq: 0},
		{CourseID: "REQ-HEAVY", SessionType: models.SessionLab, Year: 2, Seq: 0},
	}
	domains := map[models.SessionAtom]Domain{}
	for _, atom := range atoms {
		domains[atom] = Domain{}
	}

	ordered := OrderAtoms(atoms, domains, courses)

	// Required before elective; within required, heavier course first; within
	// a course, labs before theory.
	require.Equal(t, "REQ-HEAVY", ordered[0].CourseID)
	require.Equal(t, models.SessionLab, ordered[0].SessionType)
	require.Equal(t, "REQ-HEAVY", ordered[1].CourseID)
	require.Equal(t, models.SessionTheory, ordered[1].SessionType)
	require.Equal(t, "REQ-LIGHT", ordered[2].CourseID)
	require.Equal(t, "ELECTIVE", ordered[3].CourseID)
}

func TestOrderAtomsMRVBreaksTies(t *testing.T) {
	courses := map[string]models.Course{
		"A": {ID: "A", Year: 1, Required: true, WeeklyTheoryHours: 1},
		"B": {ID: "B", Year: 1, Required: true, WeeklyTheoryHours: 1},
	}
	atomA := models.SessionAtom{CourseID: "A", SessionType: models.SessionTheory, Year: 1}
	atomB := models.SessionAtom{CourseID: "B", SessionType: models.SessionTheory, Year: 1}

	domains := map[models.SessionAtom]Domain{
		atomA: {Pairs: make([]Candidate, 5)},
		atomB: {Pairs: make([]Candidate, 2)},
	}

	ordered := OrderAtoms([]models.SessionAtom{atomA, atomB}, domains, courses)
	require.Equal(t, "B", ordered[0].CourseID)
}

func TestOrderAtomsHigherYearFirstOnEqualDomains(t *testing.T) {
	courses := map[string]models.Course{
		"Y2": {ID: "Y2", Year: 2, Required: true, WeeklyTheoryHours: 1},
		"Y4": {ID: "Y4", Year: 4, Required: true, WeeklyTheoryHours: 1},
	}
	atom2 := models.SessionAtom{CourseID: "Y2", SessionType: models.SessionTheory, Year: 2}
	atom4 := models.SessionAtom{CourseID: "Y4", SessionType: models.SessionTheory, Year: 4}
	domains := map[models.SessionAtom]Domain{atom2: {}, atom4: {}}

	ordered := OrderAtoms([]models.SessionAtom{atom2, atom4}, domains, courses)
	require.Equal(t, "Y4", ordered[0].CourseID)
}

func TestOrderAtomsStableCourseIDTieBreak(t *testing.T) {
	courses := map[string]models.Course{
		"AAA": {ID: "AAA", Year: 1, Required: true, WeeklyTheoryHours: 1},
		"BBB": {ID: "BBB", Year: 1, Required: true, WeeklyTheoryHours: 1},
	}
	atomB := models.SessionAtom{CourseID: "BBB", SessionType: models.SessionTheory, Year: 1}
	atomA := models.SessionAtom{CourseID: "AAA", SessionType: models.SessionTheory, Year: 1}
	domains := map[models.SessionAtom]Domain{atomA: {}, atomB: {}}

	ordered := OrderAtoms([]models.SessionAtom{atomB, atomA}, domains, courses)
	require.Equal(t, "AAA", ordered[0].CourseID)
	require.Equal(t, "BBB", ordered[1].CourseID)
}
