package timetable

import (
	"sort"

	"github.com/noah-isme/beeplan-api/internal/models"
)

// OrderAtoms sorts the atoms once before search by the composite priority:
// required courses first, greater total weekly hours first, labs before
// theory, smaller domains first (MRV), higher year first, then course id,
// session type and sequence as stable tie-breaks.
func OrderAtoms(atoms []models.SessionAtom, domains map[models.SessionAtom]Domain, courses map[string]models.Course) []models.SessionAtom {
	ordered := make([]models.SessionAtom, len(atoms))
	copy(ordered, atoms)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		ca, cb := courses[a.CourseID], courses[b.CourseID]

		if ca.Required != cb.Required {
			return ca.Required
		}
		if ca.TotalWeeklyHours() != cb.TotalWeeklyHours() {
			return ca.TotalWeeklyHours() > cb.TotalWeeklyHours()
		}
		la, lb := a.SessionType == models.SessionLab, b.SessionType == models.SessionLab
		if la != lb {
			return la
		}
		da, db := len(domains[a].Pairs), len(domains[b].Pairs)
		if da != db {
			return da < db
		}
		if ca.Year != cb.Year {
			return ca.Year > cb.Year
		}
		if a.CourseID != b.CourseID {
			return a.CourseID < b.CourseID
		}
		if a.SessionType != b.SessionType {
			return a.SessionType == models.SessionLab
		}
		return a.Seq < b.Seq
	})
	return ordered
}
