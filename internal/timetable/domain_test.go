package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beeplan-api/internal/models"
)

func TestBuildDomainsHonorsUnaryConstraints(t *testing.T) {
	cfg := models.Config{
		Common: models.CommonSchedule{
			Days:           []models.Day{models.Monday},
			SlotsPerDay:    3,
			ForbiddenSlots: daySlots(models.Monday, 2),
		},
		Courses: []models.Course{{
			ID: "CS210", Year: 2, Required: true,
			WeeklyTheoryHours: 1, WeeklyLabHours: 1,
			InstructorID: "i1", Program: models.ProgramCENG,
		}},
		Instructors: []models.Instructor{{
			ID: "i1", Name: "Grace",
			Availability: daySlots(models.Monday, 1, 2, 3),
		}},
		Rooms: []models.Room{
			theoryRoom("T1", 60),
			labRoom("L1", 30),
			labRoom("L2", 80), // over the lab capacity cap, unusable for labs
		},
	}

	atoms := BuildAtoms(cfg.Courses)
	domains := BuildDomains(cfg, atoms)
	require.Len(t, domains, 2)

	for atom, domain := range domains {
		switch atom.SessionType {
		case models.SessionTheory:
			// Slots 1 and 3 (2 is forbidden) x one theory room.
			require.Len(t, domain.Pairs, 2)
			for _, pair := range domain.Pairs {
				assert.Equal(t, "T1", pair.RoomID)
				assert.NotEqual(t, 2, pair.Slot.Index)
			}
		case models.SessionLab:
			// Oversized lab room filtered out on unary grounds.
			require.Len(t, domain.Pairs, 2)
			for _, pair := range domain.Pairs {
				assert.Equal(t, "L1", pair.RoomID)
			}
		}
	}
}

func TestBuildDomainsRespectsInstructorAvailability(t *testing.T) {
	cfg := trivialConfig()
	atoms := BuildAtoms(cfg.Courses)
	domains := BuildDomains(cfg, atoms)

	require.Len(t, atoms, 1)
	domain := domains[atoms[0]]
	require.Len(t, domain.Pairs, 1)
	assert.Equal(t, models.TimeSlot{Day: models.Monday, Index: 1}, domain.Pairs[0].Slot)
}

func TestBuildDomainsCandidateOrderIsDeterministic(t *testing.T) {
	cfg := trivialConfig()
	cfg.Instructors[0].Availability = []models.TimeSlot{
		{Day: models.Tuesday, Index: 2},
		{Day: models.Monday, Index: 2},
		{Day: models.Tuesday, Index: 1},
		{Day: models.Monday, Index: 1},
	}
	cfg.Rooms = append(cfg.Rooms, theoryRoom("T0", 50))

	atoms := BuildAtoms(cfg.Courses)
	domain := BuildDomains(cfg, atoms)[atoms[0]]

	// Slot index ascending, then week order, then room id.
	require.Equal(t, []Candidate{
		{Slot: models.TimeSlot{Day: models.Monday, Index: 1}, RoomID: "T0"},
		{Slot: models.TimeSlot{Day: models.Monday, Index: 1}, RoomID: "T1"},
		{Slot: models.TimeSlot{Day: models.Tuesday, Index: 1}, RoomID: "T0"},
		{Slot: models.TimeSlot{Day: models.Tuesday, Index: 1}, RoomID: "T1"},
		{Slot: models.TimeSlot{Day: models.Monday, Index: 2}, RoomID: "T0"},
		{Slot: models.TimeSlot{Day: models.Monday, Index: 2}, RoomID: "T1"},
		{Slot: models.TimeSlot{Day: models.Tuesday, Index: 2}, RoomID: "T0"},
		{Slot: models.TimeSlot{Day: models.Tuesday, Index: 2}, RoomID: "T1"},
	}, domain.Pairs)
}

func TestEmptyDomainWhenNoUsableRoom(t *testing.T) {
	cfg := trivialConfig()
	cfg.Courses[0].WeeklyTheoryHours = 0
	cfg.Courses[0].WeeklyLabHours = 1
	// Only an oversized lab room exists.
	cfg.Rooms = []models.Room{labRoom("L9", 120)}

	atoms := BuildAtoms(cfg.Courses)
	domain := BuildDomains(cfg, atoms)[atoms[0]]
	assert.Empty(t, domain.Pairs)
}
