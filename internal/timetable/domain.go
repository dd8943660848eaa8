package timetable

import (
	"sort"

	"github.com/noah-isme/beeplan-api/internal/models"
)

// Candidate is one (slot, room) pair an atom may be assigned to.
type Candidate struct {
	Slot   models.TimeSlot
	RoomID string
}

// Domain is the candidate set of one atom under the unary constraints.
type Domain struct {
	Pairs []Candidate
}

// BuildDomains enumerates, for every atom, the (slot, room) pairs consistent
// with the unary constraints: the slot is not forbidden, the instructor is
// available, the room type matches the session type, and lab rooms do not
// exceed the lab capacity cap. Candidate order is deterministic: slot index
// ascending, then week-ordinal day, then room id.
func BuildDomains(cfg models.Config, atoms []models.SessionAtom) map[models.SessionAtom]Domain {
	roomsByType := map[models.SessionType][]models.Room{}
	for _, room := range cfg.Rooms {
		switch room.Type {
		case models.RoomTheory:
			roomsByType[models.SessionTheory] = append(roomsByType[models.SessionTheory], room)
		case models.RoomLab:
			if room.Capacity <= models.MaxLabRoomCapacity {
				roomsByType[models.SessionLab] = append(roomsByType[models.SessionLab], room)
			}
		}
	}
	for _, rooms := range roomsByType {
		sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	}

	availability := make(map[string]map[models.TimeSlot]struct{}, len(cfg.Instructors))
	for _, ins := range cfg.Instructors {
		slots := make(map[models.TimeSlot]struct{}, len(ins.Availability))
		for _, slot := range ins.Availability {
			slots[slot] = struct{}{}
		}
		availability[ins.ID] = slots
	}

	grid := ExpandGrid(cfg.Common)
	sort.Slice(grid, func(i, j int) bool {
		if grid[i].Index != grid[j].Index {
			return grid[i].Index < grid[j].Index
		}
		return grid[i].Day.Ordinal() < grid[j].Day.Ordinal()
	})

	domains := make(map[models.SessionAtom]Domain, len(atoms))
	for _, atom := range atoms {
		available := availability[atom.InstructorID]
		rooms := roomsByType[atom.SessionType]
		var pairs []Candidate
		for _, slot := range grid {
			if _, ok := available[slot]; !ok {
				continue
			}
			for _, room := range rooms {
				pairs = append(pairs, Candidate{Slot: slot, RoomID: room.ID})
			}
		}
		domains[atom] = Domain{Pairs: pairs}
	}
	return domains
}
