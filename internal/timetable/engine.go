package timetable

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/beeplan-api/internal/models"
	appErrors "github.com/noah-isme/beeplan-api/pkg/errors"
)

// DefaultStepLimit bounds the search when the caller does not override it.
const DefaultStepLimit = 300000

// Options tunes a single generation run.
type Options struct {
	// StepLimit caps the number of recursive placement calls. Zero means
	// DefaultStepLimit; negative values are rejected as CONSTRAINT_CONFIG.
	StepLimit int
	Logger    *zap.Logger
}

// Generate runs the full scheduling pipeline: validation, atomization,
// domain construction, ordered backtracking search with incremental pruning,
// and final violation collection. Infeasibility is not an error: the result
// carries Complete=false and the violations that explain it. The context
// cancels the search with the same semantics as step-limit exhaustion.
func Generate(ctx context.Context, cfg models.Config, opts Options) (result *models.ScheduleResult, err error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if opts.StepLimit < 0 {
		return nil, appErrors.Clone(appErrors.ErrConstraintConfig, "step limit must not be negative")
	}
	stepLimit := opts.StepLimit
	if stepLimit == 0 {
		stepLimit = DefaultStepLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = appErrors.Wrap(fmt.Errorf("%v", r), appErrors.ErrSchedulingFailure.Code, appErrors.ErrSchedulingFailure.Status, "unexpected failure during search")
		}
	}()

	s := newSearcher(ctx, cfg, stepLimit)
	reachedLeaf := s.place(0)
	schedule := s.bestSchedule(reachedLeaf)

	violations := CollectViolations(schedule, cfg)
	hard := false
	var warnings []string
	for _, v := range violations {
		switch v.Severity {
		case models.SeverityHard:
			hard = true
		case models.SeveritySoft:
			warnings = append(warnings, v.Message)
		}
	}
	complete := reachedLeaf && !hard

	logger.Debug("timetable generation finished",
		zap.Int("atoms", len(s.atoms)),
		zap.Int("placements", len(schedule.Placements)),
		zap.Int("attempts", s.attempts),
		zap.Bool("complete", complete),
	)

	return &models.ScheduleResult{
		Schedule:   schedule,
		Violations: violations,
		Warnings:   warnings,
		Attempts:   s.attempts,
		Complete:   complete,
	}, nil
}

// occupancyKey keys the O(1) busy indices by (id, slot).
type occupancyKey struct {
	ID   string
	Slot models.TimeSlot
}

type searcher struct {
	ctx context.Context

	courses     map[string]models.Course
	instructors map[string]models.Instructor
	forbidden   map[models.TimeSlot]struct{}

	atoms   []models.SessionAtom
	domains map[models.SessionAtom]Domain

	placements     []models.Placement
	roomBusy       map[occupancyKey]struct{}
	instructorBusy map[occupancyKey]struct{}

	attempts  int
	stepLimit int
	exhausted bool

	// Deepest prefix seen so far; reported when the search does not reach a
	// leaf so callers still get the best partial schedule.
	best []models.Placement
}

func newSearcher(ctx context.Context, cfg models.Config, stepLimit int) *searcher {
	atoms := BuildAtoms(cfg.Courses)
	domains := BuildDomains(cfg, atoms)
	courses := cfg.CoursesByID()

	return &searcher{
		ctx:            ctx,
		courses:        courses,
		instructors:    cfg.InstructorsByID(),
		forbidden:      forbiddenSet(cfg.Common),
		atoms:          OrderAtoms(atoms, domains, courses),
		domains:        domains,
		roomBusy:       make(map[occupancyKey]struct{}),
		instructorBusy: make(map[occupancyKey]struct{}),
		stepLimit:      stepLimit,
	}
}

// place assigns atoms[idx..] recursively. Returns true when every atom below
// has a placement; false on a dead end, step exhaustion or cancellation.
func (s *searcher) place(idx int) bool {
	s.attempts++
	if s.attempts > s.stepLimit || s.ctx.Err() != nil {
		s.exhausted = true
		return false
	}
	if idx == len(s.atoms) {
		return true
	}
	if idx > len(s.best) {
		s.best = append(s.best[:0], s.placements...)
	}

	atom := s.atoms[idx]
	for _, cand := range s.domains[atom].Pairs {
		roomKey := occupancyKey{ID: cand.RoomID, Slot: cand.Slot}
		insKey := occupancyKey{ID: atom.InstructorID, Slot: cand.Slot}
		if _, busy := s.roomBusy[roomKey]; busy {
			continue
		}
		if _, busy := s.instructorBusy[insKey]; busy {
			continue
		}

		s.placements = append(s.placements, models.Placement{Atom: atom, Slot: cand.Slot, RoomID: cand.RoomID})
		s.roomBusy[roomKey] = struct{}{}
		s.instructorBusy[insKey] = struct{}{}

		if !s.hasHardViolation() && s.place(idx+1) {
			return true
		}

		s.placements = s.placements[:len(s.placements)-1]
		delete(s.roomBusy, roomKey)
		delete(s.instructorBusy, insKey)

		if s.exhausted {
			return false
		}
	}
	return false
}

// bestSchedule returns the final placements on success, otherwise the
// deepest prefix reached before the search gave up.
func (s *searcher) bestSchedule(reachedLeaf bool) models.Schedule {
	if reachedLeaf || len(s.placements) >= len(s.best) {
		return models.Schedule{Placements: append([]models.Placement(nil), s.placements...)}
	}
	return models.Schedule{Placements: append([]models.Placement(nil), s.best...)}
}

// hasHardViolation rejects the current partial schedule as soon as a hard
// rule is provably broken. The occupancy indices already exclude room and
// instructor double-booking; the checks here defend those invariants and add
// the rules the indices cannot see.
func (s *searcher) hasHardViolation() bool {
	type slotState struct {
		rooms       map[string]struct{}
		instructors map[string]struct{}
		years       map[int]struct{}
		hasY3Req    bool
		hasElective bool
		electives   map[models.Program]struct{}
	}

	bySlot := make(map[models.TimeSlot]*slotState)
	theoryPerDay := make(map[occupancyKey]int)
	earliestTheory := make(map[string]models.TimeSlot)
	earliestLab := make(map[string]models.TimeSlot)

	for _, p := range s.placements {
		if _, bad := s.forbidden[p.Slot]; bad {
			return true
		}

		st := bySlot[p.Slot]
		if st == nil {
			st = &slotState{
				rooms:       make(map[string]struct{}),
				instructors: make(map[string]struct{}),
				years:       make(map[int]struct{}),
				electives:   make(map[models.Program]struct{}),
			}
			bySlot[p.Slot] = st
		}
		if _, dup := st.rooms[p.RoomID]; dup {
			return true
		}
		st.rooms[p.RoomID] = struct{}{}
		if _, dup := st.instructors[p.Atom.InstructorID]; dup {
			return true
		}
		st.instructors[p.Atom.InstructorID] = struct{}{}

		course := s.courses[p.Atom.CourseID]
		if _, dup := st.years[course.Year]; dup {
			return true
		}
		st.years[course.Year] = struct{}{}

		if course.Required && course.Year == 3 {
			st.hasY3Req = true
		}
		if !course.Required {
			st.hasElective = true
			st.electives[course.Program] = struct{}{}
		}
		if st.hasY3Req && st.hasElective {
			return true
		}
		if _, ceng := st.electives[models.ProgramCENG]; ceng {
			if _, seng := st.electives[models.ProgramSENG]; seng {
				return true
			}
		}

		if p.Atom.SessionType == models.SessionTheory {
			key := occupancyKey{ID: p.Atom.InstructorID, Slot: models.TimeSlot{Day: p.Slot.Day}}
			theoryPerDay[key]++
			if theoryPerDay[key] > s.instructors[p.Atom.InstructorID].EffectiveMaxDailyTheoryHours() {
				return true
			}
			if cur, ok := earliestTheory[p.Atom.CourseID]; !ok || p.Slot.Before(cur) {
				earliestTheory[p.Atom.CourseID] = p.Slot
			}
		} else {
			if cur, ok := earliestLab[p.Atom.CourseID]; !ok || p.Slot.Before(cur) {
				earliestLab[p.Atom.CourseID] = p.Slot
			}
		}
	}

	// Lab-after-theory, weakened for partial schedules: only reject once both
	// kinds are placed for the course and the earliest lab does not strictly
	// follow the earliest theory by (day ordinal, slot index). Courses whose
	// labs land before any theory is placed may still recover; the final
	// evaluator enforces the strict rule on the complete schedule.
	for courseID, lab := range earliestLab {
		theory, ok := earliestTheory[courseID]
		if !ok {
			continue
		}
		if !theory.Before(lab) {
			return true
		}
	}
	return false
}
