package dto

import (
	"fmt"
	"strings"

	"github.com/noah-isme/beeplan-api/internal/models"
)

// TimeSlotRequest is a slot reference in transport shape.
type TimeSlotRequest struct {
	Day   string `json:"day" validate:"required"`
	Index int    `json:"index" validate:"required,min=1"`
}

// CommonScheduleRequest overrides the institution-wide grid. When omitted the
// canonical Mon..Fri grid with the Friday exam block applies.
type CommonScheduleRequest struct {
	Days           []string          `json:"days" validate:"required,min=1"`
	SlotsPerDay    int               `json:"slotsPerDay" validate:"required,min=1,max=16"`
	ForbiddenSlots []TimeSlotRequest `json:"forbiddenSlots" validate:"omitempty,dive"`
}

// CourseRequest is a course definition in transport shape.
type CourseRequest struct {
	ID                   string `json:"id" validate:"required"`
	Name                 string `json:"name"`
	Year                 int    `json:"year" validate:"required,min=1,max=4"`
	Required             bool   `json:"required"`
	WeeklyTheoryHours    int    `json:"weeklyTheoryHours" validate:"min=0"`
	WeeklyLabHours       int    `json:"weeklyLabHours" validate:"min=0"`
	InstructorID         string `json:"instructorId" validate:"required"`
	Program              string `json:"program" validate:"required,oneof=CENG SENG"`
	PreferConsecutiveLab bool   `json:"preferConsecutiveLab"`
	ExpectedStudents     int    `json:"expectedStudents" validate:"min=0"`
}

// InstructorRequest is an instructor definition in transport shape.
type InstructorRequest struct {
	ID                  string            `json:"id" validate:"required"`
	Name                string            `json:"name" validate:"required"`
	Availability        []TimeSlotRequest `json:"availability" validate:"required,min=1,dive"`
	MaxDailyTheoryHours int               `json:"maxDailyTheoryHours" validate:"min=0"`
}

// RoomRequest is a room definition in transport shape.
type RoomRequest struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	Type     string `json:"type" validate:"required,oneof=theory lab"`
}

// GenerateTimetableRequest carries the full configuration for one run.
type GenerateTimetableRequest struct {
	Common      *CommonScheduleRequest `json:"common" validate:"omitempty"`
	Courses     []CourseRequest        `json:"courses" validate:"required,min=1,dive"`
	Instructors []InstructorRequest    `json:"instructors" validate:"required,min=1,dive"`
	Rooms       []RoomRequest          `json:"rooms" validate:"required,min=1,dive"`
	StepLimit   int                    `json:"stepLimit" validate:"min=0"`
}

// GenerateTimetableResponse returns a generated proposal.
type GenerateTimetableResponse struct {
	ProposalID string             `json:"proposalId"`
	Complete   bool               `json:"complete"`
	Attempts   int                `json:"attempts"`
	Placements []models.Placement `json:"placements"`
	Violations []models.Violation `json:"violations"`
	Warnings   []string           `json:"warnings"`
}

// GridView is a slot-rows by day-columns rendering of a schedule subset.
type GridView struct {
	Days  []models.Day `json:"days"`
	Slots []int        `json:"slots"`
	Cells [][]string   `json:"cells"`
}

// TimetableViewsResponse groups per-cohort and per-instructor grids.
type TimetableViewsResponse struct {
	ProposalID   string              `json:"proposalId"`
	ByYear       map[string]GridView `json:"byYear"`
	ByInstructor map[string]GridView `json:"byInstructor"`
}

// SubmitJobResponse acknowledges an asynchronous generation request.
type SubmitJobResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// JobStatusResponse reports asynchronous generation progress.
type JobStatusResponse struct {
	JobID      string                     `json:"jobId"`
	Status     string                     `json:"status"`
	Error      string                     `json:"error,omitempty"`
	ProposalID string                     `json:"proposalId,omitempty"`
	Result     *GenerateTimetableResponse `json:"result,omitempty"`
}

var dayAliases = map[string]models.Day{
	"mon": models.Monday, "monday": models.Monday,
	"tue": models.Tuesday, "tuesday": models.Tuesday,
	"wed": models.Wednesday, "wednesday": models.Wednesday,
	"thu": models.Thursday, "thursday": models.Thursday,
	"fri": models.Friday, "friday": models.Friday,
}

// NormalizeDay maps a day name onto the canonical five-symbol set.
func NormalizeDay(raw string) (models.Day, bool) {
	day, ok := dayAliases[strings.ToLower(strings.TrimSpace(raw))]
	return day, ok
}

func (t TimeSlotRequest) toModel() (models.TimeSlot, error) {
	day, ok := NormalizeDay(t.Day)
	if !ok {
		return models.TimeSlot{}, fmt.Errorf("unknown day %q", t.Day)
	}
	return models.TimeSlot{Day: day, Index: t.Index}, nil
}

// ToConfig converts the transport payload into the core configuration,
// normalizing day names and applying the canonical grid when none is given.
func (r GenerateTimetableRequest) ToConfig(defaultCommon models.CommonSchedule) (models.Config, error) {
	cfg := models.Config{Common: defaultCommon}

	if r.Common != nil {
		common := models.CommonSchedule{SlotsPerDay: r.Common.SlotsPerDay}
		for _, raw := range r.Common.Days {
			day, ok := NormalizeDay(raw)
			if !ok {
				return models.Config{}, fmt.Errorf("unknown day %q in common schedule", raw)
			}
			common.Days = append(common.Days, day)
		}
		for _, slot := range r.Common.ForbiddenSlots {
			converted, err := slot.toModel()
			if err != nil {
				return models.Config{}, err
			}
			common.ForbiddenSlots = append(common.ForbiddenSlots, converted)
		}
		cfg.Common = common
	}

	for _, course := range r.Courses {
		cfg.Courses = append(cfg.Courses, models.Course{
			ID:                   course.ID,
			Name:                 course.Name,
			Year:                 course.Year,
			Required:             course.Required,
			WeeklyTheoryHours:    course.WeeklyTheoryHours,
			WeeklyLabHours:       course.WeeklyLabHours,
			InstructorID:         course.InstructorID,
			Program:              models.Program(course.Program),
			PreferConsecutiveLab: course.PreferConsecutiveLab,
			ExpectedStudents:     course.ExpectedStudents,
		})
	}
	for _, ins := range r.Instructors {
		converted := models.Instructor{
			ID:                  ins.ID,
			Name:                ins.Name,
			MaxDailyTheoryHours: ins.MaxDailyTheoryHours,
		}
		for _, slot := range ins.Availability {
			slotModel, err := slot.toModel()
			if err != nil {
				return models.Config{}, fmt.Errorf("instructor %s: %w", ins.ID, err)
			}
			converted.Availability = append(converted.Availability, slotModel)
		}
		cfg.Instructors = append(cfg.Instructors, converted)
	}
	for _, room := range r.Rooms {
		cfg.Rooms = append(cfg.Rooms, models.Room{
			ID:       room.ID,
			Name:     room.Name,
			Capacity: room.Capacity,
			Type:     models.RoomType(room.Type),
		})
	}
	return cfg, nil
}

// FromResult shapes a core result into the transport response.
func FromResult(proposalID string, result models.ScheduleResult) GenerateTimetableResponse {
	return GenerateTimetableResponse{
		ProposalID: proposalID,
		Complete:   result.Complete,
		Attempts:   result.Attempts,
		Placements: result.Schedule.Placements,
		Violations: result.Violations,
		Warnings:   result.Warnings,
	}
}
