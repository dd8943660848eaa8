package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beeplan-api/internal/models"
	appErrors "github.com/noah-isme/beeplan-api/pkg/errors"
)

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := trivialConfig()
	require.NoError(t, Validate(cfg))
	// A validated config, re-validated, succeeds.
	require.NoError(t, Validate(cfg))
}

func TestValidateRejections(t *testing.T) {
	base := trivialConfig()

	tests := []struct {
		name   string
		mutate func(cfg *models.Config)
		code   string
	}{
		{
			name:   "empty days",
			mutate: func(cfg *models.Config) { cfg.Common.Days = nil },
			code:   appErrors.ErrInvalidInput.Code,
		},
		{
			name:   "nonpositive slots per day",
			mutate: func(cfg *models.Config) { cfg.Common.SlotsPerDay = 0 },
			code:   appErrors.ErrInvalidInput.Code,
		},
		{
			name:   "unknown day symbol",
			mutate: func(cfg *models.Config) { cfg.Common.Days = []models.Day{"Sat"} },
			code:   appErrors.ErrInvalidInput.Code,
		},
		{
			name: "course year out of range",
			mutate: func(cfg *models.Config) {
				cfg.Courses[0].Year = 5
			},
			code: appErrors.ErrInvalidInput.Code,
		},
		{
			name: "negative weekly hours",
			mutate: func(cfg *models.Config) {
				cfg.Courses[0].WeeklyLabHours = -1
			},
			code: appErrors.ErrInvalidInput.Code,
		},
		{
			name: "duplicate course id",
			mutate: func(cfg *models.Config) {
				cfg.Courses = append(cfg.Courses, cfg.Courses[0])
			},
			code: appErrors.ErrInvalidInput.Code,
		},
		{
			name: "unknown program",
			mutate: func(cfg *models.Config) {
				cfg.Courses[0].Program = "EENG"
			},
			code: appErrors.ErrInvalidInput.Code,
		},
		{
			name: "empty availability",
			mutate: func(cfg *models.Config) {
				cfg.Instructors[0].Availability = nil
			},
			code: appErrors.ErrInvalidInput.Code,
		},
		{
			name: "availability out of grid",
			mutate: func(cfg *models.Config) {
				cfg.Instructors[0].Availability = daySlots(models.Monday, 9)
			},
			code: appErrors.ErrInvalidInput.Code,
		},
		{
			name: "duplicate instructor id",
			mutate: func(cfg *models.Config) {
				cfg.Instructors = append(cfg.Instructors, cfg.Instructors[0])
			},
			code: appErrors.ErrInvalidInput.Code,
		},
		{
			name: "negative theory cap",
			mutate: func(cfg *models.Config) {
				cfg.Instructors[0].MaxDailyTheoryHours = -1
			},
			code: appErrors.ErrConstraintConfig.Code,
		},
		{
			name: "room without capacity",
			mutate: func(cfg *models.Config) {
				cfg.Rooms[0].Capacity = 0
			},
			code: appErrors.ErrInvalidInput.Code,
		},
		{
			name: "unknown room type",
			mutate: func(cfg *models.Config) {
				cfg.Rooms[0].Type = "studio"
			},
			code: appErrors.ErrInvalidInput.Code,
		},
		{
			name: "duplicate room id",
			mutate: func(cfg *models.Config) {
				cfg.Rooms = append(cfg.Rooms, cfg.Rooms[0])
			},
			code: appErrors.ErrInvalidInput.Code,
		},
		{
			name: "dangling instructor reference",
			mutate: func(cfg *models.Config) {
				cfg.Courses[0].InstructorID = "ghost"
			},
			code: appErrors.ErrInvalidInput.Code,
		},
		{
			name: "forbidden slot out of grid",
			mutate: func(cfg *models.Config) {
				cfg.Common.ForbiddenSlots = append(cfg.Common.ForbiddenSlots, models.TimeSlot{Day: models.Monday, Index: 42})
			},
			code: appErrors.ErrInvalidInput.Code,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			cfg.Courses = append([]models.Course(nil), base.Courses...)
			cfg.Instructors = append([]models.Instructor(nil), base.Instructors...)
			cfg.Rooms = append([]models.Room(nil), base.Rooms...)
			cfg.Common.Days = append([]models.Day(nil), base.Common.Days...)
			cfg.Common.ForbiddenSlots = append([]models.TimeSlot(nil), base.Common.ForbiddenSlots...)

			tc.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Equal(t, tc.code, appErrors.FromError(err).Code)
		})
	}
}
