package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/beeplan-api/internal/dto"
	"github.com/noah-isme/beeplan-api/internal/models"
	"github.com/noah-isme/beeplan-api/internal/timetable"
	appErrors "github.com/noah-isme/beeplan-api/pkg/errors"
	"github.com/noah-isme/beeplan-api/pkg/export"
)

// TimetableConfig governs generation behaviour.
type TimetableConfig struct {
	StepLimit int
}

// TimetableService orchestrates the scheduling core: request validation,
// generation, proposal retention, views and export.
type TimetableService struct {
	store     ProposalStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableConfig
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewTimetableService wires the scheduling dependencies.
func NewTimetableService(store ProposalStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg TimetableConfig) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryProposalStore(0)
	}
	if cfg.StepLimit <= 0 {
		cfg.StepLimit = timetable.DefaultStepLimit
	}
	return &TimetableService{
		store:     store,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// Generate runs the scheduling pipeline on the submitted configuration and
// retains the proposal for later retrieval. Infeasible instances return a
// proposal with Complete=false rather than an error.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}

	cfg, err := req.ToConfig(timetable.DefaultCommonSchedule())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, err.Error())
	}

	stepLimit := s.cfg.StepLimit
	if req.StepLimit > 0 {
		stepLimit = req.StepLimit
	}

	start := time.Now()
	result, err := timetable.Generate(ctx, cfg, timetable.Options{StepLimit: stepLimit, Logger: s.logger})
	if err != nil {
		s.metrics.ObserveGeneration("error", 0, time.Since(start))
		return nil, err
	}

	outcome := "partial"
	if result.Complete {
		outcome = "complete"
	}
	s.metrics.ObserveGeneration(outcome, result.Attempts, time.Since(start))

	proposal := Proposal{
		ID:          uuid.NewString(),
		Config:      cfg,
		Result:      *result,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, proposal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to retain proposal")
	}

	s.logger.Info("timetable generated",
		zap.String("proposal_id", proposal.ID),
		zap.Bool("complete", result.Complete),
		zap.Int("attempts", result.Attempts),
		zap.Int("placements", len(result.Schedule.Placements)),
		zap.Int("violations", len(result.Violations)),
	)

	resp := dto.FromResult(proposal.ID, *result)
	return &resp, nil
}

// GetProposal returns a retained proposal by id.
func (s *TimetableService) GetProposal(ctx context.Context, id string) (*dto.GenerateTimetableResponse, error) {
	proposal, err := s.loadProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromResult(proposal.ID, proposal.Result)
	return &resp, nil
}

// DeleteProposal discards a retained proposal.
func (s *TimetableService) DeleteProposal(ctx context.Context, id string) error {
	if _, err := s.loadProposal(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete proposal")
	}
	return nil
}

// Views renders the per-year and per-instructor weekly grids of a proposal.
func (s *TimetableService) Views(ctx context.Context, id string) (*dto.TimetableViewsResponse, error) {
	proposal, err := s.loadProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	byYear := make(map[string]dto.GridView)
	for _, year := range proposalYears(proposal) {
		filtered := filterPlacements(proposal.Result.Schedule.Placements, func(p models.Placement) bool {
			return p.Atom.Year == year
		})
		byYear[fmt.Sprintf("%d", year)] = buildGridView(proposal.Config.Common, filtered)
	}

	byInstructor := make(map[string]dto.GridView)
	for _, ins := range proposal.Config.Instructors {
		insID := ins.ID
		filtered := filterPlacements(proposal.Result.Schedule.Placements, func(p models.Placement) bool {
			return p.Atom.InstructorID == insID
		})
		if len(filtered) == 0 {
			continue
		}
		byInstructor[insID] = buildGridView(proposal.Config.Common, filtered)
	}

	return &dto.TimetableViewsResponse{
		ProposalID:   proposal.ID,
		ByYear:       byYear,
		ByInstructor: byInstructor,
	}, nil
}

// ExportFormat names the supported export encodings.
const (
	ExportJSON = "json"
	ExportCSV  = "csv"
	ExportPDF  = "pdf"
)

// Export renders a proposal in the requested format, returning the content,
// its media type and a suggested file name.
func (s *TimetableService) Export(ctx context.Context, id, format string) ([]byte, string, string, error) {
	proposal, err := s.loadProposal(ctx, id)
	if err != nil {
		return nil, "", "", err
	}

	switch format {
	case ExportJSON, "":
		payload, err := json.MarshalIndent(proposal.Result, "", "  ")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode proposal")
		}
		return payload, "application/json", fmt.Sprintf("timetable-%s.json", id), nil

	case ExportCSV:
		payload, err := s.csv.Render(placementDataset(proposal))
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", fmt.Sprintf("timetable-%s.csv", id), nil

	case ExportPDF:
		grid := buildExportGrid(proposal.Config.Common, proposal.Result.Schedule.Placements)
		payload, err := s.pdf.RenderGrid(grid, "weekly timetable")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", fmt.Sprintf("timetable-%s.pdf", id), nil

	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *TimetableService) loadProposal(ctx context.Context, id string) (Proposal, error) {
	if id == "" {
		return Proposal{}, appErrors.Clone(appErrors.ErrValidation, "proposal id is required")
	}
	proposal, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return Proposal{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proposal")
	}
	if !ok {
		return Proposal{}, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	return proposal, nil
}

func filterPlacements(placements []models.Placement, keep func(models.Placement) bool) []models.Placement {
	var out []models.Placement
	for _, p := range placements {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func proposalYears(proposal Proposal) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, course := range proposal.Config.Courses {
		if _, ok := seen[course.Year]; ok {
			continue
		}
		seen[course.Year] = struct{}{}
		years = append(years, course.Year)
	}
	sort.Ints(years)
	return years
}

func placementLabel(p models.Placement) string {
	if p.Atom.SessionType == models.SessionLab {
		return fmt.Sprintf("%s lab (%s)", p.Atom.CourseID, p.RoomID)
	}
	return fmt.Sprintf("%s (%s)", p.Atom.CourseID, p.RoomID)
}

func buildGridView(common models.CommonSchedule, placements []models.Placement) dto.GridView {
	view := dto.GridView{Days: common.Days}
	for index := 1; index <= common.SlotsPerDay; index++ {
		view.Slots = append(view.Slots, index)
	}

	cells := make([][]string, common.SlotsPerDay)
	for row := range cells {
		cells[row] = make([]string, len(common.Days))
	}
	dayColumn := make(map[models.Day]int, len(common.Days))
	for col, day := range common.Days {
		dayColumn[day] = col
	}

	sorted := sortedPlacements(placements)
	for _, p := range sorted {
		col, ok := dayColumn[p.Slot.Day]
		if !ok || p.Slot.Index < 1 || p.Slot.Index > common.SlotsPerDay {
			continue
		}
		row := p.Slot.Index - 1
		if cells[row][col] != "" {
			cells[row][col] += " / "
		}
		cells[row][col] += placementLabel(p)
	}
	view.Cells = cells
	return view
}

func buildExportGrid(common models.CommonSchedule, placements []models.Placement) export.Grid {
	view := buildGridView(common, placements)
	grid := export.Grid{Cells: view.Cells}
	for _, day := range view.Days {
		grid.DayHeaders = append(grid.DayHeaders, string(day))
	}
	for _, index := range view.Slots {
		label := fmt.Sprintf("slot %d", index)
		if st, ok := timetable.SlotTimeFor(index); ok {
			label = fmt.Sprintf("%02d:%02d-%02d:%02d", st.Start/60, st.Start%60, st.End/60, st.End%60)
		}
		grid.SlotLabels = append(grid.SlotLabels, label)
	}
	return grid
}

func placementDataset(proposal Proposal) export.Dataset {
	headers := []string{"day", "slot", "course", "session", "instructor", "room"}
	sorted := sortedPlacements(proposal.Result.Schedule.Placements)

	rows := make([]map[string]string, 0, len(sorted))
	for _, p := range sorted {
		rows = append(rows, map[string]string{
			"day":        string(p.Slot.Day),
			"slot":       fmt.Sprintf("%d", p.Slot.Index),
			"course":     p.Atom.CourseID,
			"session":    string(p.Atom.SessionType),
			"instructor": p.Atom.InstructorID,
			"room":       p.RoomID,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func sortedPlacements(placements []models.Placement) []models.Placement {
	out := make([]models.Placement, len(placements))
	copy(out, placements)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Slot != out[j].Slot {
			return out[i].Slot.Before(out[j].Slot)
		}
		return out[i].RoomID < out[j].RoomID
	})
	return out
}
