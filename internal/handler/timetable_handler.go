package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/beeplan-api/internal/dto"
	"github.com/noah-isme/beeplan-api/internal/service"
	appErrors "github.com/noah-isme/beeplan-api/pkg/errors"
	"github.com/noah-isme/beeplan-api/pkg/response"
)

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	GetProposal(ctx context.Context, id string) (*dto.GenerateTimetableResponse, error)
	DeleteProposal(ctx context.Context, id string) error
	Views(ctx context.Context, id string) (*dto.TimetableViewsResponse, error)
	Export(ctx context.Context, id, format string) ([]byte, string, string, error)
}

type generationJobs interface {
	Submit(req dto.GenerateTimetableRequest) (*dto.SubmitJobResponse, error)
	Status(jobID string) (*dto.JobStatusResponse, error)
}

// TimetableHandler exposes the timetable generation endpoints.
type TimetableHandler struct {
	service timetableGenerator
	jobs    generationJobs
}

// NewTimetableHandler constructs the handler. The jobs service may be nil
// when asynchronous generation is disabled.
func NewTimetableHandler(svc *service.TimetableService, jobs *service.GenerationJobService) *TimetableHandler {
	h := &TimetableHandler{service: svc}
	if jobs != nil {
		h.jobs = jobs
	}
	return h
}

// Generate godoc
// @Summary Generate a weekly timetable proposal
// @Description Runs the constraint scheduler on the submitted configuration. Infeasible instances return complete=false with the remaining violations.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Timetable configuration"
// @Success 200 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// GetProposal godoc
// @Summary Fetch a retained timetable proposal
// @Tags Timetables
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/proposals/{id} [get]
func (h *TimetableHandler) GetProposal(c *gin.Context) {
	result, err := h.service.GetProposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// DeleteProposal godoc
// @Summary Discard a retained timetable proposal
// @Tags Timetables
// @Param id path string true "Proposal ID"
// @Success 204
// @Router /timetables/proposals/{id} [delete]
func (h *TimetableHandler) DeleteProposal(c *gin.Context) {
	if err := h.service.DeleteProposal(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Views godoc
// @Summary Per-year and per-instructor weekly grids of a proposal
// @Tags Timetables
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/proposals/{id}/views [get]
func (h *TimetableHandler) Views(c *gin.Context) {
	views, err := h.service.Views(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// Export godoc
// @Summary Export a proposal as json, csv or pdf
// @Tags Timetables
// @Produce json
// @Param id path string true "Proposal ID"
// @Param format query string false "Export format" Enums(json, csv, pdf)
// @Success 200 {file} binary
// @Router /timetables/proposals/{id}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	content, contentType, filename, err := h.service.Export(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, content)
}

// SubmitJob godoc
// @Summary Submit an asynchronous generation job
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Timetable configuration"
// @Success 202 {object} response.Envelope
// @Router /timetables/jobs [post]
func (h *TimetableHandler) SubmitJob(c *gin.Context) {
	if h.jobs == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "asynchronous generation is disabled"))
		return
	}
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	ack, err := h.jobs.Submit(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, ack)
}

// JobStatus godoc
// @Summary Poll an asynchronous generation job
// @Tags Timetables
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/jobs/{id} [get]
func (h *TimetableHandler) JobStatus(c *gin.Context) {
	if h.jobs == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "asynchronous generation is disabled"))
		return
	}
	status, err := h.jobs.Status(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}
