package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beeplan-api/internal/dto"
	"github.com/noah-isme/beeplan-api/internal/service"
	"github.com/noah-isme/beeplan-api/pkg/response"
)

func newTimetableRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := service.NewMemoryProposalStore(time.Minute)
	svc := service.NewTimetableService(store, service.NewMetricsService(), nil, nil, service.TimetableConfig{})
	h := NewTimetableHandler(svc, nil)

	r := gin.New()
	timetables := r.Group("/api/v1/timetables")
	timetables.POST("/generate", h.Generate)
	timetables.GET("/proposals/:id", h.GetProposal)
	timetables.DELETE("/proposals/:id", h.DeleteProposal)
	timetables.GET("/proposals/:id/views", h.Views)
	timetables.GET("/proposals/:id/export", h.Export)
	timetables.POST("/jobs", h.SubmitJob)
	return r
}

func generatePayload() []byte {
	payload, _ := json.Marshal(dto.GenerateTimetableRequest{
		Courses: []dto.CourseRequest{{
			ID: "CS101", Year: 1, Required: true,
			WeeklyTheoryHours: 1, InstructorID: "ins-1", Program: "CENG",
		}},
		Instructors: []dto.InstructorRequest{{
			ID: "ins-1", Name: "Ada",
			Availability: []dto.TimeSlotRequest{{Day: "Mon", Index: 1}},
		}},
		Rooms: []dto.RoomRequest{{ID: "T1", Capacity: 30, Type: "theory"}},
	})
	return payload
}

func doRequest(r *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTimetableHandlerGenerate(t *testing.T) {
	r := newTimetableRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/timetables/generate", generatePayload())
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.GenerateTimetableResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Complete)
	assert.NotEmpty(t, envelope.Data.ProposalID)
	require.Len(t, envelope.Data.Placements, 1)
}

func TestTimetableHandlerGenerateRejectsBadJSON(t *testing.T) {
	r := newTimetableRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/timetables/generate", []byte("{"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
}

func TestTimetableHandlerProposalLifecycle(t *testing.T) {
	r := newTimetableRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/timetables/generate", generatePayload())
	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data dto.GenerateTimetableResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	id := envelope.Data.ProposalID

	w = doRequest(r, http.MethodGet, "/api/v1/timetables/proposals/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/timetables/proposals/"+id+"/views", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/timetables/proposals/"+id+"/export?format=csv", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	w = doRequest(r, http.MethodDelete, "/api/v1/timetables/proposals/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/timetables/proposals/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerUnknownProposal(t *testing.T) {
	r := newTimetableRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/timetables/proposals/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerJobsDisabled(t *testing.T) {
	r := newTimetableRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/timetables/jobs", generatePayload())
	assert.Equal(t, http.StatusNotFound, w.Code)
}
