package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurobud/neurobud-api/internal/dto"
	"github.com/neurobud/neurobud-api/internal/models"
	appErrors "github.com/neurobud/neurobud-api/pkg/errors"
)

type stubSummaryService struct {
	generateResp   *dto.GenerateResponse
	generateErr    error
	generateTarget time.Time

	listItems      []dto.SummaryResponse
	listPagination *models.Pagination
	listErr        error
	listFilter     models.SummaryFilter

	getResp *dto.SummaryResponse
	getErr  error
}

func (s *stubSummaryService) Generate(_ context.Context, target time.Time) (*dto.GenerateResponse, error) {
	s.generateTarget = target
	return s.generateResp, s.generateErr
}

func (s *stubSummaryService) ListByChild(_ context.Context, filter models.SummaryFilter) ([]dto.SummaryResponse, *models.Pagination, bool, error) {
	s.listFilter = filter
	return s.listItems, s.listPagination, false, s.listErr
}

func (s *stubSummaryService) GetByDate(_ context.Context, _ string, _ time.Time) (*dto.SummaryResponse, bool, error) {
	return s.getResp, false, s.getErr
}

func setupRouter(svc *stubSummaryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSummaryHandler(svc, nil)
	h.now = func() time.Time {
		return time.Date(2024, 3, 11, 6, 0, 0, 0, time.UTC)
	}
	r := gin.New()
	r.Any("/internal/daily-summaries/generate", h.Generate)
	r.GET("/children/:childId/summaries", h.ListByChild)
	r.GET("/children/:childId/summaries/:date", h.GetByDate)
	return r
}

func TestGenerateDefaultsToYesterday(t *testing.T) {
	svc := &stubSummaryService{
		generateResp: &dto.GenerateResponse{
			Message: "Summaries generated successfully",
			Date:    "2024-03-10",
			Summaries: []dto.SummaryResult{{
				ChildID:         "child-1",
				Score:           72.5,
				EvolutionStatus: models.EvolutionImproved,
				InsightsCount:   2,
				AlertsCount:     0,
			}},
		},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/internal/daily-summaries/generate", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-03-10", svc.generateTarget.Format("2006-01-02"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Summaries generated successfully", body["message"])
	assert.Equal(t, "2024-03-10", body["date"])

	summaries, ok := body["summaries"].([]interface{})
	require.True(t, ok)
	require.Len(t, summaries, 1)
	entry := summaries[0].(map[string]interface{})
	assert.Equal(t, "child-1", entry["child_id"])
	assert.Equal(t, 72.5, entry["score"])
	assert.Equal(t, "improved", entry["evolution_status"])
	assert.Equal(t, 2.0, entry["insights_count"])
	assert.Equal(t, 0.0, entry["alerts_count"])
}

func TestGenerateAcceptsExplicitDate(t *testing.T) {
	svc := &stubSummaryService{
		generateResp: &dto.GenerateResponse{Message: "No records to process", Date: "2024-02-01"},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/internal/daily-summaries/generate?date=2024-02-01", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-02-01", svc.generateTarget.Format("2006-01-02"))
}

func TestGenerateRejectsMalformedDate(t *testing.T) {
	r := setupRouter(&stubSummaryService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/internal/daily-summaries/generate?date=yesterday", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "invalid date format")
}

func TestGenerateFatalErrorReturns500(t *testing.T) {
	svc := &stubSummaryService{generateErr: errors.New("failed to load daily records for 2024-03-10")}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/internal/daily-summaries/generate", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "failed to load daily records for 2024-03-10", body["error"])
}

func TestListByChild(t *testing.T) {
	svc := &stubSummaryService{
		listItems: []dto.SummaryResponse{{
			ChildID:         "child-1",
			SummaryDate:     "2024-03-10",
			Score:           64,
			EvolutionStatus: models.EvolutionNeutral,
			Insights:        []string{},
			Alerts:          []string{},
		}},
		listPagination: &models.Pagination{Page: 1, PageSize: 30, TotalCount: 1},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/children/child-1/summaries?from=2024-03-01&to=2024-03-31&page=1&limit=30", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "child-1", svc.listFilter.ChildID)
	require.NotNil(t, svc.listFilter.DateFrom)
	assert.Equal(t, "2024-03-01", svc.listFilter.DateFrom.Format("2006-01-02"))

	var envelope struct {
		Data       []dto.SummaryResponse  `json:"data"`
		Pagination *models.Pagination     `json:"pagination"`
		Meta       map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "child-1", envelope.Data[0].ChildID)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
	assert.Contains(t, envelope.Meta, "cache_hit")
}

func TestListByChildRejectsBadQuery(t *testing.T) {
	r := setupRouter(&stubSummaryService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/children/child-1/summaries?from=not-a-date", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByDate(t *testing.T) {
	svc := &stubSummaryService{
		getResp: &dto.SummaryResponse{
			ChildID:         "child-1",
			SummaryDate:     "2024-03-10",
			Score:           88,
			EvolutionStatus: models.EvolutionImproved,
		},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/children/child-1/summaries/2024-03-10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.SummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 88.0, envelope.Data.Score)
}

func TestGetByDateNotFound(t *testing.T) {
	svc := &stubSummaryService{getErr: appErrors.ErrNotFound}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/children/child-1/summaries/2024-03-10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetByDateRejectsMalformedDate(t *testing.T) {
	r := setupRouter(&stubSummaryService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/children/child-1/summaries/march-10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
