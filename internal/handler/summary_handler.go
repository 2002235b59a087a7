package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/neurobud/neurobud-api/internal/dto"
	"github.com/neurobud/neurobud-api/internal/models"
	appErrors "github.com/neurobud/neurobud-api/pkg/errors"
	"github.com/neurobud/neurobud-api/pkg/response"
)

type summaryService interface {
	Generate(ctx context.Context, target time.Time) (*dto.GenerateResponse, error)
	ListByChild(ctx context.Context, filter models.SummaryFilter) ([]dto.SummaryResponse, *models.Pagination, bool, error)
	GetByDate(ctx context.Context, childID string, date time.Time) (*dto.SummaryResponse, bool, error)
}

// SummaryHandler wires the summary service to HTTP endpoints.
type SummaryHandler struct {
	service  summaryService
	validate *validator.Validate
	now      func() time.Time
}

// NewSummaryHandler constructs the handler.
func NewSummaryHandler(service summaryService, validate *validator.Validate) *SummaryHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &SummaryHandler{service: service, validate: validate, now: time.Now}
}

// Generate godoc
// @Summary Generate daily summaries for the scoring date
// @Tags Summaries
// @Produce json
// @Param date query string false "Scoring date (YYYY-MM-DD). Defaults to UTC yesterday"
// @Success 200 {object} dto.GenerateResponse
// @Failure 500 {object} dto.GenerateErrorResponse
// @Router /internal/daily-summaries/generate [post]
//
// The response shape is a contract with the external scheduler and the
// NeuroBud client, so this endpoint bypasses the common envelope.
func (h *SummaryHandler) Generate(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, dto.GenerateErrorResponse{Error: "summary service unavailable"})
		return
	}

	target := h.now().UTC().AddDate(0, 0, -1)
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.GenerateErrorResponse{Error: "invalid date format, expected YYYY-MM-DD"})
			return
		}
		target = parsed
	}

	resp, err := h.service.Generate(c.Request.Context(), target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.GenerateErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByChild godoc
// @Summary List stored summaries for a child
// @Tags Summaries
// @Produce json
// @Param childId path string true "Child ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /children/{childId}/summaries [get]
func (h *SummaryHandler) ListByChild(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	childID := strings.TrimSpace(c.Param("childId"))
	if childID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "childId is required"))
		return
	}

	var req dto.ListSummariesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}

	filter := models.SummaryFilter{ChildID: childID, Page: req.Page, PageSize: req.Limit}
	if req.From != "" {
		from, _ := time.Parse("2006-01-02", req.From)
		filter.DateFrom = &from
	}
	if req.To != "" {
		to, _ := time.Parse("2006-01-02", req.To)
		filter.DateTo = &to
	}

	start := h.now()
	items, pagination, cacheHit, err := h.service.ListByChild(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{
		"cache_hit":          cacheHit,
		"processing_time_ms": time.Since(start).Milliseconds(),
	}
	response.JSON(c, http.StatusOK, items, pagination, meta)
}

// GetByDate godoc
// @Summary Get the stored summary for a child and scored date
// @Tags Summaries
// @Produce json
// @Param childId path string true "Child ID"
// @Param date path string true "Scored date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /children/{childId}/summaries/{date} [get]
func (h *SummaryHandler) GetByDate(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	childID := strings.TrimSpace(c.Param("childId"))
	if childID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "childId is required"))
		return
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(c.Param("date")))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD"))
		return
	}

	summary, cacheHit, err := h.service.GetByDate(c.Request.Context(), childID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{"cache_hit": cacheHit}
	response.JSON(c, http.StatusOK, summary, nil, meta)
}
