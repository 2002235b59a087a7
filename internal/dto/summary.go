package dto

import (
	"github.com/neurobud/neurobud-api/internal/models"
)

// GenerateResponse is the scheduler-facing payload of the internal
// generation endpoint.
type GenerateResponse struct {
	Message   string          `json:"message"`
	Date      string          `json:"date"`
	Summaries []SummaryResult `json:"summaries,omitempty"`
}

// SummaryResult is the per-child line item of a generation run.
type SummaryResult struct {
	ChildID         string                 `json:"child_id"`
	Score           float64                `json:"score"`
	EvolutionStatus models.EvolutionStatus `json:"evolution_status"`
	InsightsCount   int                    `json:"insights_count"`
	AlertsCount     int                    `json:"alerts_count"`
}

// GenerateErrorResponse is returned when the base record fetch fails.
type GenerateErrorResponse struct {
	Error string `json:"error"`
}

// ListSummariesRequest carries validated query parameters for summary lists.
type ListSummariesRequest struct {
	From  string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To    string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Page  int    `form:"page" validate:"omitempty,min=1"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=200"`
}

// SummaryResponse is the client-facing shape of a stored summary.
type SummaryResponse struct {
	ChildID         string                 `json:"child_id"`
	SummaryDate     string                 `json:"summary_date"`
	Score           float64                `json:"score"`
	EvolutionStatus models.EvolutionStatus `json:"evolution_status"`
	Insights        []string               `json:"insights"`
	Alerts          []string               `json:"alerts"`
	Comparison      models.ComparisonData  `json:"comparison_data"`
}

// NewSummaryResponse converts a stored summary row into the API shape.
func NewSummaryResponse(s models.DailySummary) SummaryResponse {
	return SummaryResponse{
		ChildID:         s.ChildID,
		SummaryDate:     s.SummaryDate.Format("2006-01-02"),
		Score:           s.Score,
		EvolutionStatus: s.EvolutionStatus,
		Insights:        append([]string{}, s.Insights...),
		Alerts:          append([]string{}, s.Alerts...),
		Comparison:      s.Comparison,
	}
}
