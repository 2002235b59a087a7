package models

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
)

// EvolutionStatus classifies the day-over-day score trend.
type EvolutionStatus string

const (
	EvolutionImproved  EvolutionStatus = "improved"
	EvolutionRegressed EvolutionStatus = "regressed"
	EvolutionNeutral   EvolutionStatus = "neutral"
)

// Valid reports whether the status is one of the permitted variants.
func (s EvolutionStatus) Valid() bool {
	switch s {
	case EvolutionImproved, EvolutionRegressed, EvolutionNeutral:
		return true
	}
	return false
}

// ComparisonData relates a summary to the previous day's score. Both fields
// are null when no prior-day record exists for the child.
type ComparisonData struct {
	PreviousScore   *float64 `json:"previous_score"`
	ScoreDifference *float64 `json:"score_difference"`
}

// Value marshals comparison data to JSON for persistence.
func (c ComparisonData) Value() (driver.Value, error) { return valueJSON(c, "comparison_data") }

// Scan unmarshals a JSONB payload into the comparison data.
func (c *ComparisonData) Scan(value interface{}) error { return scanJSON(value, c, "comparison_data") }

// DailySummary is the computed wellness summary for one child and one scored
// date. Rows are upserted on (child_id, summary_date) and never deleted by
// this service.
type DailySummary struct {
	ID              string          `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"user_id"`
	ChildID         string          `db:"child_id" json:"child_id"`
	SummaryDate     time.Time       `db:"summary_date" json:"summary_date"`
	Score           float64         `db:"score" json:"score"`
	EvolutionStatus EvolutionStatus `db:"evolution_status" json:"evolution_status"`
	Insights        pq.StringArray  `db:"insights" json:"insights"`
	Alerts          pq.StringArray  `db:"alerts" json:"alerts"`
	Comparison      ComparisonData  `db:"comparison_data" json:"comparison_data"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}
