package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/neurobud/neurobud-api/internal/models"
)

const summaryColumns = `id, user_id, child_id, summary_date, score, evolution_status, insights,
alerts, comparison_data, created_at, updated_at`

// SummaryRepository handles persistence for computed daily summaries.
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository constructs the repository.
func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Upsert inserts or replaces the summary keyed by (child_id, summary_date).
// Re-running a generation for the same date overwrites the previous row.
func (r *SummaryRepository) Upsert(ctx context.Context, summary *models.DailySummary) (*models.DailySummary, error) {
	now := time.Now().UTC()
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = now
	}
	summary.UpdatedAt = now
	query := fmt.Sprintf(`INSERT INTO daily_summaries (id, user_id, child_id, summary_date, score,
evolution_status, insights, alerts, comparison_data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (child_id, summary_date)
DO UPDATE SET user_id = EXCLUDED.user_id, score = EXCLUDED.score,
evolution_status = EXCLUDED.evolution_status, insights = EXCLUDED.insights,
alerts = EXCLUDED.alerts, comparison_data = EXCLUDED.comparison_data,
updated_at = EXCLUDED.updated_at
RETURNING %s`, summaryColumns)
	var stored models.DailySummary
	if err := r.db.GetContext(ctx, &stored, query,
		summary.ID,
		summary.UserID,
		summary.ChildID,
		summary.SummaryDate.Format("2006-01-02"),
		summary.Score,
		summary.EvolutionStatus,
		summary.Insights,
		summary.Alerts,
		summary.Comparison,
		summary.CreatedAt,
		summary.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("upsert daily summary: %w", err)
	}
	return &stored, nil
}

// GetByChildAndDate returns the summary for a child on a scored date.
func (r *SummaryRepository) GetByChildAndDate(ctx context.Context, childID string, date time.Time) (*models.DailySummary, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_summaries WHERE child_id = $1 AND summary_date = $2`, summaryColumns)
	var summary models.DailySummary
	if err := r.db.GetContext(ctx, &summary, query, childID, date.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("get daily summary: %w", err)
	}
	return &summary, nil
}

// List returns summaries matching the filter, newest scored date first.
func (r *SummaryRepository) List(ctx context.Context, filter models.SummaryFilter) ([]models.DailySummary, int, error) {
	where := []string{"child_id = $1"}
	args := []interface{}{filter.ChildID}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("summary_date >= $%d", len(args)+1))
		args = append(args, filter.DateFrom.Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("summary_date <= $%d", len(args)+1))
		args = append(args, filter.DateTo.Format("2006-01-02"))
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 30
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM daily_summaries WHERE %s
ORDER BY summary_date DESC LIMIT %d OFFSET %d`, summaryColumns, whereClause, size, offset)
	var summaries []models.DailySummary
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list daily summaries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM daily_summaries WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count daily summaries: %w", err)
	}
	return summaries, total, nil
}
