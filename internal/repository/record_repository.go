package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/neurobud/neurobud-api/internal/models"
)

const recordColumns = `id, user_id, child_id, record_date, sleep_data, mood_data, nutrition_data,
medication_data, crisis_data, activity_data, hyperfocus_data, incident_data, extra_notes,
created_at, updated_at`

// RecordRepository reads daily behavioral records. The table is owned by the
// NeuroBud client backend; this service never writes to it.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository constructs the repository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// ListByDate returns every record logged for the given calendar date, ordered
// by child so generation output is deterministic.
func (r *RecordRepository) ListByDate(ctx context.Context, date time.Time) ([]models.DailyRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_records WHERE record_date = $1 ORDER BY child_id`, recordColumns)
	var records []models.DailyRecord
	if err := r.db.SelectContext(ctx, &records, query, date.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("list daily records: %w", err)
	}
	return records, nil
}

// GetByChildAndDate returns the single record for a child on a date. The
// store guarantees at most one row per (child_id, record_date); callers see
// sql.ErrNoRows (wrapped) when none exists.
func (r *RecordRepository) GetByChildAndDate(ctx context.Context, childID string, date time.Time) (*models.DailyRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_records WHERE child_id = $1 AND record_date = $2`, recordColumns)
	var record models.DailyRecord
	if err := r.db.GetContext(ctx, &record, query, childID, date.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("get daily record: %w", err)
	}
	return &record, nil
}
