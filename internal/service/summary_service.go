package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/neurobud/neurobud-api/internal/dto"
	"github.com/neurobud/neurobud-api/internal/models"
	appErrors "github.com/neurobud/neurobud-api/pkg/errors"
	"github.com/neurobud/neurobud-api/pkg/jobs"
)

const (
	msgNoRecords = "No records to process"
	msgGenerated = "Summaries generated successfully"
)

type recordStore interface {
	ListByDate(ctx context.Context, date time.Time) ([]models.DailyRecord, error)
	GetByChildAndDate(ctx context.Context, childID string, date time.Time) (*models.DailyRecord, error)
}

type summaryStore interface {
	Upsert(ctx context.Context, summary *models.DailySummary) (*models.DailySummary, error)
	GetByChildAndDate(ctx context.Context, childID string, date time.Time) (*models.DailySummary, error)
	List(ctx context.Context, filter models.SummaryFilter) ([]models.DailySummary, int, error)
}

// SummaryServiceConfig tunes generation behaviour.
type SummaryServiceConfig struct {
	WorkerConcurrency int
	CacheTTL          time.Duration
	ScheduleEnabled   bool
	ScheduleInterval  time.Duration
}

// SummaryService owns the daily summary pipeline: scoring, day-over-day
// comparison, insight/alert derivation and persistence, plus the read API
// over stored summaries.
type SummaryService struct {
	records   recordStore
	summaries summaryStore
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
	cfg       SummaryServiceConfig
}

// SummaryServiceParams groups constructor dependencies.
type SummaryServiceParams struct {
	Records   recordStore
	Summaries summaryStore
	Cache     *CacheService
	Metrics   *MetricsService
	Logger    *zap.Logger
	Config    SummaryServiceConfig
}

// NewSummaryService constructs a SummaryService with sane defaults.
func NewSummaryService(params SummaryServiceParams) *SummaryService {
	cfg := params.Config
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 4
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{
		records:   params.Records,
		summaries: params.Summaries,
		cache:     params.Cache,
		metrics:   params.Metrics,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Generate runs the summary pipeline for the given scoring date. Children are
// processed independently: a failure for one child skips that child and the
// run continues. Only a failure to load the base record set is fatal. The
// whole run is idempotent, so rerunning for the same date is the recovery
// strategy for partial failures.
func (s *SummaryService) Generate(ctx context.Context, target time.Time) (*dto.GenerateResponse, error) {
	start := s.now()
	target = truncateToDay(target)
	dateStr := target.Format("2006-01-02")

	records, err := s.records.ListByDate(ctx, target)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			fmt.Sprintf("failed to load daily records for %s", dateStr))
	}
	if len(records) == 0 {
		return &dto.GenerateResponse{Message: msgNoRecords, Date: dateStr}, nil
	}

	// One record per child is guaranteed by the store; keep the first if the
	// invariant is ever violated upstream.
	byChild := make(map[string]models.DailyRecord, len(records))
	for _, record := range records {
		if _, seen := byChild[record.ChildID]; !seen {
			byChild[record.ChildID] = record
		}
	}
	childIDs := make([]string, 0, len(byChild))
	for childID := range byChild {
		childIDs = append(childIDs, childID)
	}
	sort.Strings(childIDs)

	// Children touch disjoint storage keys, so per-child work fans out over
	// the pool with each task writing only its own result slot.
	results := make([]*dto.SummaryResult, len(childIDs))
	pool := jobs.NewPool(s.cfg.WorkerConcurrency, s.logger)
	for i, childID := range childIDs {
		i, record := i, byChild[childID]
		pool.Go(ctx, "summarize:"+record.ChildID, func(taskCtx context.Context) {
			results[i] = s.processChild(taskCtx, target, record)
		})
	}
	pool.Wait()

	summaries := make([]dto.SummaryResult, 0, len(results))
	for _, result := range results {
		if result != nil {
			summaries = append(summaries, *result)
		}
	}

	s.metrics.ObserveGenerationRun(s.now().Sub(start))
	s.logger.Sugar().Infow("daily summary run finished",
		"date", dateStr, "children", len(childIDs), "written", len(summaries))

	return &dto.GenerateResponse{Message: msgGenerated, Date: dateStr, Summaries: summaries}, nil
}

// processChild scores one child's day, compares against the previous day and
// upserts the summary. Returns nil when the child had to be skipped.
func (s *SummaryService) processChild(ctx context.Context, target time.Time, record models.DailyRecord) *dto.SummaryResult {
	previous, err := s.records.GetByChildAndDate(ctx, record.ChildID, target.AddDate(0, 0, -1))
	if err != nil {
		// A missing or unreadable previous day degrades to "no comparison";
		// it never blocks the child's summary.
		previous = nil
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Sugar().Warnw("comparison record fetch failed, proceeding without comparison",
				"child_id", record.ChildID, "error", err)
		}
	}

	score := scoreRecord(record)

	var prevScore *float64
	if previous != nil {
		v := scoreRecord(*previous)
		prevScore = &v
	}

	comparison := models.ComparisonData{}
	if prevScore != nil {
		diff := score - *prevScore
		comparison.PreviousScore = prevScore
		comparison.ScoreDifference = &diff
	}

	summary := &models.DailySummary{
		UserID:          record.UserID,
		ChildID:         record.ChildID,
		SummaryDate:     target,
		Score:           score,
		EvolutionStatus: classifyEvolution(score, prevScore),
		Insights:        pq.StringArray(buildInsights(record, previous)),
		Alerts:          pq.StringArray(buildAlerts(record, score)),
		Comparison:      comparison,
	}

	if _, err := s.summaries.Upsert(ctx, summary); err != nil {
		s.logger.Sugar().Errorw("summary upsert failed, skipping child",
			"child_id", record.ChildID, "date", target.Format("2006-01-02"), "error", err)
		s.metrics.RecordChildSkipped("upsert")
		return nil
	}
	s.metrics.RecordSummaryWritten()

	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, fmt.Sprintf("summary:%s:*", record.ChildID))
	}

	return &dto.SummaryResult{
		ChildID:         record.ChildID,
		Score:           summary.Score,
		EvolutionStatus: summary.EvolutionStatus,
		InsightsCount:   len(summary.Insights),
		AlertsCount:     len(summary.Alerts),
	}
}

// ListByChild returns stored summaries for a child, cached per query shape.
func (s *SummaryService) ListByChild(ctx context.Context, filter models.SummaryFilter) ([]dto.SummaryResponse, *models.Pagination, bool, error) {
	if filter.ChildID == "" {
		return nil, nil, false, appErrors.Clone(appErrors.ErrValidation, "childId is required")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 30
	}

	cacheKey := summaryListCacheKey(filter)
	var cached cachedSummaryList
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached.Items, cached.Pagination, true, nil
	}

	summaries, total, err := s.summaries.List(ctx, filter)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list summaries")
	}

	items := make([]dto.SummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, dto.NewSummaryResponse(summary))
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, cachedSummaryList{Items: items, Pagination: pagination}, s.cfg.CacheTTL)
	}
	return items, pagination, false, nil
}

// GetByDate returns the stored summary for one child and scored date.
func (s *SummaryService) GetByDate(ctx context.Context, childID string, date time.Time) (*dto.SummaryResponse, bool, error) {
	if childID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "childId is required")
	}
	date = truncateToDay(date)

	cacheKey := fmt.Sprintf("summary:%s:day:%s", childID, date.Format("2006-01-02"))
	var cached dto.SummaryResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	summary, err := s.summaries.GetByChildAndDate(ctx, childID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.ErrNotFound
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load summary")
	}

	resp := dto.NewSummaryResponse(*summary)
	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL)
	}
	return &resp, false, nil
}

// StartSchedule boots an optional in-process trigger that generates
// yesterday's summaries on a fixed interval. External scheduling remains the
// default; this exists for deployments without one.
func (s *SummaryService) StartSchedule(ctx context.Context) {
	if !s.cfg.ScheduleEnabled || s.cfg.ScheduleInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.ScheduleInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				target := truncateToDay(s.now().UTC().AddDate(0, 0, -1))
				if _, err := s.Generate(ctx, target); err != nil {
					s.logger.Sugar().Errorw("scheduled summary run failed",
						"date", target.Format("2006-01-02"), "error", err)
				}
			}
		}
	}()
}

type cachedSummaryList struct {
	Items      []dto.SummaryResponse `json:"items"`
	Pagination *models.Pagination    `json:"pagination"`
}

func summaryListCacheKey(filter models.SummaryFilter) string {
	from, to := "", ""
	if filter.DateFrom != nil {
		from = filter.DateFrom.Format("2006-01-02")
	}
	if filter.DateTo != nil {
		to = filter.DateTo.Format("2006-01-02")
	}
	return fmt.Sprintf("summary:%s:list:%s:%s:%d:%d", filter.ChildID, from, to, filter.Page, filter.PageSize)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
