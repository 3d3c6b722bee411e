package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
	"github.com/bloomwell/maternity-ai/backend/internal/domain/repositories"
	"github.com/bloomwell/maternity-ai/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/bloomwell/maternity-ai/backend/pkg/errors"
)

const runsTable = "recommendation_runs"

// RecommendationLogAdapter persists the pipeline audit log in Postgres.
type RecommendationLogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.RecommendationLogRepository = (*RecommendationLogAdapter)(nil)

// NewRecommendationLogAdapter creates a new audit-log adapter.
func NewRecommendationLogAdapter(client *postgres.Client) *RecommendationLogAdapter {
	return &RecommendationLogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// EnsureSchema creates the audit table if it does not exist.
func (a *RecommendationLogAdapter) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS recommendation_runs (
			id UUID PRIMARY KEY,
			result_id TEXT NOT NULL,
			gestational_week INT NOT NULL,
			documents_used INT NOT NULL,
			item_count INT NOT NULL,
			fallback BOOLEAN NOT NULL,
			latency_ms BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := a.client.DB().ExecContext(ctx, query); err != nil {
		return apperrors.NewInternalError("failed to ensure recommendation_runs schema", err)
	}
	return nil
}

// LogRun records one pipeline execution.
func (a *RecommendationLogAdapter) LogRun(ctx context.Context, run *entities.RecommendationRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"id":               run.ID,
		"result_id":        run.ResultID,
		"gestational_week": run.GestationalWeek,
		"documents_used":   run.DocumentsUsed,
		"item_count":       run.ItemCount,
		"fallback":         run.Fallback,
		"latency_ms":       run.LatencyMs,
		"created_at":       run.CreatedAt,
	}

	query, args, err := a.db.Insert(runsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build audit insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log recommendation run", err)
	}

	return nil
}

// ListFallbackRuns returns the most recent degraded runs.
func (a *RecommendationLogAdapter) ListFallbackRuns(ctx context.Context, limit int) ([]*entities.RecommendationRun, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := a.db.From(runsTable).
		Select("id", "result_id", "gestational_week", "documents_used", "item_count", "fallback", "latency_ms", "created_at").
		Where(goqu.C("fallback").IsTrue()).
		Order(goqu.C("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build fallback query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list fallback runs", err)
	}
	defer rows.Close()

	var runs []*entities.RecommendationRun
	for rows.Next() {
		r := &entities.RecommendationRun{}
		err := rows.Scan(
			&r.ID,
			&r.ResultID,
			&r.GestationalWeek,
			&r.DocumentsUsed,
			&r.ItemCount,
			&r.Fallback,
			&r.LatencyMs,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan recommendation run", err)
		}
		runs = append(runs, r)
	}

	return runs, nil
}
