package domain

import (
	"context"

	"github.com/google/uuid"
)

type RunStore interface {
	CreateRun(ctx context.Context, run *AnalysisRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*AnalysisRun, error)
	ListRuns(ctx context.Context, limit int) ([]AnalysisRun, error)
	SaveTrustRows(ctx context.Context, runID uuid.UUID, rows []TrustRow) error
	GetTrustRows(ctx context.Context, runID uuid.UUID) ([]TrustRow, error)
}
