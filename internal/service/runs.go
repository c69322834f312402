package service

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrRunStoreDisabled = errors.New("run persistence is not configured")

// RunService persists finished analyses. A nil store disables it.
type RunService struct {
	store  domain.RunStore
	logger *zap.Logger
}

func NewRunService(store domain.RunStore, logger *zap.Logger) *RunService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunService{store: store, logger: logger}
}

func (s *RunService) Enabled() bool {
	return s.store != nil
}

// Record stores the run summary and every trust row of the sweep.
func (s *RunService) Record(ctx context.Context, source string, a *Analysis) (*domain.AnalysisRun, error) {
	if !s.Enabled() {
		return nil, ErrRunStoreDisabled
	}
	run := &domain.AnalysisRun{
		Title:            a.Conversation.Title,
		Source:           source,
		InformationCount: len(a.Argumentation.Infos),
		ArgumentCount:    a.Argumentation.Arguments.Len(),
	}
	if err := s.store.CreateRun(ctx, run); err != nil {
		return nil, err
	}
	rows := TrustRows(run.ID, a)
	if err := s.store.SaveTrustRows(ctx, run.ID, rows); err != nil {
		return nil, err
	}
	s.logger.Info("analysis run recorded",
		zap.String("run_id", run.ID.String()),
		zap.String("title", run.Title),
		zap.Int("rows", len(rows)))
	return run, nil
}

func (s *RunService) List(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	if !s.Enabled() {
		return nil, ErrRunStoreDisabled
	}
	return s.store.ListRuns(ctx, limit)
}

// Trust returns the run and its stored trust rows.
func (s *RunService) Trust(ctx context.Context, id uuid.UUID) (*domain.AnalysisRun, []domain.TrustRow, error) {
	if !s.Enabled() {
		return nil, nil, ErrRunStoreDisabled
	}
	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.store.GetTrustRows(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return run, rows, nil
}

// TrustRows flattens a sweep into one row per weight, preset and
// information, in timing order.
func TrustRows(runID uuid.UUID, a *Analysis) []domain.TrustRow {
	infos := a.Conversation.AllInformation()
	byID := a.Conversation.InformationByID()
	var rows []domain.TrustRow
	for _, ws := range a.Sweep {
		for _, cr := range ws.Configs {
			for _, id := range SortedByTiming(infos, cr.Result) {
				info := byID[id]
				pair := cr.Result[id]
				rows = append(rows, domain.TrustRow{
					RunID:         runID,
					Weight:        ws.Weight,
					Configuration: cr.Configuration.Name,
					InformationID: id,
					Timing:        info.Timing,
					Message:       info.Message,
					InitialTrust:  pair.Initial,
					CurrentTrust:  pair.Current,
				})
			}
		}
	}
	return rows
}
