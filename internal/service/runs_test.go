package service

import (
	"context"
	"testing"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/Harshitk-cp/keml-analysis/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRunStore implements domain.RunStore for testing.
type mockRunStore struct {
	runs map[uuid.UUID]*domain.AnalysisRun
	rows map[uuid.UUID][]domain.TrustRow
}

func newMockRunStore() *mockRunStore {
	return &mockRunStore{
		runs: make(map[uuid.UUID]*domain.AnalysisRun),
		rows: make(map[uuid.UUID][]domain.TrustRow),
	}
}

func (m *mockRunStore) CreateRun(ctx context.Context, r *domain.AnalysisRun) error {
	r.ID = uuid.New()
	m.runs[r.ID] = r
	return nil
}

func (m *mockRunStore) GetRun(ctx context.Context, id uuid.UUID) (*domain.AnalysisRun, error) {
	r, ok := m.runs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r, nil
}

func (m *mockRunStore) ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	var out []domain.AnalysisRun
	for _, r := range m.runs {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRunStore) SaveTrustRows(ctx context.Context, runID uuid.UUID, rows []domain.TrustRow) error {
	if _, ok := m.runs[runID]; !ok {
		return store.ErrNotFound
	}
	m.rows[runID] = append(m.rows[runID], rows...)
	return nil
}

func (m *mockRunStore) GetTrustRows(ctx context.Context, runID uuid.UUID) ([]domain.TrustRow, error) {
	return m.rows[runID], nil
}

func singleWeightAnalysis(t *testing.T) *Analysis {
	t.Helper()
	conv, _, _ := sweepFixture()
	opts := DefaultSweepOptions()
	opts.MaxWeight = opts.MinWeight
	a, err := NewAnalysisService(nil, zap.NewNop()).Analyze(context.Background(), conv, opts)
	require.NoError(t, err)
	return a
}

func TestTrustRows(t *testing.T) {
	a := singleWeightAnalysis(t)
	runID := uuid.New()

	rows := TrustRows(runID, a)
	// 1 weight * 4 presets * 3 information
	require.Len(t, rows, 12)
	for _, r := range rows {
		assert.Equal(t, runID, r.RunID)
		assert.Equal(t, DefaultMinWeight, r.Weight)
	}
	assert.Equal(t, "all-1.0", rows[0].Configuration)
	assert.Equal(t, domain.PriorKnowledgeTiming, rows[0].Timing)
	assert.Equal(t, "all-0.5", rows[11].Configuration)
}

func TestRunService_RecordAndTrust(t *testing.T) {
	s := NewRunService(newMockRunStore(), nil)
	require.True(t, s.Enabled())
	ctx := context.Background()
	a := singleWeightAnalysis(t)

	run, err := s.Record(ctx, "fixture.json", a)
	require.NoError(t, err)
	assert.Equal(t, "test", run.Title)
	assert.Equal(t, "fixture.json", run.Source)
	assert.Equal(t, 3, run.InformationCount)

	got, rows, err := s.Trust(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Len(t, rows, 12)

	runs, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunService_TrustUnknownRun(t *testing.T) {
	s := NewRunService(newMockRunStore(), nil)
	_, _, err := s.Trust(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRunService_Disabled(t *testing.T) {
	s := NewRunService(nil, nil)
	assert.False(t, s.Enabled())

	_, err := s.Record(context.Background(), "x", singleWeightAnalysis(t))
	assert.ErrorIs(t, err, ErrRunStoreDisabled)
	_, err = s.List(context.Background(), 0)
	assert.ErrorIs(t, err, ErrRunStoreDisabled)
}
