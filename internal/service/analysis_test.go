package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sweepFixture() (*domain.Conversation, *domain.Information, *domain.Information) {
	b := newConv("LLM", "Human")
	p := b.prior("P")
	n := b.info("LLM", "N")
	h := b.info("Human", "H")
	b.link(p, n, domain.LinkSupport)
	b.link(h, n, domain.LinkAttack)
	return b.conv, p, n
}

func TestAnalysisService_Sweep(t *testing.T) {
	conv, _, n := sweepFixture()
	svc := NewAnalysisService(nil, zap.NewNop())

	sweep, err := svc.Sweep(context.Background(), conv, DefaultSweepOptions())
	require.NoError(t, err)
	require.Len(t, sweep, DefaultMaxWeight-DefaultMinWeight+1)

	for i, ws := range sweep {
		assert.Equal(t, DefaultMinWeight+i, ws.Weight)
		require.Len(t, ws.Configs, 4)
		assert.Equal(t, "all-1.0", ws.Configs[0].Configuration.Name)
		assert.Equal(t, "all-0.5", ws.Configs[3].Configuration.Name)
	}

	// all-1.0 at weight 2: 1 + 2*(0.5*1 - 0.5*1) = 1
	assert.InDelta(t, 1.0, sweep[0].Configs[0].Result[n.ID].Current, 1e-9)
	// LLM-0.5 at weight 2: 0.5 + 2*(0.5*1 - 0.5*1) = 0.5
	assert.InDelta(t, 0.5, sweep[0].Configs[1].Result[n.ID].Current, 1e-9)
	// others-0.5 at weight 2: 1 + 2*(0.5 - 0.25) clamps to 1
	assert.InDelta(t, 1.0, sweep[0].Configs[2].Result[n.ID].Current, 1e-9)
}

func TestAnalysisService_SweepInvalidRange(t *testing.T) {
	conv, _, _ := sweepFixture()
	svc := NewAnalysisService(nil, nil)

	_, err := svc.Sweep(context.Background(), conv, SweepOptions{MinWeight: 5, MaxWeight: 2})
	assert.True(t, errors.Is(err, ErrInvalidWeight))
}

func TestAnalysisService_SweepCycle(t *testing.T) {
	b := newConv("LLM")
	a := b.info("LLM", "A")
	c := b.info("LLM", "C")
	b.link(a, c, domain.LinkSupport)
	b.link(c, a, domain.LinkSupport)
	svc := NewAnalysisService(nil, nil)

	_, err := svc.Sweep(context.Background(), b.conv, DefaultSweepOptions())
	assert.True(t, errors.Is(err, ErrPropagationCycle))
}

func TestAnalysisService_SweepCancelled(t *testing.T) {
	conv, _, _ := sweepFixture()
	svc := NewAnalysisService(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Sweep(ctx, conv, DefaultSweepOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalysisService_Analyze(t *testing.T) {
	conv, _, _ := sweepFixture()
	svc := NewAnalysisService(NewArgumentationService(zap.NewNop()), zap.NewNop())

	opts := DefaultSweepOptions()
	opts.MaxWeight = 3
	a, err := svc.Analyze(context.Background(), conv, opts)
	require.NoError(t, err)

	assert.Same(t, conv, a.Conversation)
	assert.NotNil(t, a.Stats)
	assert.Len(t, a.Argumentation.Scores, 3)
	assert.Len(t, a.Presets, 4)
	assert.Len(t, a.Sweep, 2)
}
