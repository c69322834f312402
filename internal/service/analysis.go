package service

import (
	"context"
	"fmt"
	"runtime"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepOptions selects the weights and presets of a sensitivity sweep.
type SweepOptions struct {
	MinWeight     int
	MaxWeight     int
	Author        float64
	Distinguished string
}

func DefaultSweepOptions() SweepOptions {
	return SweepOptions{
		MinWeight:     DefaultMinWeight,
		MaxWeight:     DefaultMaxWeight,
		Author:        DefaultAuthorTrust,
		Distinguished: DefaultDistinguishedPartner,
	}
}

// ConfigResult is the outcome of one preset at one weight.
type ConfigResult struct {
	Configuration domain.TrustConfiguration
	Result        domain.TrustResult
}

// WeightSweep holds the results of every preset at one weight, in preset
// order.
type WeightSweep struct {
	Weight  int
	Configs []ConfigResult
}

// Analysis bundles every computed view of one conversation.
type Analysis struct {
	Conversation  *domain.Conversation
	Stats         *ConversationStats
	Argumentation *ArgumentationReport
	Presets       []domain.TrustConfiguration
	Sweep         []WeightSweep
}

type AnalysisService struct {
	arguments *ArgumentationService
	logger    *zap.Logger
}

func NewAnalysisService(arguments *ArgumentationService, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if arguments == nil {
		arguments = NewArgumentationService(logger)
	}
	return &AnalysisService{arguments: arguments, logger: logger}
}

func (s *AnalysisService) Arguments() *ArgumentationService {
	return s.arguments
}

// Sweep evaluates every standard preset for every weight in
// [MinWeight, MaxWeight]. Weights run concurrently; the result is ordered by
// weight.
func (s *AnalysisService) Sweep(ctx context.Context, conv *domain.Conversation, opts SweepOptions) ([]WeightSweep, error) {
	if opts.MinWeight < 0 || opts.MaxWeight < opts.MinWeight {
		return nil, fmt.Errorf("%w: range %d..%d", ErrInvalidWeight, opts.MinWeight, opts.MaxWeight)
	}
	presets := StandardTrustConfigurations(conv.PartnerNames(), opts.Distinguished, opts.Author)
	out := make([]WeightSweep, opts.MaxWeight-opts.MinWeight+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range out {
		i := i
		weight := opts.MinWeight + i
		g.Go(func() error {
			ev, err := NewTrustEvaluator(conv, weight, s.logger.With(zap.Int("weight", weight)))
			if err != nil {
				return err
			}
			sweep := WeightSweep{Weight: weight, Configs: make([]ConfigResult, 0, len(presets))}
			for _, p := range presets {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := ev.Run(p.PartnerTrust, p.AuthorTrust)
				if err != nil {
					return fmt.Errorf("weight %d, %s: %w", weight, p.Name, err)
				}
				sweep.Configs = append(sweep.Configs, ConfigResult{Configuration: p, Result: res})
			}
			out[i] = sweep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("trust sweep complete",
		zap.String("conversation", conv.Title),
		zap.Int("weights", len(out)),
		zap.Int("presets", len(presets)))
	return out, nil
}

// Analyze computes statistics, argumentation scores and the trust sweep.
func (s *AnalysisService) Analyze(ctx context.Context, conv *domain.Conversation, opts SweepOptions) (*Analysis, error) {
	report, err := s.arguments.Analyze(conv)
	if err != nil {
		return nil, err
	}
	sweep, err := s.Sweep(ctx, conv, opts)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Conversation:  conv,
		Stats:         ComputeStats(conv),
		Argumentation: report,
		Presets:       StandardTrustConfigurations(conv.PartnerNames(), opts.Distinguished, opts.Author),
		Sweep:         sweep,
	}, nil
}
