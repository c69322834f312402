package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultAuthorTrust          = 1.0
	DefaultDistinguishedTrust   = 0.5
	DefaultDistinguishedPartner = "LLM"
	DefaultMinWeight            = 2
	DefaultMaxWeight            = 10
)

// TrustEvaluator propagates trust through the information graph of one
// conversation. Its state belongs to the evaluator and is never written to
// the graph, so evaluators over the same conversation are independent.
type TrustEvaluator struct {
	conv    *domain.Conversation
	infos   []*domain.Information
	weight  int
	logger  *zap.Logger
	totalRx int

	trust    map[*domain.Information]*domain.TrustPair
	assigned bool
}

func NewTrustEvaluator(conv *domain.Conversation, weight int, logger *zap.Logger) (*TrustEvaluator, error) {
	if weight < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeight, weight)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrustEvaluator{
		conv:    conv,
		infos:   conv.AllInformation(),
		weight:  weight,
		logger:  logger,
		totalRx: len(conv.Receives()),
		trust:   make(map[*domain.Information]*domain.TrustPair),
	}, nil
}

func (e *TrustEvaluator) Weight() int {
	return e.weight
}

// AssignInitialTrust sets initial and current trust of every node: prior
// knowledge gets authorValue, new information the value of its partner.
// Values outside [-1, 1] are clamped; NaN is rejected.
func (e *TrustEvaluator) AssignInitialTrust(partnerTrust map[string]float64, authorValue float64) error {
	if math.IsNaN(authorValue) {
		return fmt.Errorf("%w: author trust is NaN", ErrInvalidTrust)
	}
	trust := make(map[*domain.Information]*domain.TrustPair, len(e.infos))
	for _, info := range e.infos {
		v := authorValue
		if !info.IsPriorKnowledge() {
			pv, ok := partnerTrust[info.Source]
			if !ok {
				return fmt.Errorf("%w: %q", ErrMissingPartnerTrust, info.Source)
			}
			if math.IsNaN(pv) {
				return fmt.Errorf("%w: trust of %q is NaN", ErrInvalidTrust, info.Source)
			}
			v = pv
		}
		v = domain.ClampTrust(v)
		trust[info] = &domain.TrustPair{Initial: v, Current: v}
	}
	e.trust = trust
	e.assigned = true
	return nil
}

// Evaluate resolves the nodes in dependency order. A node is resolved once
// every source of its incoming links is resolved; nodes resolved in the same
// pass never see each other's new values. If a pass resolves nothing the
// remaining nodes form a cycle and a *PropagationCycleError is returned.
func (e *TrustEvaluator) Evaluate() error {
	if !e.assigned {
		return ErrTrustNotAssigned
	}

	pending := make(map[*domain.Information]int, len(e.infos))
	for _, info := range e.infos {
		pending[info] = 0
	}
	successors := make(map[*domain.Information][]*domain.Information)
	for _, info := range e.infos {
		for _, l := range info.TargetedBy {
			if _, known := pending[l.Source]; !known {
				e.logger.Warn("ignoring link from information outside the conversation",
					zap.String("target", info.Key),
					zap.String("source", l.Source.Key))
				continue
			}
			pending[info]++
			successors[l.Source] = append(successors[l.Source], info)
		}
	}

	var ready []*domain.Information
	for _, info := range e.infos {
		if pending[info] == 0 {
			ready = append(ready, info)
		}
	}

	resolved := 0
	for pass := 1; len(ready) > 0; pass++ {
		next := make([]float64, len(ready))
		for i, info := range ready {
			next[i] = e.nodeTrust(info)
		}
		var after []*domain.Information
		for i, info := range ready {
			e.trust[info].Current = next[i]
			delete(pending, info)
			for _, s := range successors[info] {
				pending[s]--
				if pending[s] == 0 {
					after = append(after, s)
				}
			}
		}
		resolved += len(ready)
		e.logger.Debug("trust propagation pass",
			zap.Int("pass", pass),
			zap.Int("resolved", len(ready)),
			zap.Int("remaining", len(pending)))
		ready = after
	}

	if len(pending) > 0 {
		err := e.cycleError(pending)
		e.logger.Error("trust propagation stuck",
			zap.Int("resolved", resolved),
			zap.Int("stuck", len(pending)),
			zap.Error(err))
		return err
	}
	return nil
}

func (e *TrustEvaluator) nodeTrust(info *domain.Information) float64 {
	t := e.trust[info]
	return domain.ClampTrust(t.Initial +
		e.repetitionScore(info) +
		float64(e.weight)*e.argumentationScore(info))
}

func (e *TrustEvaluator) repetitionScore(info *domain.Information) float64 {
	if e.totalRx == 0 {
		return 0
	}
	return float64(len(info.RepeatedBy)) / float64(e.totalRx)
}

// argumentationScore relies on the current trust of the link sources.
// Sources with negative trust work in the opposite direction of the link.
func (e *TrustEvaluator) argumentationScore(info *domain.Information) float64 {
	var sum float64
	for _, l := range info.TargetedBy {
		src, ok := e.trust[l.Source]
		if !ok {
			continue
		}
		sum += domain.EdgeWeight(l.Type) * src.Current
	}
	return sum
}

func (e *TrustEvaluator) cycleError(pending map[*domain.Information]int) *PropagationCycleError {
	err := &PropagationCycleError{}
	for _, info := range e.infos {
		if _, stuck := pending[info]; !stuck {
			continue
		}
		node := StuckNode{Info: info}
		for _, l := range info.TargetedBy {
			node.Sources = append(node.Sources, l.Source)
		}
		err.Stuck = append(err.Stuck, node)
	}
	return err
}

// Snapshot returns a fresh copy of the current trust values.
func (e *TrustEvaluator) Snapshot() domain.TrustResult {
	out := make(domain.TrustResult, len(e.trust))
	for info, t := range e.trust {
		out[info.ID] = *t
	}
	return out
}

// Run assigns initial trust, evaluates and snapshots in one call.
func (e *TrustEvaluator) Run(partnerTrust map[string]float64, authorValue float64) (domain.TrustResult, error) {
	if err := e.AssignInitialTrust(partnerTrust, authorValue); err != nil {
		return nil, err
	}
	if err := e.Evaluate(); err != nil {
		return nil, err
	}
	return e.Snapshot(), nil
}

// UniformPartnerTrust gives every partner the same value.
func UniformPartnerTrust(partners []string, v float64) map[string]float64 {
	m := make(map[string]float64, len(partners))
	for _, p := range partners {
		m[p] = v
	}
	return m
}

// StandardTrustConfigurations returns the four presets of a sensitivity
// sweep: everyone trusted, the distinguished partner at half trust, every
// other partner at half trust, everyone at half trust.
func StandardTrustConfigurations(partners []string, distinguished string, authorValue float64) []domain.TrustConfiguration {
	half := DefaultDistinguishedTrust

	distrusted := UniformPartnerTrust(partners, 1.0)
	distrusted[distinguished] = half

	inverse := UniformPartnerTrust(partners, half)
	inverse[distinguished] = 1.0

	return []domain.TrustConfiguration{
		{Name: "all-1.0", PartnerTrust: UniformPartnerTrust(partners, 1.0), AuthorTrust: authorValue},
		{Name: distinguished + "-" + formatTrust(half), PartnerTrust: distrusted, AuthorTrust: authorValue},
		{Name: "others-" + formatTrust(half), PartnerTrust: inverse, AuthorTrust: authorValue},
		{Name: "all-" + formatTrust(half), PartnerTrust: UniformPartnerTrust(partners, half), AuthorTrust: authorValue},
	}
}

func formatTrust(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// SortedByTiming returns the IDs of a result ordered by timing. Prior
// knowledge comes first; ties keep the order of infos.
func SortedByTiming(infos []*domain.Information, result domain.TrustResult) []uuid.UUID {
	ordered := make([]*domain.Information, 0, len(infos))
	for _, i := range infos {
		if _, ok := result[i.ID]; ok {
			ordered = append(ordered, i)
		}
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].Timing < ordered[b].Timing
	})
	ids := make([]uuid.UUID, len(ordered))
	for i, info := range ordered {
		ids[i] = info.ID
	}
	return ids
}
