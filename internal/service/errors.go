package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
)

var (
	ErrMissingPartnerTrust = errors.New("no trust value for conversation partner")
	ErrPropagationCycle    = errors.New("trust propagation cannot resolve cyclic argumentation")
	ErrCyclicArguments     = errors.New("cyclic argument structure")
	ErrInvalidWeight       = errors.New("invalid argumentation weight")
	ErrInvalidTrust        = errors.New("invalid trust value")
	ErrTrustNotAssigned    = errors.New("initial trust has not been assigned")
)

// StuckNode is an information that could not be resolved during propagation,
// together with the sources of its incoming links.
type StuckNode struct {
	Info    *domain.Information
	Sources []*domain.Information
}

// PropagationCycleError reports the residual set of a propagation that made
// no progress.
type PropagationCycleError struct {
	Stuck []StuckNode
}

func (e *PropagationCycleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "endless loop of %d nodes, please check the argumentation graph", len(e.Stuck))
	for _, s := range e.Stuck {
		for _, src := range s.Sources {
			fmt.Fprintf(&b, "; %q -> %q", src.Message, s.Info.Message)
		}
	}
	return b.String()
}

func (e *PropagationCycleError) Unwrap() error {
	return ErrPropagationCycle
}

// CyclicArgumentError reports a cycle in the undercut relation. Cycle lists
// the arguments in undercut order, the first one repeated at the end.
type CyclicArgumentError struct {
	Cycle []*domain.LogicArgument
}

func (e *CyclicArgumentError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, a := range e.Cycle {
		parts[i] = a.Claim.Info.Key
		if a.Claim.Negated {
			parts[i] = "¬" + parts[i]
		}
	}
	return fmt.Sprintf("%s: %s", ErrCyclicArguments.Error(), strings.Join(parts, " <- "))
}

func (e *CyclicArgumentError) Unwrap() error {
	return ErrCyclicArguments
}
