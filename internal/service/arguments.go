package service

import (
	"github.com/Harshitk-cp/keml-analysis/internal/domain"
)

// ArgumentSet maps every literal of the analysed information to the logic
// arguments that claim it, in discovery order.
type ArgumentSet struct {
	literals  []*domain.Literal
	byLiteral map[*domain.Literal][]*domain.LogicArgument
	all       []*domain.LogicArgument
}

// BuildLogicArguments derives one argument per stated premise of every
// literal. Non-negated prior knowledge additionally asserts itself as an
// axiom.
func BuildLogicArguments(infos []*domain.Information) *ArgumentSet {
	set := &ArgumentSet{
		byLiteral: make(map[*domain.Literal][]*domain.LogicArgument, 2*len(infos)),
	}

	for _, info := range infos {
		for _, l := range info.Literals {
			if _, seen := set.byLiteral[l]; seen {
				continue
			}
			args := []*domain.LogicArgument{}

			if info.IsPriorKnowledge() && !l.Negated {
				args = append(args, domain.NewLogicArgument(l, l))
			}
			for _, p := range l.Premises {
				args = append(args, domain.NewLogicArgument(l, p))
			}

			set.literals = append(set.literals, l)
			set.byLiteral[l] = args
			set.all = append(set.all, args...)
		}
	}
	return set
}

// For returns the arguments claiming l. Unknown or unsupported literals
// yield an empty list.
func (s *ArgumentSet) For(l *domain.Literal) []*domain.LogicArgument {
	return s.byLiteral[l]
}

// Has reports whether l belongs to the analysed information.
func (s *ArgumentSet) Has(l *domain.Literal) bool {
	_, ok := s.byLiteral[l]
	return ok
}

// Literals returns the literals in discovery order.
func (s *ArgumentSet) Literals() []*domain.Literal {
	return s.literals
}

// All returns every argument in discovery order.
func (s *ArgumentSet) All() []*domain.LogicArgument {
	return s.all
}

func (s *ArgumentSet) Len() int {
	return len(s.all)
}

// Rebuttals maps a literal to the arguments for its negation.
type Rebuttals map[*domain.Literal][]*domain.LogicArgument

// BuildRebuttals links every literal to the arguments of its negation. The
// lists are shared with args, not copied.
func BuildRebuttals(args *ArgumentSet) Rebuttals {
	rebuttals := make(Rebuttals, len(args.literals))
	for _, l := range args.literals {
		rebuttals[l] = args.byLiteral[l.Negation()]
	}
	return rebuttals
}
