package domain

import (
	"github.com/google/uuid"
)

type InformationKind string

const (
	KindPriorKnowledge InformationKind = "prior_knowledge"
	KindNewInformation InformationKind = "new_information"
)

// Information is one asserted or received statement of a conversation.
// It owns exactly two literals: Literals[0] is non-negated, Literals[1]
// the negation.
type Information struct {
	ID            uuid.UUID       `json:"id"`
	Key           string          `json:"key"`
	Kind          InformationKind `json:"kind"`
	Message       string          `json:"message"`
	IsInstruction bool            `json:"is_instruction"`
	Timing        int             `json:"timing"`
	Source        string          `json:"source,omitempty"`

	FeltTrustImmediately *float64 `json:"felt_trust_immediately,omitempty"`
	FeltTrustAfterwards  *float64 `json:"felt_trust_afterwards,omitempty"`

	Literals   [2]*Literal        `json:"-"`
	RepeatedBy []*Message         `json:"-"`
	TargetedBy []*InformationLink `json:"-"`
	Causes     []*InformationLink `json:"-"`
}

// NewPriorKnowledge creates a prior knowledge node attributed to the author.
func NewPriorKnowledge(key, message string, isInstruction bool) *Information {
	return newInformation(key, KindPriorKnowledge, message, isInstruction, PriorKnowledgeTiming, "")
}

// NewReceivedInformation creates a node produced by a receive message.
func NewReceivedInformation(key, message string, isInstruction bool, timing int, source string) *Information {
	return newInformation(key, KindNewInformation, message, isInstruction, timing, source)
}

func newInformation(key string, kind InformationKind, message string, isInstruction bool, timing int, source string) *Information {
	info := &Information{
		ID:            uuid.New(),
		Key:           key,
		Kind:          kind,
		Message:       message,
		IsInstruction: isInstruction,
		Timing:        timing,
		Source:        source,
	}
	info.Literals[0] = &Literal{Info: info}
	info.Literals[1] = &Literal{Info: info, Negated: true}
	return info
}

func (i *Information) IsPriorKnowledge() bool {
	return i.Kind == KindPriorKnowledge
}

// Partner returns the conversation partner the information is attributed to.
func (i *Information) Partner() string {
	if i.IsPriorKnowledge() || i.Source == "" {
		return AuthorName
	}
	return i.Source
}

// Positive returns the non-negated literal.
func (i *Information) Positive() *Literal {
	return i.Literals[0]
}

// Negative returns the negated literal.
func (i *Information) Negative() *Literal {
	return i.Literals[1]
}

// Link adds a typed edge from source to target and registers it on both ends.
func Link(id int, source *Information, target Targetable, t LinkType) *InformationLink {
	l := &InformationLink{ID: id, Source: source, Target: target, Type: t}
	source.Causes = append(source.Causes, l)
	if info, ok := target.(*Information); ok {
		info.TargetedBy = append(info.TargetedBy, l)
	}
	return l
}
