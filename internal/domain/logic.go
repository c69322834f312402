package domain

// LogicExpression is either a *Literal or a *Junction.
type LogicExpression interface {
	isLogicExpression()
}

// Literal is one of the two propositions owned by an Information.
type Literal struct {
	Info     *Information
	Negated  bool
	Premises []LogicExpression
}

func (*Literal) isLogicExpression() {}

// Negation returns the sibling literal of the same information.
func (l *Literal) Negation() *Literal {
	if l.Negated {
		return l.Info.Literals[0]
	}
	return l.Info.Literals[1]
}

// AddPremise registers an inference rule that would justify l.
func (l *Literal) AddPremise(e LogicExpression) {
	l.Premises = append(l.Premises, e)
}

// Junction is an ordered conjunction or disjunction of expressions.
type Junction struct {
	Disjunction bool
	Content     []LogicExpression
}

func (*Junction) isLogicExpression() {}

func And(content ...LogicExpression) *Junction {
	return &Junction{Content: content}
}

func Or(content ...LogicExpression) *Junction {
	return &Junction{Disjunction: true, Content: content}
}

// Literals returns every literal contained in e, descending into nested
// junctions, in order of appearance.
func Literals(e LogicExpression) []*Literal {
	switch v := e.(type) {
	case *Literal:
		return []*Literal{v}
	case *Junction:
		var out []*Literal
		for _, c := range v.Content {
			out = append(out, Literals(c)...)
		}
		return out
	}
	return nil
}

// LogicArgument is a claim together with the expression justifying it.
type LogicArgument struct {
	Claim    *Literal
	Premises []LogicExpression
}

func NewLogicArgument(claim *Literal, premise LogicExpression) *LogicArgument {
	return &LogicArgument{Claim: claim, Premises: []LogicExpression{premise}}
}

// IsAxiom reports whether the argument asserts its claim by itself.
func (a *LogicArgument) IsAxiom() bool {
	if len(a.Premises) != 1 {
		return false
	}
	l, ok := a.Premises[0].(*Literal)
	return ok && l == a.Claim
}
