package domain

import "fmt"

type LinkType string

const (
	LinkSupport       LinkType = "SUPPORT"
	LinkStrongSupport LinkType = "STRONG_SUPPORT"
	LinkAttack        LinkType = "ATTACK"
	LinkStrongAttack  LinkType = "STRONG_ATTACK"
	LinkSupplement    LinkType = "SUPPLEMENT"
)

func ValidLinkType(t string) bool {
	switch LinkType(t) {
	case LinkSupport, LinkStrongSupport, LinkAttack, LinkStrongAttack, LinkSupplement:
		return true
	}
	return false
}

// LinkWeights is the argumentation influence of each link type during trust
// propagation. Types missing from the table weigh 0.
var LinkWeights = map[LinkType]float64{
	LinkSupport:       0.5,
	LinkStrongSupport: 1.0,
	LinkAttack:        -0.5,
	LinkStrongAttack:  -1.0,
	LinkSupplement:    0.0,
}

func EdgeWeight(t LinkType) float64 {
	return LinkWeights[t]
}

func (t LinkType) IsSupport() bool {
	return t == LinkSupport || t == LinkStrongSupport
}

func (t LinkType) IsAttack() bool {
	return t == LinkAttack || t == LinkStrongAttack
}

// Targetable is either an *Information or an *InformationLink. Links
// targeting links form recursive argumentation chains.
type Targetable interface {
	isTarget()
}

func (*Information) isTarget()     {}
func (*InformationLink) isTarget() {}

// InformationLink is a typed directed edge owned by the conversation graph.
type InformationLink struct {
	ID     int
	Source *Information
	Target Targetable
	Type   LinkType
}

// FinalTarget follows a chain of recursive links down to the information it
// ultimately points at. It returns nil if the chain loops or ends nowhere.
func (l *InformationLink) FinalTarget() *Information {
	seen := make(map[*InformationLink]bool)
	cur := l
	for cur != nil && !seen[cur] {
		seen[cur] = true
		switch t := cur.Target.(type) {
		case *Information:
			return t
		case *InformationLink:
			cur = t
		default:
			return nil
		}
	}
	return nil
}

func (l *InformationLink) String() string {
	target := "?"
	switch t := l.Target.(type) {
	case *Information:
		target = t.Key
	case *InformationLink:
		target = fmt.Sprintf("link#%d", t.ID)
	}
	return fmt.Sprintf("%s -%s-> %s", l.Source.Key, l.Type, target)
}
