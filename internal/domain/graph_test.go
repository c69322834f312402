package domain

import "testing"

func TestEdgeWeight(t *testing.T) {
	tests := []struct {
		linkType LinkType
		want     float64
	}{
		{LinkSupport, 0.5},
		{LinkStrongSupport, 1.0},
		{LinkAttack, -0.5},
		{LinkStrongAttack, -1.0},
		{LinkSupplement, 0.0},
		{LinkType("ACCEPT"), 0.0},
		{LinkType(""), 0.0},
	}

	for _, tt := range tests {
		t.Run(string(tt.linkType), func(t *testing.T) {
			if got := EdgeWeight(tt.linkType); got != tt.want {
				t.Errorf("EdgeWeight(%q) = %v, want %v", tt.linkType, got, tt.want)
			}
		})
	}
}

func TestValidLinkType(t *testing.T) {
	for _, s := range []string{"SUPPORT", "STRONG_SUPPORT", "ATTACK", "STRONG_ATTACK", "SUPPLEMENT"} {
		if !ValidLinkType(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []string{"ACCEPT", "CHALLENGE", "REJECT", "support", ""} {
		if ValidLinkType(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestLink_RegistersBothEnds(t *testing.T) {
	a := NewPriorKnowledge("a", "A", false)
	b := NewReceivedInformation("b", "B", false, 1, "LLM")

	l := Link(1, b, a, LinkAttack)

	if len(b.Causes) != 1 || b.Causes[0] != l {
		t.Fatalf("source causes = %v, want [%v]", b.Causes, l)
	}
	if len(a.TargetedBy) != 1 || a.TargetedBy[0] != l {
		t.Fatalf("target targetedBy = %v, want [%v]", a.TargetedBy, l)
	}
}

func TestFinalTarget(t *testing.T) {
	a := NewPriorKnowledge("a", "A", false)
	b := NewReceivedInformation("b", "B", false, 1, "LLM")
	c := NewReceivedInformation("c", "C", false, 2, "LLM")

	direct := Link(1, b, a, LinkSupport)
	recursive := Link(2, c, direct, LinkAttack)
	deeper := Link(3, a, recursive, LinkSupport)

	if got := deeper.FinalTarget(); got != a {
		t.Errorf("FinalTarget() = %v, want %v", got, a)
	}
	if len(a.TargetedBy) != 1 {
		t.Errorf("recursive links must not register on the information, got %d", len(a.TargetedBy))
	}

	loop := &InformationLink{ID: 4, Source: a}
	loop.Target = loop
	if got := loop.FinalTarget(); got != nil {
		t.Errorf("FinalTarget() of a looping chain = %v, want nil", got)
	}
}
