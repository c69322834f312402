package service

import (
	"errors"
	"math"
	"testing"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// argumentFixture: A is prior knowledge, +B follows from +A and ¬A follows
// from +C.
func argumentFixture() (*domain.Conversation, *domain.Information, *domain.Information, *domain.Information) {
	b := newConv("LLM")
	a := b.prior("A")
	bi := b.info("LLM", "B")
	c := b.info("LLM", "C")
	bi.Positive().AddPremise(a.Positive())
	a.Negative().AddPremise(c.Positive())
	return b.conv, a, bi, c
}

func TestBuildLogicArguments(t *testing.T) {
	conv, a, bi, c := argumentFixture()
	args := BuildLogicArguments(conv.AllInformation())

	require.Len(t, args.For(a.Positive()), 1)
	assert.True(t, args.For(a.Positive())[0].IsAxiom())

	require.Len(t, args.For(bi.Positive()), 1)
	assert.Equal(t, bi.Positive(), args.For(bi.Positive())[0].Claim)

	require.Len(t, args.For(a.Negative()), 1)
	assert.Equal(t, []domain.LogicExpression{c.Positive()}, args.For(a.Negative())[0].Premises)

	for _, l := range []*domain.Literal{bi.Negative(), c.Positive(), c.Negative()} {
		assert.True(t, args.Has(l))
		assert.NotNil(t, args.For(l))
		assert.Empty(t, args.For(l))
	}
	assert.Equal(t, 3, args.Len())
	assert.Len(t, args.Literals(), 6)
}

func TestBuildLogicArguments_NegatedPriorKnowledgeIsNoAxiom(t *testing.T) {
	b := newConv()
	a := b.prior("A")
	args := BuildLogicArguments(b.conv.AllInformation())

	assert.Len(t, args.For(a.Positive()), 1)
	assert.Empty(t, args.For(a.Negative()))
}

func TestBuildRebuttals(t *testing.T) {
	conv, a, bi, _ := argumentFixture()
	args := BuildLogicArguments(conv.AllInformation())
	rebuttals := BuildRebuttals(args)

	assert.Equal(t, args.For(a.Negative()), rebuttals[a.Positive()])
	assert.Equal(t, args.For(a.Positive()), rebuttals[a.Negative()])
	assert.Empty(t, rebuttals[bi.Positive()])

	// involution: the rebuttals of ¬l are the arguments rebutting the rebuttals of l
	for _, l := range args.Literals() {
		assert.Equal(t, args.For(l), rebuttals[l.Negation()])
	}
}

func TestBuildUndercutTrees(t *testing.T) {
	conv, a, bi, _ := argumentFixture()
	args := BuildLogicArguments(conv.AllInformation())
	g := BuildUndercutTrees(args)
	require.NoError(t, g.Validate())
	assert.Equal(t, 3, g.Len())

	tree, ok := g.Tree(args.For(bi.Positive())[0])
	require.True(t, ok)
	require.Len(t, tree.Children(), 1)
	assert.Equal(t, args.For(a.Negative())[0], tree.Children()[0].Root())
	assert.True(t, tree.Children()[0].IsLeaf())

	axiom, ok := g.Tree(args.For(a.Positive())[0])
	require.True(t, ok)
	assert.Len(t, axiom.Children(), 1)

	_, ok = g.Tree(&domain.LogicArgument{})
	assert.False(t, ok)
}

func TestBuildUndercutTrees_SelfClaimGuard(t *testing.T) {
	b := newConv("LLM")
	x := b.info("LLM", "X")
	x.Positive().AddPremise(x.Negative())

	args := BuildLogicArguments(b.conv.AllInformation())
	g := BuildUndercutTrees(args)

	require.NoError(t, g.Validate())
	tree, _ := g.Tree(args.For(x.Positive())[0])
	assert.True(t, tree.IsLeaf())
}

func TestBuildUndercutTrees_JunctionHasNoSelfClaimGuard(t *testing.T) {
	b := newConv("LLM")
	x := b.info("LLM", "X")
	y := b.info("LLM", "Y")
	x.Positive().AddPremise(domain.And(x.Negative(), y.Positive()))

	args := BuildLogicArguments(b.conv.AllInformation())
	g := BuildUndercutTrees(args)

	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCyclicArguments))
}

func TestBuildUndercutTrees_NestedJunction(t *testing.T) {
	b := newConv("LLM")
	x := b.info("LLM", "X")
	y := b.info("LLM", "Y")
	z := b.info("LLM", "Z")
	x.Positive().AddPremise(domain.Or(y.Positive(), domain.And(z.Positive())))
	z.Negative().AddPremise(y.Negative())

	args := BuildLogicArguments(b.conv.AllInformation())
	g := BuildUndercutTrees(args)
	require.NoError(t, g.Validate())

	tree, _ := g.Tree(args.For(x.Positive())[0])
	require.Len(t, tree.Children(), 1)
	assert.Equal(t, z.Negative(), tree.Children()[0].Root().Claim)
}

func cyclicArguments() (*domain.Conversation, *ArgumentSet) {
	b := newConv("LLM")
	a := b.info("LLM", "A")
	bi := b.info("LLM", "B")
	bi.Negative().AddPremise(a.Positive())
	a.Negative().AddPremise(bi.Positive())
	return b.conv, BuildLogicArguments(b.conv.AllInformation())
}

func TestUndercutGraph_ValidateCycle(t *testing.T) {
	_, args := cyclicArguments()
	g := BuildUndercutTrees(args)

	err := g.Validate()
	require.Error(t, err)

	var cycErr *CyclicArgumentError
	require.True(t, errors.As(err, &cycErr))
	require.GreaterOrEqual(t, len(cycErr.Cycle), 3)
	assert.Equal(t, cycErr.Cycle[0], cycErr.Cycle[len(cycErr.Cycle)-1])
	assert.Contains(t, err.Error(), "¬A")
	assert.Contains(t, err.Error(), "¬B")
}

func TestHCategorizer(t *testing.T) {
	conv, a, bi, _ := argumentFixture()
	args := BuildLogicArguments(conv.AllInformation())
	g := BuildUndercutTrees(args)

	tests := []struct {
		name string
		arg  *domain.LogicArgument
		want float64
	}{
		{"leaf", args.For(a.Negative())[0], 1},
		{"one undercutter", args.For(bi.Positive())[0], 0.5},
		{"axiom undercut", args.For(a.Positive())[0], 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, ok := g.Tree(tt.arg)
			require.True(t, ok)
			got, err := HCategorizer(tree)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestHCategorizer_Cycle(t *testing.T) {
	_, args := cyclicArguments()
	g := BuildUndercutTrees(args)

	for _, tree := range g.Trees() {
		if tree.IsLeaf() {
			continue
		}
		_, err := HCategorizer(tree)
		assert.True(t, errors.Is(err, ErrCyclicArguments))
	}
}

func TestFlatTreeHCategorizer(t *testing.T) {
	assert.Equal(t, 1.0, FlatTreeHCategorizer(0))
	assert.Equal(t, 0.5, FlatTreeHCategorizer(1))
	assert.InDelta(t, 0.25, FlatTreeHCategorizer(3), 1e-9)
}

func TestLogAccumulator(t *testing.T) {
	tests := []struct {
		name string
		pro  []float64
		con  []float64
		want float64
	}{
		{"no evidence", nil, nil, 0},
		{"pro only", []float64{1}, nil, math.Log(2)},
		{"con only", nil, []float64{1, 0.5}, -math.Log(2.5)},
		{"balanced", []float64{0.5}, []float64{0.5}, 0},
		{"absolute values", []float64{-0.5}, nil, math.Log(1.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LogAccumulator(tt.pro, tt.con), 1e-9)
		})
	}
}

func TestLogAccumulator_Antisymmetric(t *testing.T) {
	pro := []float64{0.2, 0.7}
	con := []float64{1}
	assert.InDelta(t, -LogAccumulator(pro, con), LogAccumulator(con, pro), 1e-12)
}
