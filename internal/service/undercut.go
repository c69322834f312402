package service

import (
	"github.com/Harshitk-cp/keml-analysis/internal/domain"
)

// UndercutGraph stores the undercut relation between arguments as an arena:
// node ids index args, children[id] lists the ids of the undercutters.
// Nothing in the construction prevents cycles; Validate detects them.
type UndercutGraph struct {
	args     []*domain.LogicArgument
	index    map[*domain.LogicArgument]int
	children [][]int
}

// BuildUndercutTrees links every argument to the arguments attacking one of
// its premises. For a literal premise p the undercutters are the arguments
// for ¬p, excluding those with the same claim as the undercut argument.
// For a junction premise every contained literal is attacked the same way,
// without the same-claim exclusion.
func BuildUndercutTrees(args *ArgumentSet) *UndercutGraph {
	all := args.All()
	g := &UndercutGraph{
		args:     all,
		index:    make(map[*domain.LogicArgument]int, len(all)),
		children: make([][]int, len(all)),
	}
	for id, a := range all {
		g.index[a] = id
	}

	for id, a := range all {
		for _, premise := range a.Premises {
			switch p := premise.(type) {
			case *domain.Literal:
				for _, u := range args.For(p.Negation()) {
					if u.Claim != a.Claim {
						g.children[id] = append(g.children[id], g.index[u])
					}
				}
			case *domain.Junction:
				for _, l := range domain.Literals(p) {
					for _, u := range args.For(l.Negation()) {
						g.children[id] = append(g.children[id], g.index[u])
					}
				}
			}
		}
	}
	return g
}

// Len returns the number of argument nodes.
func (g *UndercutGraph) Len() int {
	return len(g.args)
}

// Tree returns the undercut tree rooted at a.
func (g *UndercutGraph) Tree(a *domain.LogicArgument) (ArgumentTree, bool) {
	id, ok := g.index[a]
	if !ok {
		return ArgumentTree{}, false
	}
	return ArgumentTree{graph: g, node: id}, true
}

// Trees returns every tree in argument discovery order.
func (g *UndercutGraph) Trees() []ArgumentTree {
	out := make([]ArgumentTree, len(g.args))
	for id := range g.args {
		out[id] = ArgumentTree{graph: g, node: id}
	}
	return out
}

// Validate returns a *CyclicArgumentError if some argument transitively
// undercuts itself.
func (g *UndercutGraph) Validate() error {
	const (
		white = iota
		grey
		black
	)
	color := make([]int, len(g.args))
	var stack []int

	var visit func(id int) []int
	visit = func(id int) []int {
		color[id] = grey
		stack = append(stack, id)
		for _, c := range g.children[id] {
			switch color[c] {
			case grey:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == c {
						cycle := append([]int{}, stack[i:]...)
						return append(cycle, c)
					}
				}
			case white:
				if cycle := visit(c); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	for id := range g.args {
		if color[id] != white {
			continue
		}
		if cycle := visit(id); cycle != nil {
			return g.cycleError(cycle)
		}
	}
	return nil
}

func (g *UndercutGraph) cycleError(ids []int) *CyclicArgumentError {
	cycle := make([]*domain.LogicArgument, len(ids))
	for i, id := range ids {
		cycle[i] = g.args[id]
	}
	return &CyclicArgumentError{Cycle: cycle}
}

// ArgumentTree is a view of one node of an UndercutGraph. Children may be
// shared with other trees.
type ArgumentTree struct {
	graph *UndercutGraph
	node  int
}

func (t ArgumentTree) Root() *domain.LogicArgument {
	return t.graph.args[t.node]
}

func (t ArgumentTree) Children() []ArgumentTree {
	ids := t.graph.children[t.node]
	out := make([]ArgumentTree, len(ids))
	for i, id := range ids {
		out[i] = ArgumentTree{graph: t.graph, node: id}
	}
	return out
}

func (t ArgumentTree) IsLeaf() bool {
	return len(t.graph.children[t.node]) == 0
}
