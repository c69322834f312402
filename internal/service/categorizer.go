package service

import (
	"math"
)

// HCategorizer computes the h-categorizer strength of an undercut tree:
// 1 for a leaf, otherwise 1/(1+Σ strength of the undercutters). A cycle in
// the undercut relation yields a *CyclicArgumentError.
func HCategorizer(t ArgumentTree) (float64, error) {
	g := t.graph
	memo := make(map[int]float64)
	visiting := make(map[int]bool)
	var path []int

	var strength func(id int) (float64, error)
	strength = func(id int) (float64, error) {
		if v, ok := memo[id]; ok {
			return v, nil
		}
		if visiting[id] {
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			cycle := append(append([]int{}, path[start:]...), id)
			return 0, g.cycleError(cycle)
		}
		visiting[id] = true
		path = append(path, id)

		sum := 1.0
		for _, c := range g.children[id] {
			v, err := strength(c)
			if err != nil {
				return 0, err
			}
			sum += v
		}

		path = path[:len(path)-1]
		visiting[id] = false
		memo[id] = 1 / sum
		return memo[id], nil
	}

	return strength(t.node)
}

// FlatTreeHCategorizer is the h-categorizer of a depth-one tree with n leaf
// undercutters.
func FlatTreeHCategorizer(n int) float64 {
	return 1 / (1 + float64(n))
}

// LogAccumulator combines pro and con strengths into one signed value:
// ln(1+Σ|pro|) - ln(1+Σ|con|). No evidence at all gives 0.
func LogAccumulator(pro, con []float64) float64 {
	if len(pro) == 0 && len(con) == 0 {
		return 0
	}
	proSum, conSum := 1.0, 1.0
	for _, v := range pro {
		proSum += math.Abs(v)
	}
	for _, v := range con {
		conSum += math.Abs(v)
	}
	return math.Log(proSum) - math.Log(conSum)
}
