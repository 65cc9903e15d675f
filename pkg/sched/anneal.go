package sched

import (
	"math"
	"math/rand/v2"

	"github.com/oisee/tascompile/pkg/ir"
)

// AnnealConfig tunes the optional simulated-annealing rebalance pass.
type AnnealConfig struct {
	Seed        uint64
	Iterations  int
	Temperature float64
	Decay       float64
}

// DefaultAnnealConfig mirrors the donor MCMC chain's defaults, scaled down
// for this machine's much smaller search space (PE-count migrations rather
// than whole-program mutation).
func DefaultAnnealConfig(seed uint64) AnnealConfig {
	return AnnealConfig{Seed: seed, Iterations: 500, Temperature: 4.0, Decay: 0.995}
}

// AnnealAssignment runs simulated annealing over single-task PE-to-PE migrations,
// starting from a greedy-balanced assignment. It accepts a migration
// unconditionally when it does not increase the busiest PE's cost, and
// otherwise accepts it with probability exp(-delta/T) where T decays
// geometrically across iterations (the same Metropolis-Hastings shape as
// this codebase's MCMC search, repurposed from instruction mutation to
// PE-assignment migration). It never returns something worse than start:
// the best assignment seen is tracked separately and returned at the end.
func AnnealAssignment(start Assignment, listing ir.Listing, lat LatencyTable, cfg AnnealConfig) Assignment {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0xA11CE))

	current := cloneAssignment(start)
	currentCost := MaxCost(current, listing, lat)

	best := cloneAssignment(current)
	bestCost := currentCost

	temperature := cfg.Temperature
	for iter := 0; iter < cfg.Iterations; iter++ {
		candidate, ok := randomMigration(current, rng)
		if ok {
			candCost := MaxCost(candidate, listing, lat)
			delta := candCost - currentCost
			accept := false
			if delta <= 0 {
				accept = true
			} else if temperature > 0 {
				if rng.Float64() < math.Exp(-float64(delta)/temperature) {
					accept = true
				}
			}
			if accept {
				current, currentCost = candidate, candCost
				if currentCost < bestCost {
					best, bestCost = cloneAssignment(current), currentCost
				}
			}
		}
		temperature *= cfg.Decay
	}

	return best
}

// randomMigration moves one randomly chosen task from a randomly chosen
// source PE to a different randomly chosen destination PE.
func randomMigration(a Assignment, rng *rand.Rand) (Assignment, bool) {
	p := len(a.PEs)
	if p < 2 {
		return a, false
	}
	var nonEmpty []int
	for i, pe := range a.PEs {
		if len(pe) > 0 {
			nonEmpty = append(nonEmpty, i)
		}
	}
	if len(nonEmpty) == 0 {
		return a, false
	}
	src := nonEmpty[rng.IntN(len(nonEmpty))]
	dst := rng.IntN(p)
	if dst == src {
		dst = (dst + 1) % p
	}
	taskPos := rng.IntN(len(a.PEs[src]))

	out := cloneAssignment(a)
	moved := out.PEs[src][taskPos]
	out.PEs[src] = append(append([]int(nil), out.PEs[src][:taskPos]...), out.PEs[src][taskPos+1:]...)
	out.PEs[dst] = append(out.PEs[dst], moved)
	return out, true
}
