package sched

import "github.com/oisee/tascompile/pkg/ir"

// Strategy selects which rebalancing algorithm Plan uses.
type Strategy string

const (
	Greedy Strategy = "greedy"
	Anneal Strategy = "anneal"
)

// Plan is the full output of assignment + synchronization: the chosen
// assignment, its schedule, and which strategy's result was actually used
// (anneal falls back to greedy if it fails to improve on it, per the
// "anneal never regresses" guarantee).
type Plan struct {
	Assignment   Assignment
	Schedule     Schedule
	Used         Strategy
	RebalanceLog []Trace
}

// Build runs initial assignment, rebalancing (by strategy), and
// synchronization, returning the full plan.
func Build(n, p int, listing ir.Listing, lat LatencyTable, strategy Strategy, seed uint64) Plan {
	initial := InitialAssignment(n, p)
	greedyAssignment, traces := RebalanceTraced(initial, listing, lat)

	if strategy != Anneal {
		return Plan{
			Assignment:   greedyAssignment,
			Schedule:     Synchronize(greedyAssignment, listing, lat),
			Used:         Greedy,
			RebalanceLog: traces,
		}
	}

	annealed := AnnealAssignment(greedyAssignment, listing, lat, DefaultAnnealConfig(seed))
	greedySchedule := Synchronize(greedyAssignment, listing, lat)
	annealedSchedule := Synchronize(annealed, listing, lat)

	if annealedSchedule.TotalCycles() < greedySchedule.TotalCycles() {
		return Plan{
			Assignment:   annealed,
			Schedule:     annealedSchedule,
			Used:         Anneal,
			RebalanceLog: traces,
		}
	}
	return Plan{
		Assignment:   greedyAssignment,
		Schedule:     greedySchedule,
		Used:         Greedy,
		RebalanceLog: traces,
	}
}
