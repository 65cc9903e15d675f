// Package sched assigns optimized IR instructions to processing elements
// and synthesizes a cycle-accurate, dependency-respecting schedule for each
// one.
package sched

import "github.com/oisee/tascompile/pkg/ir"

// LatencyTable maps an instruction kind name to its cycle latency.
type LatencyTable map[string]int

// Latency returns the cycle cost of in, or 0 if its kind is absent from the
// table (matching the reference cost model).
func (t LatencyTable) Latency(in ir.Instruction) int {
	return t[in.Kind.String()]
}

// Assignment is a partition of listing indices into P ordered per-PE task
// lists.
type Assignment struct {
	PEs [][]int // PEs[p] is the ordered list of listing indices assigned to PE p
}

func costOf(pe []int, listing ir.Listing, lat LatencyTable) int {
	total := 0
	for _, idx := range pe {
		total += lat.Latency(listing[idx])
	}
	return total
}

// InitialAssignment distributes listing indices round-robin across P PEs,
// by source order: index i goes to PE i mod P.
func InitialAssignment(n, p int) Assignment {
	pes := make([][]int, p)
	for i := 0; i < n; i++ {
		pe := i % p
		pes[pe] = append(pes[pe], i)
	}
	return Assignment{PEs: pes}
}

// costs returns the per-PE execution cost vector for an assignment.
func costs(a Assignment, listing ir.Listing, lat LatencyTable) []int {
	out := make([]int, len(a.PEs))
	for p, pe := range a.PEs {
		out[p] = costOf(pe, listing, lat)
	}
	return out
}

func imbalance(cs []int) int {
	if len(cs) == 0 {
		return 0
	}
	min, max := cs[0], cs[0]
	for _, c := range cs[1:] {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return max - min
}

func argExtreme(cs []int, pickMax bool) int {
	best := 0
	for i, c := range cs {
		if pickMax {
			if c > cs[best] {
				best = i
			}
		} else {
			if c < cs[best] {
				best = i
			}
		}
	}
	return best
}

func cloneAssignment(a Assignment) Assignment {
	out := Assignment{PEs: make([][]int, len(a.PEs))}
	for i, pe := range a.PEs {
		out.PEs[i] = append([]int(nil), pe...)
	}
	return out
}

// Rebalance repeatedly migrates the head task of the most-loaded PE onto
// the least-loaded PE as long as doing so strictly reduces the imbalance
// (max cost - min cost). It stops and retains the previous assignment as
// soon as a migration fails to improve things, or the assignment is
// already balanced. This is deliberately monotone-greedy, not globally
// optimal (see the head-only migration quirk), which is what makes it
// terminate and what makes its output deterministic and reproducible.
func Rebalance(initial Assignment, listing ir.Listing, lat LatencyTable) Assignment {
	cur := initial
	curCost := costs(cur, listing, lat)
	curImbalance := imbalance(curCost)

	for {
		if curImbalance == 0 {
			return cur
		}
		hi := argExtreme(curCost, true)
		lo := argExtreme(curCost, false)
		if hi == lo || len(cur.PEs[hi]) == 0 {
			return cur
		}

		next := cloneAssignment(cur)
		moved := next.PEs[hi][0]
		next.PEs[hi] = append([]int(nil), next.PEs[hi][1:]...)
		next.PEs[lo] = append(next.PEs[lo], moved)

		nextCost := costs(next, listing, lat)
		nextImbalance := imbalance(nextCost)

		if nextImbalance >= curImbalance {
			return cur
		}
		cur, curCost, curImbalance = next, nextCost, nextImbalance
	}
}

// Trace is one rebalance iteration's imbalance-before/after pair, kept for
// the `run` subcommand's console reporting.
type Trace struct {
	Iteration    int
	NewImbalance int
	OldImbalance int
}

// RebalanceTraced behaves like Rebalance but also returns the sequence of
// attempted iterations (including the final, rejected one) for diagnostic
// printing.
func RebalanceTraced(initial Assignment, listing ir.Listing, lat LatencyTable) (Assignment, []Trace) {
	cur := initial
	curCost := costs(cur, listing, lat)
	curImbalance := imbalance(curCost)
	var traces []Trace

	iter := 0
	for {
		if curImbalance == 0 {
			return cur, traces
		}
		hi := argExtreme(curCost, true)
		lo := argExtreme(curCost, false)
		if hi == lo || len(cur.PEs[hi]) == 0 {
			return cur, traces
		}

		next := cloneAssignment(cur)
		moved := next.PEs[hi][0]
		next.PEs[hi] = append([]int(nil), next.PEs[hi][1:]...)
		next.PEs[lo] = append(next.PEs[lo], moved)

		nextCost := costs(next, listing, lat)
		nextImbalance := imbalance(nextCost)
		iter++
		traces = append(traces, Trace{Iteration: iter, NewImbalance: nextImbalance, OldImbalance: curImbalance})

		if nextImbalance >= curImbalance {
			return cur, traces
		}
		cur, curCost, curImbalance = next, nextCost, nextImbalance
	}
}

// TotalCost sums per-PE cost across every PE, used to compare assignment
// strategies (e.g. the annealing pass never regressing vs greedy).
func TotalCost(a Assignment, listing ir.Listing, lat LatencyTable) int {
	total := 0
	for _, c := range costs(a, listing, lat) {
		total += c
	}
	return total
}

// MaxCost returns the busiest PE's cost, which is what the synchronizer's
// total cycle count tracks most closely.
func MaxCost(a Assignment, listing ir.Listing, lat LatencyTable) int {
	cs := costs(a, listing, lat)
	if len(cs) == 0 {
		return 0
	}
	m := cs[0]
	for _, c := range cs[1:] {
		if c > m {
			m = c
		}
	}
	return m
}
