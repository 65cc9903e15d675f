package sched

import "github.com/oisee/tascompile/pkg/ir"

// Entry is one issued slot in a PE's synthesized schedule: either a real IR
// instruction (Index >= 0) or NOP padding (Index == -1).
type Entry struct {
	Index int // listing index, or -1 for NOP padding
}

// IsNOP reports whether the entry is NOP padding.
func (e Entry) IsNOP() bool { return e.Index < 0 }

// Schedule is the synchronizer's output: one ordered entry list per PE,
// plus the number of cycles the schedule spans.
type Schedule struct {
	PEs    [][]Entry
	Cycles int
}

// Synchronize produces a per-PE cycle-accurate schedule honoring every
// instruction's predecessor set (RAW∪WAR). Each cycle: PEs whose current
// instruction has ≤1 cycle remaining retire it first; then idle PEs scan
// their assigned task list in order and dispatch the first task whose
// predecessors are all done; then any PE still idle (because nothing
// dispatchable remains for it yet) is padded with a NOP.
func Synchronize(a Assignment, listing ir.Listing, lat LatencyTable) Schedule {
	n := len(listing)
	p := len(a.PEs)

	current := make([]int, p)   // listing index currently executing on PE, -1 if idle
	remaining := make([]int, p) // cycles left for current[p]
	done := make([]bool, n)
	doneCount := 0
	for i := range current {
		current[i] = -1
	}

	sched := Schedule{PEs: make([][]Entry, p)}

	for doneCount < n {
		// 1. Retire.
		for pe := 0; pe < p; pe++ {
			if current[pe] == -1 {
				continue
			}
			if remaining[pe] <= 1 {
				done[current[pe]] = true
				doneCount++
				current[pe] = -1
			} else {
				remaining[pe]--
			}
		}

		// 2. Dispatch. Scan each idle PE's full assigned list in order for
		// the first task that is both undone and whose predecessors are
		// all done — a later, ready task may dispatch ahead of an earlier,
		// not-yet-ready one on the same PE.
		for pe := 0; pe < p; pe++ {
			if current[pe] != -1 {
				continue
			}
			for _, idx := range a.PEs[pe] {
				if done[idx] {
					continue
				}
				if allDone(listing[idx].Preds, done) {
					current[pe] = idx
					remaining[pe] = lat.Latency(listing[idx])
					sched.PEs[pe] = append(sched.PEs[pe], Entry{Index: idx})
					break
				}
			}
		}

		// 3. Pad idle PEs, but only while work remains globally — once the
		// last instruction retires this cycle, doneCount == n and every PE
		// is idle; that's completion, not a stall, so no trailing NOP slot
		// is emitted for it.
		if doneCount < n {
			sched.Cycles++
			for pe := 0; pe < p; pe++ {
				if current[pe] == -1 {
					sched.PEs[pe] = append(sched.PEs[pe], Entry{Index: -1})
				}
			}
		}
	}

	return sched
}

func allDone(preds []int, done []bool) bool {
	for _, p := range preds {
		if !done[p] {
			return false
		}
	}
	return true
}

// TotalCycles returns the number of cycles the schedule spans. Every PE's
// expanded stream (latency-many lines per instruction, at least one, and
// one line per NOP) has exactly this many lines.
func (s Schedule) TotalCycles() int {
	return s.Cycles
}
