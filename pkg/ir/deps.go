package ir

import "sort"

// Edge is a RAW dependency pair (producer, consumer) used for dataflow-graph
// rendering.
type Edge struct {
	From int // producer index
	To   int // consumer index
}

// Deps is the per-instruction dependency bookkeeping computed by Analyze.
// RAW holds only read-after-write predecessors (the reference algorithm's
// write_depend) and is what dead-code elimination walks. All is the union
// of RAW and WAR predecessors and is what the scheduler honors — it is
// also copied onto each Instruction's Preds field.
type Deps struct {
	RAW [][]int
	All [][]int
}

// Analyze decorates a fresh (undecorated) listing with predecessor sets
// (Instruction.Preds, the RAW∪WAR union) and returns the RAW-only edge list
// plus the full Deps bookkeeping. It must be rerun after any structural
// change to the listing (delete, reorder, fold) since Preds is
// listing-relative.
func Analyze(l Listing) (Listing, []Edge, Deps) {
	out := l.Clone()
	n := len(out)
	writes := make([]string, n) // destination register written by i, "" if none (STORE/NOP)
	reads := make([][]string, n)

	for i := range out {
		w, ok := out[i].Writes()
		if ok {
			writes[i] = w
		}
		reads[i] = operandRegisters(out[i])
	}

	deps := Deps{RAW: make([][]int, n), All: make([][]int, n)}
	var edges []Edge

	for i := range out {
		rawSet := map[int]bool{}

		// RAW: for each distinct operand, nearest prior writer (reverse
		// scan). Repeated operands (e.g. t0+t0) must not produce duplicate
		// edges or duplicate rawSet entries.
		for _, operand := range dedupStrings(reads[i]) {
			for j := i - 1; j >= 0; j-- {
				if writes[j] == operand && writes[j] != "" {
					if !rawSet[j] {
						rawSet[j] = true
						edges = append(edges, Edge{From: j, To: i})
					}
					break
				}
			}
		}

		allSet := map[int]bool{}
		for j := range rawSet {
			allSet[j] = true
		}

		// WAR: every prior instruction that read the register i writes.
		if w := writes[i]; w != "" {
			for j := 0; j < i; j++ {
				for _, r := range reads[j] {
					if r == w {
						allSet[j] = true
						break
					}
				}
			}
		}

		deps.RAW[i] = sortedKeys(rawSet)
		deps.All[i] = sortedKeys(allSet)
		out[i].Preds = deps.All[i]
	}

	return out, edges, deps
}

// dedupStrings returns s with repeated values collapsed, preserving the
// first occurrence's order — mirrors the reference parser's
// "if token not in depend_tokens" operand dedup.
func dedupStrings(s []string) []string {
	seen := make(map[string]bool, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// operandRegisters returns the register-typed operands read by in (i.e.
// excluding numeric literals and excluding the destination itself).
func operandRegisters(in Instruction) []string {
	var regs []string
	switch in.Kind {
	case LOAD, NOP:
		// LOAD reads memory, not a register; NOP reads nothing.
	case STORE:
		if IsRegister(in.Args[0]) {
			regs = append(regs, in.Args[0])
		}
	default:
		for _, a := range in.Args {
			if IsRegister(a) {
				regs = append(regs, a)
			}
		}
	}
	return regs
}
