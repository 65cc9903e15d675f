package ir

import (
	"math"
	"strconv"
)

// Dedup removes exact duplicate instructions (same kind + operands),
// keeping the first occurrence. Callers must re-run Analyze afterward.
func Dedup(l Listing) Listing {
	out := make(Listing, 0, len(l))
	for _, in := range l {
		dup := false
		for _, kept := range out {
			if kept.Equal(in) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, in)
		}
	}
	return out
}

// DCE removes instructions that are not reachable, via RAW predecessor
// edges, from any STORE. Reachability is computed by depth-first search
// starting only at STORE instructions: an instruction visited during that
// search is kept if it has no RAW predecessors at all or is a LOAD (the
// "leaf-keep" rule — a dependency leaf feeding a live STORE survives
// unconditionally), or if at least one of its RAW predecessors is kept.
// Instructions never reached from any STORE are dropped even if they
// themselves have no predecessors (an unused LOAD is dead code).
//
// raw is the RAW-only predecessor bookkeeping from Deps.RAW (not
// Instruction.Preds, which is RAW∪WAR and would over-retain).
func DCE(l Listing, raw [][]int) Listing {
	n := len(l)
	keep := make([]bool, n)
	memo := make([]int8, n) // 0 = unvisited, 1 = kept, 2 = dropped

	var dfs func(i int) bool
	dfs = func(i int) bool {
		if memo[i] != 0 {
			return memo[i] == 1
		}
		memo[i] = 2 // guard against cycles; predecessors are always lower-indexed so this never triggers in practice
		result := len(raw[i]) == 0 || l[i].Kind == LOAD
		if !result {
			// Visit every predecessor: each one is reachable from the STORE
			// too, even after one of them has already been found kept.
			for _, p := range raw[i] {
				if dfs(p) {
					result = true
				}
			}
		}
		if result {
			memo[i] = 1
		} else {
			memo[i] = 2
		}
		return result
	}

	for i, in := range l {
		if in.Kind == STORE {
			dfs(i)
		}
	}
	for i := range l {
		keep[i] = memo[i] == 1
	}

	out := make(Listing, 0, n)
	for i, in := range l {
		if keep[i] {
			out = append(out, in)
		}
	}
	return out
}

// Fold replaces binary ops and SQRT whose operands are all numeric literals
// with an EQ carrying the computed result, rendered back to text via
// strconv so later propagation can paste it as a plain operand string.
func Fold(l Listing) Listing {
	out := l.Clone()
	for i, in := range out {
		switch in.Kind {
		case ADD, SUB, MUL, DIV:
			a, aok := literal(in.Args[0])
			b, bok := literal(in.Args[1])
			if !aok || !bok {
				continue
			}
			var v float64
			switch in.Kind {
			case ADD:
				v = a + b
			case SUB:
				v = a - b
			case MUL:
				v = a * b
			case DIV:
				v = a / b
			}
			out[i] = Instruction{Kind: EQ, Dest: in.Dest, Args: []string{formatNumber(v)}}
		case SQRT:
			a, aok := literal(in.Args[0])
			if !aok {
				continue
			}
			out[i] = Instruction{Kind: EQ, Dest: in.Dest, Args: []string{formatNumber(math.Sqrt(a))}}
		}
	}
	return out
}

// Propagate substitutes operands that are produced by an EQ RAW predecessor
// with that EQ's literal value, then strips every EQ instruction from the
// listing. It reports whether any substitution occurred. The returned
// listing is undecorated by the strip; callers must re-run Analyze on it.
func Propagate(l Listing) (Listing, bool) {
	out := l.Clone()
	changed := false
	_, _, deps := Analyze(l)

	eqValue := make(map[int]string)
	eqDest := make(map[int]string)
	for i, in := range out {
		if in.Kind == EQ {
			eqDest[i] = in.Dest
			eqValue[i] = in.Args[0]
		}
	}

	for i := range out {
		in := &out[i]
		if in.Kind == LOAD {
			continue
		}
		maxArgs := len(in.Args)
		if in.Kind == STORE || in.Kind == SQRT {
			maxArgs = 1
			if len(in.Args) < 1 {
				maxArgs = 0
			}
		}
		for a := 0; a < maxArgs; a++ {
			operand := in.Args[a]
			if !IsRegister(operand) {
				continue
			}
			for _, p := range deps.RAW[i] {
				if eqDest[p] == operand {
					in.Args[a] = eqValue[p]
					changed = true
					break
				}
			}
		}
	}

	stripped := make(Listing, 0, len(out))
	for _, in := range out {
		if in.Kind != EQ {
			stripped = append(stripped, in)
		}
	}
	return stripped, changed
}

// OptimizeResult is the output of the fixed-point optimization loop,
// carrying the final decorated listing plus the dataflow edges computed on
// the last Analyze call for external dataflow-graph rendering.
type OptimizeResult struct {
	Listing Listing
	Edges   []Edge
}

// Optimize runs dedup, then DCE, then the fold+propagate fixed point, each
// followed by a re-analysis, matching the reference pipeline's ordering.
func Optimize(l Listing) OptimizeResult {
	cur, edges, _ := Analyze(l)

	cur = Dedup(cur)
	var deps Deps
	cur, edges, deps = Analyze(cur)

	cur = DCE(cur, deps.RAW)
	cur, edges, _ = Analyze(cur)

	for {
		cur = Fold(cur)
		var changed bool
		cur, changed = Propagate(cur)
		cur, edges, _ = Analyze(cur)
		if !changed {
			break
		}
	}

	return OptimizeResult{Listing: cur, Edges: edges}
}

func literal(tok string) (float64, bool) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
