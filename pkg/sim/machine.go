// Package sim implements the cycle-stepped functional interpreter that
// executes per-PE instruction streams against shared register and memory
// state.
package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/oisee/tascompile/pkg/diag"
	"github.com/oisee/tascompile/pkg/memimage"
	"github.com/oisee/tascompile/pkg/sched"
)

// Machine holds one simulator instance's shared register/memory state.
// Multiple PEs act on the same Machine; only Machine.Run mutates it, one
// PE at a time, in PE-index order within a cycle.
type Machine struct {
	RG  map[string]float64
	MEM memimage.Image
}

// NewMachine creates a Machine seeded with the given memory image. RG
// starts empty.
func NewMachine(mem memimage.Image) *Machine {
	return &Machine{RG: map[string]float64{}, MEM: mem.Clone()}
}

// Line is one parsed, non-blank instruction line: its kind token plus the
// remaining comma-separated operand tokens.
type Line struct {
	Kind string
	Args []string
}

// LoadLines splits raw per-PE file content on newline, drops blank lines,
// and splits each remaining line on comma (trimming surrounding spaces),
// discarding the latency filler the emitter wrote.
func LoadLines(content string) []Line {
	var out []Line
	for _, raw := range strings.Split(content, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		out = append(out, Line{Kind: parts[0], Args: parts[1:]})
	}
	return out
}

// Run executes every PE's program in lockstep until every PE has issued
// its last line. It first checks that all streams span the same number of
// cycles, as the synchronizer's output always does, and returns a
// ScheduleLengthMismatch otherwise. latency supplies per-kind cycle costs;
// NOP is always treated as latency 1 regardless of the table. It returns
// the total number of cycles elapsed (zero if there was no work), or an
// error from the first instruction that fails to execute.
func (m *Machine) Run(programs [][]Line, latency sched.LatencyTable, trace func(cycle int, pe []string)) (int, error) {
	p := len(programs)
	if p == 0 {
		return 0, nil
	}
	// A stream's span is its emitted line count including blank filler:
	// each instruction's latency (at least one cycle), one per NOP.
	span := func(prog []Line) int {
		total := 0
		for _, in := range prog {
			total += max(1, latencyOf(in.Kind, latency))
		}
		return total
	}
	n0 := span(programs[0])
	for pe := 1; pe < p; pe++ {
		if n := span(programs[pe]); n != n0 {
			return 0, &diag.ScheduleLengthMismatch{PE0Len: n0, PELen: n, PE: pe}
		}
	}

	pc := make([]int, p)
	remaining := make([]int, p)
	cycle := 0

	for hasWork(pc, programs) {
		cycle++
		statusLine := make([]string, p)
		for pe := 0; pe < p; pe++ {
			if pc[pe] >= len(programs[pe]) {
				statusLine[pe] = "-"
				continue
			}
			if remaining[pe] == 0 {
				in := programs[pe][pc[pe]]
				remaining[pe] = latencyOf(in.Kind, latency)
				pc[pe]++
				if err := m.execute(in); err != nil {
					return cycle, fmt.Errorf("PE %d cycle %d: %w", pe, cycle, err)
				}
				statusLine[pe] = in.Kind
			} else {
				statusLine[pe] = "busy"
			}
		}
		if trace != nil {
			trace(cycle, statusLine)
		}
		for pe := 0; pe < p; pe++ {
			if remaining[pe] > 0 {
				remaining[pe]--
			}
		}
	}

	// cycle already counts completed loop iterations (it was incremented
	// once per iteration, starting from 0), matching the reference
	// simulator's "number of full cycles elapsed".
	return cycle, nil
}

func hasWork(pc []int, programs [][]Line) bool {
	for pe, p := range pc {
		if p < len(programs[pe]) {
			return true
		}
	}
	return false
}

func latencyOf(kind string, latency sched.LatencyTable) int {
	if kind == "NOP" {
		return 1
	}
	return latency[kind]
}

func (m *Machine) execute(in Line) error {
	switch in.Kind {
	case "NOP":
		return nil
	case "LOAD":
		dst, addr := in.Args[0], in.Args[1]
		v, ok := m.MEM[addr]
		if !ok {
			return &diag.UnknownMemoryAddress{Addr: addr}
		}
		m.RG[dst] = v
		return nil
	case "STORE":
		addr, src := in.Args[0], in.Args[1]
		v, err := m.resolve(src)
		if err != nil {
			return err
		}
		m.MEM[addr] = v
		return nil
	case "EQ":
		dst := in.Args[0]
		v, err := m.resolve(in.Args[1])
		if err != nil {
			return err
		}
		m.RG[dst] = v
		return nil
	case "ADD", "SUB", "MUL", "DIV":
		dst := in.Args[0]
		a, err := m.resolve(in.Args[1])
		if err != nil {
			return err
		}
		b, err := m.resolve(in.Args[2])
		if err != nil {
			return err
		}
		var v float64
		switch in.Kind {
		case "ADD":
			v = a + b
		case "SUB":
			v = a - b
		case "MUL":
			v = a * b
		case "DIV":
			v = a / b
		}
		m.RG[dst] = v
		return nil
	case "SQRT":
		dst := in.Args[0]
		a, err := m.resolve(in.Args[1])
		if err != nil {
			return err
		}
		m.RG[dst] = math.Sqrt(a)
		return nil
	default:
		return &diag.UnknownInstruction{Text: in.Kind}
	}
}

// resolve evaluates an operand token: a register lookup if it names a
// register, else a numeric literal.
func (m *Machine) resolve(tok string) (float64, error) {
	if len(tok) > 0 && tok[0] == 't' {
		v, ok := m.RG[tok]
		if !ok {
			return 0, &diag.UnknownRegister{Register: tok}
		}
		return v, nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &diag.UnknownRegister{Register: tok}
	}
	return v, nil
}
