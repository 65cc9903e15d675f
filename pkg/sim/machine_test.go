package sim

import (
	"testing"

	"github.com/oisee/tascompile/pkg/memimage"
	"github.com/oisee/tascompile/pkg/sched"
)

func lt() sched.LatencyTable {
	return sched.LatencyTable{"LOAD": 2, "STORE": 2, "ADD": 1, "SUB": 1, "MUL": 3, "DIV": 3, "SQRT": 4}
}

func TestLoadAddStore(t *testing.T) {
	mem := memimage.Image{"a": 2, "b": 3}
	m := NewMachine(mem)
	prog0 := LoadLines("LOAD, t0, a\nLOAD, t1, b\nADD, t2, t0, t1\nSTORE, c, t2\n")
	cycles, err := m.Run([][]Line{prog0}, lt(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if cycles <= 0 {
		t.Errorf("expected positive cycle count, got %d", cycles)
	}
	if got := m.MEM["c"]; got != 5 {
		t.Errorf("MEM[c] = %v, want 5", got)
	}
}

func TestUnknownMemoryAddress(t *testing.T) {
	m := NewMachine(memimage.Image{})
	prog := LoadLines("LOAD, t0, missing\n")
	_, err := m.Run([][]Line{prog}, lt(), nil)
	if err == nil {
		t.Fatal("expected error for missing address")
	}
}

func TestSqrt(t *testing.T) {
	m := NewMachine(memimage.Image{})
	prog := LoadLines("EQ, t0, 16\nSQRT, t1, t0\nSTORE, z, t1\n")
	_, err := m.Run([][]Line{prog}, lt(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := m.MEM["z"]; got != 4 {
		t.Errorf("MEM[z] = %v, want 4", got)
	}
}

func TestScheduleLengthMismatch(t *testing.T) {
	m := NewMachine(memimage.Image{})
	progA := LoadLines("NOP\nNOP\n")
	progB := LoadLines("NOP\n")
	_, err := m.Run([][]Line{progA, progB}, lt(), nil)
	if err == nil {
		t.Fatal("expected ScheduleLengthMismatch error")
	}
}
