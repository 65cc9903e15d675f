package bench

import (
	"testing"

	"github.com/oisee/tascompile/pkg/ir"
	"github.com/oisee/tascompile/pkg/memimage"
	"github.com/oisee/tascompile/pkg/sched"
)

func TestSweepFourPEsNotSlowerThanOne(t *testing.T) {
	stmts := ir.Tokenize("t0 = LOAD(a); t1 = LOAD(b); t2 = LOAD(c); t3 = LOAD(d); t4 = t0*t1; t5 = t2*t3; t6 = t4+t5; STORE(e, t6);")
	listing, err := ir.BuildAll(stmts)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	opt := ir.Optimize(listing)

	lat := sched.LatencyTable{"LOAD": 2, "STORE": 2, "ADD": 1, "MUL": 3}
	mem := memimage.Image{"a": 1, "b": 2, "c": 3, "d": 4}

	points := Sweep(opt.Listing, mem, lat, 4, Config{NumWorkers: 2})
	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}
	for _, p := range points {
		if p.Err != nil {
			t.Errorf("PE=%d: %v", p.PECount, p.Err)
		}
	}
	if points[3].Cycles > points[0].Cycles {
		t.Errorf("4-PE cycles (%d) worse than 1-PE (%d)", points[3].Cycles, points[0].Cycles)
	}
}
