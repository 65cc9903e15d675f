// Package bench sweeps a compiled program across a range of PE counts
// concurrently, each point driving its own independent single-threaded
// simulator instance, and reports cycle counts and speedup. This is the
// only place in the module where the core pipeline runs under real
// goroutine concurrency — the worker-pool shape is adapted from this
// codebase's search worker pool, repurposed from instruction-candidate
// checking to PE-count sweep points.
package bench

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/oisee/tascompile/pkg/codegen"
	"github.com/oisee/tascompile/pkg/ir"
	"github.com/oisee/tascompile/pkg/memimage"
	"github.com/oisee/tascompile/pkg/sched"
	"github.com/oisee/tascompile/pkg/sim"
)

// Point is one PE-count sweep result.
type Point struct {
	PECount int
	Cycles  int
	Used    sched.Strategy
	Err     error
}

// Config tunes the sweep.
type Config struct {
	NumWorkers int // 0 picks runtime.NumCPU()
	Strategy   sched.Strategy
	Seed       uint64
	Verbose    bool
}

// Sweep runs the full pipeline (assign, synchronize, emit in-memory,
// simulate) once per PE count in [1, maxPE], across a worker pool, and
// returns results ordered by PE count ascending.
func Sweep(listing ir.Listing, mem memimage.Image, lat sched.LatencyTable, maxPE int, cfg Config) []Point {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	if cfg.Strategy == "" {
		cfg.Strategy = sched.Greedy
	}

	type task struct{ pe int }
	tasks := make(chan task, maxPE)
	for p := 1; p <= maxPE; p++ {
		tasks <- task{pe: p}
	}
	close(tasks)

	results := make([]Point, maxPE)
	var mu sync.Mutex
	var completed int

	startTime := time.Now()
	done := make(chan struct{})
	if cfg.Verbose {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					mu.Lock()
					c := completed
					mu.Unlock()
					fmt.Printf("  [%s] %d/%d PE counts swept\n", time.Since(startTime).Round(time.Second), c, maxPE)
				}
			}
		}()
	}

	var wg sync.WaitGroup
	for i := 0; i < cfg.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				pt := runOne(listing, mem, lat, t.pe, cfg)
				results[t.pe-1] = pt
				mu.Lock()
				completed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(done)

	sort.Slice(results, func(i, j int) bool { return results[i].PECount < results[j].PECount })
	return results
}

func runOne(listing ir.Listing, mem memimage.Image, lat sched.LatencyTable, pe int, cfg Config) Point {
	plan := sched.Build(len(listing), pe, listing, lat, cfg.Strategy, cfg.Seed)

	machine := sim.NewMachine(mem.Clone())
	programs := make([][]sim.Line, pe)
	for p, entries := range plan.Schedule.PEs {
		lines := codegen.Expand(entries, listing, lat)
		programs[p] = sim.LoadLines(joinLines(lines))
	}

	cycles, err := machine.Run(programs, lat, nil)
	return Point{PECount: pe, Cycles: cycles, Used: plan.Used, Err: err}
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}
