// Command tascompile compiles straight-line arithmetic source into
// per-PE instruction streams, schedules them across a chosen number of
// processing elements, and can simulate the result against a memory
// image.
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oisee/tascompile/pkg/bench"
	"github.com/oisee/tascompile/pkg/codegen"
	"github.com/oisee/tascompile/pkg/config"
	"github.com/oisee/tascompile/pkg/dataflow"
	"github.com/oisee/tascompile/pkg/diag"
	"github.com/oisee/tascompile/pkg/ir"
	"github.com/oisee/tascompile/pkg/memimage"
	"github.com/oisee/tascompile/pkg/sched"
	"github.com/oisee/tascompile/pkg/sim"
)

var (
	flagLatency    string
	flagAssign     string
	flagColor      bool
	flagVerbose    bool
	flagDriverTOML string
	flagDFGOut     string
	flagDumpIR     string
	flagLoadIR     string
	flagSeed       int64
)

func main() {
	root := &cobra.Command{
		Use:   "tascompile",
		Short: "Compile and simulate straight-line arithmetic programs across multiple PEs",
	}
	root.PersistentFlags().StringVar(&flagLatency, "latency", "", "path to a JSON operation latency table (default: built-in table)")
	root.PersistentFlags().StringVar(&flagAssign, "assign", "greedy", "assignment strategy: greedy|anneal")
	root.PersistentFlags().BoolVar(&flagColor, "color", false, "colorize diagnostics")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose progress output")
	root.PersistentFlags().StringVar(&flagDriverTOML, "config", "", "path to a tascompile.toml driver config")
	root.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "seed for the anneal assignment strategy")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newSimCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newBenchCmd())

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		driver := loadDriverDefaults()
		if !cmd.Flags().Changed("color") {
			flagColor = driver.Output.Color
		}
		if !cmd.Flags().Changed("verbose") {
			flagVerbose = driver.Output.Verbose
		}
		if !cmd.Flags().Changed("assign") {
			flagAssign = driver.Schedule.DefaultAssign
		}
	}

	if err := root.Execute(); err != nil {
		diag.Report(os.Stderr, err, flagColor)
		os.Exit(1)
	}
}

func loadDriverDefaults() config.Driver {
	if flagDriverTOML == "" {
		return config.DefaultDriver()
	}
	d, err := config.LoadDriver(flagDriverTOML)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		return config.DefaultDriver()
	}
	return d
}

func resolveLatency() (sched.LatencyTable, error) {
	if flagLatency == "" {
		return config.DefaultLatencyTable(), nil
	}
	return config.LoadLatencyTable(flagLatency)
}

func resolveStrategy() sched.Strategy {
	if flagAssign == string(sched.Anneal) {
		return sched.Anneal
	}
	return sched.Greedy
}

func parsePECount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, &diag.ArgumentError{What: fmt.Sprintf("PE count %q must be a positive integer", s)}
	}
	return n, nil
}

func compileSource(source string) (ir.OptimizeResult, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return ir.OptimizeResult{}, &diag.ArgumentError{What: fmt.Sprintf("reading source %s: %v", source, err)}
	}
	stmts := ir.Tokenize(string(data))
	listing, err := ir.BuildAll(stmts)
	if err != nil {
		return ir.OptimizeResult{}, err
	}
	return ir.Optimize(listing), nil
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <source> <outdir> <P>",
		Short: "Optimize source and emit a synchronized P-PE schedule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, outdir, peArg := args[0], args[1], args[2]
			p, err := parsePECount(peArg)
			if err != nil {
				return err
			}
			lat, err := resolveLatency()
			if err != nil {
				return err
			}
			var opt ir.OptimizeResult
			if flagLoadIR != "" {
				ckpt, err := config.LoadCheckpoint(flagLoadIR)
				if err != nil {
					return err
				}
				opt = ir.OptimizeResult{Listing: ckpt.Listing, Edges: ckpt.Edges}
			} else {
				opt, err = compileSource(source)
				if err != nil {
					return err
				}
			}
			if flagDumpIR != "" {
				if err := config.SaveCheckpoint(flagDumpIR, &config.Checkpoint{Listing: opt.Listing, Edges: opt.Edges}); err != nil {
					return err
				}
			}
			if flagDFGOut != "" {
				g := dataflow.New(opt.Listing, opt.Edges)
				if err := os.WriteFile(flagDFGOut, []byte(g.Text()), 0o644); err != nil {
					return err
				}
			}
			plan := sched.Build(len(opt.Listing), p, opt.Listing, lat, resolveStrategy(), uint64(flagSeed))
			if err := codegen.Write(outdir, plan.Schedule, opt.Listing, lat); err != nil {
				return err
			}
			if flagVerbose {
				fmt.Printf("compiled %d instructions onto %d PEs using %s assignment, %d cycles\n",
					len(opt.Listing), p, plan.Used, plan.Schedule.TotalCycles())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagDumpIR, "dump-ir", "", "write an IR checkpoint after optimization")
	cmd.Flags().StringVar(&flagLoadIR, "load-ir", "", "resume from an IR checkpoint instead of parsing <source>")
	cmd.Flags().StringVar(&flagDFGOut, "dfg", "", "write the dependency edge list as plain text")
	return cmd
}

func newSimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sim <codedir> <P> <memimage>",
		Short: "Simulate an existing PE_<p>_code.txt set against a memory image",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			codedir, peArg, memPath := args[0], args[1], args[2]
			p, err := parsePECount(peArg)
			if err != nil {
				return err
			}
			lat, err := resolveLatency()
			if err != nil {
				return err
			}
			mem, err := memimage.Load(memPath)
			if err != nil {
				return err
			}
			programs := make([][]sim.Line, p)
			for pe := 0; pe < p; pe++ {
				path := codedir + string(os.PathSeparator) + codegen.FileName(pe)
				data, err := os.ReadFile(path)
				if err != nil {
					return &diag.ArgumentError{What: fmt.Sprintf("reading %s: %v", path, err)}
				}
				programs[pe] = sim.LoadLines(string(data))
			}
			machine := sim.NewMachine(mem)
			cycles, err := machine.Run(programs, lat, nil)
			if err != nil {
				return err
			}
			fmt.Printf("%d cycles\n", cycles)
			for _, addr := range sortedAddrs(machine.MEM) {
				fmt.Printf("MEM[%s] = %v\n", addr, machine.MEM[addr])
			}
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <source> <memimage> <P>",
		Short: "Compile and simulate single-PE and P-PE builds, then compare final memory",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, memPath, peArg := args[0], args[1], args[2]
			p, err := parsePECount(peArg)
			if err != nil {
				return err
			}
			lat, err := resolveLatency()
			if err != nil {
				return err
			}
			mem, err := memimage.Load(memPath)
			if err != nil {
				return err
			}
			opt, err := compileSource(source)
			if err != nil {
				return err
			}
			if flagVerbose {
				fmt.Printf("optimized IR (%d instructions):\n", len(opt.Listing))
				for i, in := range opt.Listing {
					fmt.Printf("  %d: %s\n", i, in.Text())
				}
			}

			single := sched.Build(len(opt.Listing), 1, opt.Listing, lat, resolveStrategy(), uint64(flagSeed))
			multi := sched.Build(len(opt.Listing), p, opt.Listing, lat, resolveStrategy(), uint64(flagSeed))

			if flagVerbose {
				for _, tr := range multi.RebalanceLog {
					fmt.Printf("  Iteration: %d  New Imbalance: %d, Current Imbalance: %d\n", tr.Iteration, tr.NewImbalance, tr.OldImbalance)
				}
			}

			singleMachine := sim.NewMachine(mem)
			multiMachine := sim.NewMachine(mem)

			singleCycles, err := singleMachine.Run(toPrograms(single.Schedule, opt.Listing, lat), lat, traceFn("single"))
			if err != nil {
				return err
			}
			multiCycles, err := multiMachine.Run(toPrograms(multi.Schedule, opt.Listing, lat), lat, traceFn("multi"))
			if err != nil {
				return err
			}

			fmt.Printf("single-PE: %d cycles\n", singleCycles)
			fmt.Printf("%d-PE (%s): %d cycles\n", p, multi.Used, multiCycles)
			for _, addr := range sortedAddrs(singleMachine.MEM) {
				fmt.Printf("single-PE MEM[%s] = %v\n", addr, singleMachine.MEM[addr])
			}
			for _, addr := range sortedAddrs(multiMachine.MEM) {
				fmt.Printf("%d-PE MEM[%s] = %v\n", p, addr, multiMachine.MEM[addr])
			}

			if memimage.Equal(singleMachine.MEM, multiMachine.MEM) {
				diag.ReportOK(os.Stdout, "final memory images are EQUAL", flagColor)
			} else {
				addr, a, b, _ := memimage.FirstMismatch(singleMachine.MEM, multiMachine.MEM)
				fmt.Printf("final memory images DISAGREE at %s: single=%v multi=%v\n", addr, a, b)
			}
			return nil
		},
	}
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench <source> <memimage> <maxP>",
		Short: "Sweep PE counts 1..maxP concurrently and report cycle counts and speedup",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, memPath, maxArg := args[0], args[1], args[2]
			maxPE, err := parsePECount(maxArg)
			if err != nil {
				return err
			}
			lat, err := resolveLatency()
			if err != nil {
				return err
			}
			mem, err := memimage.Load(memPath)
			if err != nil {
				return err
			}
			opt, err := compileSource(source)
			if err != nil {
				return err
			}
			points := bench.Sweep(opt.Listing, mem, lat, maxPE, bench.Config{
				Strategy: resolveStrategy(),
				Seed:     uint64(flagSeed),
				Verbose:  flagVerbose,
			})
			base := points[0].Cycles
			fmt.Printf("%-4s %-10s %-10s %s\n", "PE", "cycles", "speedup", "assign")
			for _, pt := range points {
				if pt.Err != nil {
					fmt.Printf("%-4d error: %v\n", pt.PECount, pt.Err)
					continue
				}
				speedup := 1.0
				if pt.Cycles > 0 {
					speedup = float64(base) / float64(pt.Cycles)
				}
				fmt.Printf("%-4d %-10d %-10.2f %s\n", pt.PECount, pt.Cycles, speedup, pt.Used)
			}
			return nil
		},
	}
}

func toPrograms(schedule sched.Schedule, listing ir.Listing, lat sched.LatencyTable) [][]sim.Line {
	out := make([][]sim.Line, len(schedule.PEs))
	for pe, entries := range schedule.PEs {
		lines := codegen.Expand(entries, listing, lat)
		content := ""
		for _, l := range lines {
			content += l + "\n"
		}
		out[pe] = sim.LoadLines(content)
	}
	return out
}

func traceFn(label string) func(cycle int, pe []string) {
	return func(cycle int, pe []string) {
		if !flagVerbose {
			return
		}
		fmt.Printf("[%s] cycle %d: %v\n", label, cycle, pe)
	}
}

func sortedAddrs(mem memimage.Image) []string {
	out := make([]string, 0, len(mem))
	for k := range mem {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
