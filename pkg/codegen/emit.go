// Package codegen expands a synchronized schedule into per-PE text
// streams and writes them to files.
package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oisee/tascompile/pkg/ir"
	"github.com/oisee/tascompile/pkg/sched"
)

// Expand renders one PE's schedule entries into lines: each non-NOP entry
// occupies Latency(entry) lines (first line the instruction text, the rest
// blank filler), and NOP occupies exactly one line.
func Expand(entries []sched.Entry, listing ir.Listing, lat sched.LatencyTable) []string {
	var lines []string
	for _, e := range entries {
		if e.IsNOP() {
			lines = append(lines, "NOP")
			continue
		}
		in := listing[e.Index]
		n := lat.Latency(in)
		if n < 1 {
			n = 1
		}
		lines = append(lines, in.Text())
		for i := 1; i < n; i++ {
			lines = append(lines, "")
		}
	}
	return lines
}

// FileName returns the canonical per-PE output file name.
func FileName(pe int) string {
	return fmt.Sprintf("PE_%d_code.txt", pe)
}

// Write renders a full schedule to outdir, one PE_<p>_code.txt per PE.
func Write(outdir string, schedule sched.Schedule, listing ir.Listing, lat sched.LatencyTable) error {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outdir, err)
	}
	for pe, entries := range schedule.PEs {
		lines := Expand(entries, listing, lat)
		path := filepath.Join(outdir, FileName(pe))
		content := strings.Join(lines, "\n")
		if len(lines) > 0 {
			content += "\n"
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
