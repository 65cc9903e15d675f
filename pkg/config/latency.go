// Package config loads the latency table, the optional TOML driver
// configuration, and IR checkpoints that let a compile be paused after
// optimization and resumed straight into scheduling.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oisee/tascompile/pkg/sched"
)

// DefaultLatencyTable is used when no --latency file is given. Values are
// the operation_latency.json defaults this codebase's lineage ships with.
func DefaultLatencyTable() sched.LatencyTable {
	return sched.LatencyTable{
		"LOAD":  2,
		"STORE": 2,
		"EQ":    1,
		"ADD":   1,
		"SUB":   1,
		"MUL":   3,
		"DIV":   4,
		"SQRT":  6,
		"NOP":   1,
	}
}

// LoadLatencyTable decodes a flat JSON object mapping instruction kind
// names to integer cycle counts. A single flat map needs no schema
// versioning or streaming, so encoding/json (stdlib) is the right tool
// here rather than a richer third-party decoder.
func LoadLatencyTable(path string) (sched.LatencyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading latency table %s: %w", path, err)
	}
	var table sched.LatencyTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing latency table %s: %w", path, err)
	}
	return table, nil
}
