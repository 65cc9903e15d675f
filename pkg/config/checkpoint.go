package config

import (
	"encoding/gob"
	"os"

	"github.com/oisee/tascompile/pkg/ir"
)

func init() {
	gob.Register(ir.Instruction{})
	gob.Register(ir.Kind(0))
}

// Checkpoint snapshots an optimized IR listing so a compile can be paused
// after optimization (--dump-ir) and resumed straight into scheduling
// (--load-ir) without re-parsing and re-optimizing source.
type Checkpoint struct {
	Listing ir.Listing
	Edges   []ir.Edge
}

// SaveCheckpoint writes ckpt to path.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint reads a checkpoint previously written by SaveCheckpoint.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}
