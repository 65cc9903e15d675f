package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Driver holds optional tascompile.toml defaults, loaded the same
// sectioned-struct-with-tags way this codebase's sibling TOML config
// loader reads its driver settings. CLI flags always override these.
type Driver struct {
	Output   OutputSection   `toml:"output"`
	Schedule ScheduleSection `toml:"schedule"`
}

// OutputSection controls how diagnostics and traces are printed.
type OutputSection struct {
	Color   bool `toml:"color"`
	Verbose bool `toml:"verbose"`
}

// ScheduleSection controls assignment defaults.
type ScheduleSection struct {
	DefaultPECount int    `toml:"default_pe_count"`
	DefaultAssign  string `toml:"default_assign"`
}

// DefaultDriver returns built-in defaults used when no tascompile.toml is
// present.
func DefaultDriver() Driver {
	return Driver{
		Output:   OutputSection{Color: false, Verbose: false},
		Schedule: ScheduleSection{DefaultPECount: 4, DefaultAssign: "greedy"},
	}
}

// LoadDriver reads a tascompile.toml file, falling back to DefaultDriver
// for any unset section.
func LoadDriver(path string) (Driver, error) {
	d := DefaultDriver()
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return Driver{}, fmt.Errorf("parsing driver config %s: %w", path, err)
	}
	return d, nil
}
