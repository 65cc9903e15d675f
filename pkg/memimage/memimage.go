// Package memimage parses and holds the "<addr> = <value>" memory image
// format the simulator seeds its initial MEM state from.
package memimage

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/oisee/tascompile/pkg/diag"
)

// Image is an address-to-value memory snapshot.
type Image map[string]float64

// Parse reads a memory image from text: one "addr = value" entry per
// non-blank line, whitespace stripped around both sides.
func Parse(text string) (Image, error) {
	img := Image{}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, &diag.MemoryFormatError{Line: i + 1, Text: line}
		}
		addr := strings.TrimSpace(parts[0])
		valText := strings.TrimSpace(parts[1])
		if addr == "" {
			return nil, &diag.MemoryFormatError{Line: i + 1, Text: line}
		}
		val, err := strconv.ParseFloat(valText, 64)
		if err != nil {
			return nil, &diag.MemoryFormatError{Line: i + 1, Text: line}
		}
		img[addr] = val
	}
	return img, nil
}

// Load reads and parses a memory image file.
func Load(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading memory image %s: %w", path, err)
	}
	return Parse(string(data))
}

// Clone returns an independent copy, used so concurrent sweep workers each
// get their own mutable seed.
func (img Image) Clone() Image {
	out := make(Image, len(img))
	for k, v := range img {
		out[k] = v
	}
	return out
}

// Equal reports whether two images hold identical addresses and values.
func Equal(a, b Image) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// FirstMismatch returns the first address (in sorted order) whose value
// differs between a and b, for diagnostic reporting.
func FirstMismatch(a, b Image) (addr string, av, bv float64, ok bool) {
	keys := make([]string, 0, len(a)+len(b))
	seen := map[string]bool{}
	for k := range a {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range b {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		x, xok := a[k]
		y, yok := b[k]
		if !xok || !yok || x != y {
			return k, x, y, true
		}
	}
	return "", 0, 0, false
}
