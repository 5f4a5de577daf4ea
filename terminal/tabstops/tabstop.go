package tabstops

import (
	"github.com/hnimtadd/vterm/terminal/size"
	"github.com/hnimtadd/vterm/terminal/utils"
)

// Unit is the type we use per tabstop unit.
type Unit = uint8

const (
	unitBits         size.CellCountInt = 8 // bits in Unit (uint8)
	preallocCols                       = 512
	preallocCount                      = int(preallocCols / unitBits)
	TABSTOP_INTERVAL                   = 8 // Default tabstop interval
)

// Tabstops efficiently tracks tabstop locations.
type Tabstops struct {
	cols     size.CellCountInt
	prealloc [preallocCount]Unit
	dynamic  []Unit
}

// Helper: bit mask for each bit in a Unit
var masks = func() [unitBits]Unit {
	var m [unitBits]Unit
	for i := range unitBits {
		m[i] = 1 << i
	}
	return m
}()

func entry(col size.CellCountInt) int { return int(col / unitBits) }
func index(col size.CellCountInt) int { return int(col % unitBits) }

// NewTabstops creates a new Tabstops for the given number of columns and
// interval.
func NewTabstops(cols size.CellCountInt, interval uint8) *Tabstops {
	t := &Tabstops{cols: cols}
	t.Resize(cols)
	t.Reset(interval)
	return t
}

// Set sets the tabstop at a certain column (0-indexed).
func (t *Tabstops) Set(col size.CellCountInt) {
	i, idx := entry(col), index(col)
	if i < preallocCount {
		t.prealloc[i] |= masks[idx]
		return
	}
	dynI := i - preallocCount
	if dynI < len(t.dynamic) {
		t.dynamic[dynI] |= masks[idx]
	}
}

// Unset unsets the tabstop at a certain column (0-indexed).
func (t *Tabstops) Unset(col size.CellCountInt) {
	i, idx := entry(col), index(col)
	if i < preallocCount {
		t.prealloc[i] &^= masks[idx]
		return
	}
	dynI := i - preallocCount
	if dynI < len(t.dynamic) {
		t.dynamic[dynI] &^= masks[idx]
	}
}

// Get returns true if a tabstop is set at the given column.
func (t *Tabstops) Get(col size.CellCountInt) bool {
	if col < 0 || col >= t.cols {
		return false
	}
	i, idx := entry(col), index(col)
	mask := masks[idx]
	var unit Unit
	if i < preallocCount {
		unit = t.prealloc[i]
	} else {
		dynI := i - preallocCount
		utils.Assert(dynI < len(t.dynamic))
		unit = t.dynamic[dynI]
	}
	return unit&mask == mask
}

// Next returns the column of the first tabstop after col, or the last
// column when none remains.
func (t *Tabstops) Next(col size.CellCountInt) size.CellCountInt {
	for c := col + 1; c < t.cols; c++ {
		if t.Get(c) {
			return c
		}
	}
	return t.cols - 1
}

// Prev returns the column of the first tabstop before col, or 0 when none
// remains.
func (t *Tabstops) Prev(col size.CellCountInt) size.CellCountInt {
	for c := col - 1; c > 0; c-- {
		if t.Get(c) {
			return c
		}
	}
	return 0
}

// Resize ensures the Tabstops can support up to cols columns. Stops beyond
// the new width are discarded.
func (t *Tabstops) Resize(cols size.CellCountInt) {
	for c := cols; c < t.cols; c++ {
		t.Unset(c)
	}
	t.cols = cols

	// do nothing if it fits.
	if cols <= preallocCols {
		return
	}

	// What we need in the dynamic size
	needed := int(cols-preallocCols+unitBits-1) / int(unitBits)
	if needed <= len(t.dynamic) {
		return
	}
	grown := make([]Unit, needed)
	copy(grown, t.dynamic)
	t.dynamic = grown
}

// Capacity returns the maximum number of columns this can support
// currently.
func (t *Tabstops) Capacity() int {
	return (preallocCount + len(t.dynamic)) * int(unitBits)
}

// Reset unsets all tabstops and then sets initial tabstops at the given
// interval.
func (t *Tabstops) Reset(interval uint8) {
	for i := range t.prealloc {
		t.prealloc[i] = 0
	}
	for i := range t.dynamic {
		t.dynamic[i] = 0
	}
	if interval > 0 {
		for i := size.CellCountInt(interval); i < t.cols; i += size.CellCountInt(interval) {
			t.Set(i)
		}
	}
}
