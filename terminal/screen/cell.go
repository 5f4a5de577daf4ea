package screen

import "github.com/hnimtadd/vterm/terminal/style"

// Cell is the content of one grid position. A zero Char means the cell
// is empty.
type Cell struct {
	Char  uint32
	Style style.Style
	// WideTail marks the second half of a double-width glyph.
	WideTail bool
}

// LineProperty is the per-line attribute bitset.
type LineProperty uint8

const (
	LineDoubleWidth LineProperty = 1 << iota
	LineDoubleHeight
	LineWrapped
)

// Has reports whether every bit of q is set in p.
func (p LineProperty) Has(q LineProperty) bool { return p&q == q }

// Line pairs the cells of one row with the row's properties.
type Line struct {
	Cells []Cell
	Props LineProperty
}

// LineSaver receives lines evicted off the top of the screen. The
// callback owns the line and must not call back into the emulator.
type LineSaver func(line Line)
