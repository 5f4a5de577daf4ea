package screen

import (
	"github.com/hnimtadd/vterm/terminal/size"
	"github.com/hnimtadd/vterm/terminal/style"
)

// Cursor tracks the insertion position and the pending-wrap state.
// WrapPending means the rightmost column has been written and the next
// printable should wrap first.
type Cursor struct {
	X, Y        size.CellCountInt
	WrapPending bool
}

// savedCursor is the single DECSC snapshot slot.
type savedCursor struct {
	cursor Cursor
	style  style.Style
}
