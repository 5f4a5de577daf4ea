// The character grid: cursor, margins, tab stops, rendition, saved
// state and the line-saver hook.
package screen

import (
	"github.com/hnimtadd/vterm/terminal/charsets"
	"github.com/hnimtadd/vterm/terminal/color"
	"github.com/hnimtadd/vterm/terminal/core"
	"github.com/hnimtadd/vterm/terminal/size"
	"github.com/hnimtadd/vterm/terminal/style"
	"github.com/hnimtadd/vterm/terminal/tabstops"
	"github.com/hnimtadd/vterm/terminal/utils"
	"github.com/mattn/go-runewidth"
)

type Screen struct {
	lines   size.CellCountInt
	columns size.CellCountInt

	buf   [][]Cell
	props []LineProperty

	cursor Cursor
	// Inclusive scroll region.
	top, bottom size.CellCountInt

	style   style.Style
	tabs    *tabstops.Tabstops
	modes   *core.ModeState
	charset charsets.State
	saved   savedCursor

	// Rows touched since the last ClearDirty, for renderers that only
	// want to redraw what changed.
	dirty *utils.StaticBitSet

	saver LineSaver
}

func New(lines, columns size.CellCountInt, saver LineSaver) *Screen {
	utils.Assert(lines >= 1 && columns >= 1, "screen needs at least one line and one column")
	s := &Screen{
		lines:   lines,
		columns: columns,
		bottom:  lines - 1,
		tabs:    tabstops.NewTabstops(columns, tabstops.TABSTOP_INTERVAL),
		modes:   core.NewModeState(nil, core.ModePacked),
		charset: charsets.NewState(),
		dirty:   utils.NewStaticBitSetFull(int(lines)),
		saver:   saver,
	}
	s.buf = make([][]Cell, lines)
	for y := range s.buf {
		s.buf[y] = make([]Cell, columns)
	}
	s.props = make([]LineProperty, lines)
	return s
}

func (s *Screen) Lines() size.CellCountInt   { return s.lines }
func (s *Screen) Columns() size.CellCountInt { return s.columns }
func (s *Screen) Cursor() Cursor             { return s.cursor }

func (s *Screen) CellAt(y, x size.CellCountInt) Cell {
	utils.Assert(y >= 0 && y < s.lines && x >= 0 && x < s.columns, "cell out of bounds")
	return s.buf[y][x]
}

func (s *Screen) LinePropertiesAt(y size.CellCountInt) LineProperty {
	utils.Assert(y >= 0 && y < s.lines, "line out of bounds")
	return s.props[y]
}

// Charset exposes the designation record so the emulator can drive SCS
// sequences and shift-in/shift-out.
func (s *Screen) Charset() *charsets.State { return &s.charset }

// Dirty returns the set of rows touched since the last ClearDirty.
func (s *Screen) Dirty() *utils.StaticBitSet { return s.dirty }

func (s *Screen) ClearDirty() { s.dirty.Clear() }

func (s *Screen) markDirty(y size.CellCountInt) { s.dirty.Set(int(y)) }

func (s *Screen) markDirtyRange(from, to size.CellCountInt) {
	s.dirty.SetRange(int(from), int(to)+1)
}

// blank is an empty cell carrying the current rendition and colors.
func (s *Screen) blank() Cell { return Cell{Style: s.style} }

func (s *Screen) clearCells(y, from, to size.CellCountInt) {
	row := s.buf[y]
	for x := from; x <= to; x++ {
		row[x] = s.blank()
	}
	s.markDirty(y)
}

func (s *Screen) clearRow(y size.CellCountInt) {
	s.clearCells(y, 0, s.columns-1)
}

// Writing ----------------------------------------------------------------

// DisplayCharacter remaps cp through the active charset and writes it
// at the cursor, honoring insert mode, wraparound and wide glyphs.
func (s *Screen) DisplayCharacter(cp uint32) {
	cp = s.charset.Apply(cp)
	w := size.CellCountInt(runewidth.RuneWidth(rune(cp)))
	if w == 0 {
		return
	}
	if w > s.columns {
		w = 1
	}

	if s.cursor.WrapPending {
		if s.modes.Get(core.ModeWraparound) {
			s.props[s.cursor.Y] |= LineWrapped
			s.Index()
			s.cursor.X = 0
		}
		s.cursor.WrapPending = false
	}

	// A wide glyph with only one column left wraps early, or sticks to
	// the edge when wraparound is off.
	if s.cursor.X+w > s.columns {
		if s.modes.Get(core.ModeWraparound) {
			s.props[s.cursor.Y] |= LineWrapped
			s.Index()
			s.cursor.X = 0
		} else {
			s.cursor.X = s.columns - w
		}
	}

	if s.modes.Get(core.ModeInsert) {
		s.InsertChars(int(w))
	}

	row := s.buf[s.cursor.Y]
	row[s.cursor.X] = Cell{Char: cp, Style: s.style}
	if w == 2 {
		row[s.cursor.X+1] = Cell{Style: s.style, WideTail: true}
	}
	s.markDirty(s.cursor.Y)

	if s.cursor.X+w >= s.columns {
		s.cursor.X = s.columns - 1
		s.cursor.WrapPending = true
	} else {
		s.cursor.X += w
	}
}

// Cursor movement --------------------------------------------------------

func (s *Screen) Backspace() {
	if s.cursor.X > 0 {
		s.cursor.X--
	}
	s.cursor.WrapPending = false
}

func (s *Screen) Tab(n int) {
	if n == 0 {
		n = 1
	}
	for range n {
		s.cursor.X = s.tabs.Next(s.cursor.X)
	}
	s.cursor.WrapPending = false
}

func (s *Screen) Backtab(n int) {
	if n == 0 {
		n = 1
	}
	for range n {
		s.cursor.X = s.tabs.Prev(s.cursor.X)
	}
	s.cursor.WrapPending = false
}

// Index moves the cursor down one line, scrolling the region when the
// cursor sits on the bottom margin.
func (s *Screen) Index() {
	if s.cursor.Y == s.bottom {
		s.moveLinesUp(s.top, s.bottom, 1)
	} else if s.cursor.Y < s.lines-1 {
		s.cursor.Y++
	}
	s.cursor.WrapPending = false
}

// NewLine is Index plus a column reset when line-feed mode is on.
func (s *Screen) NewLine() {
	if s.modes.Get(core.ModeLineFeed) {
		s.ToStartOfLine()
	}
	s.Index()
}

// NextLine always resets the column.
func (s *Screen) NextLine() {
	s.ToStartOfLine()
	s.Index()
}

// ReverseIndex moves the cursor up one line, scrolling the region down
// when the cursor sits on the top margin.
func (s *Screen) ReverseIndex() {
	if s.cursor.Y == s.top {
		s.moveLinesDown(s.top, s.bottom, 1)
	} else if s.cursor.Y > 0 {
		s.cursor.Y--
	}
	s.cursor.WrapPending = false
}

func (s *Screen) ToStartOfLine() {
	s.cursor.X = 0
	s.cursor.WrapPending = false
}

func (s *Screen) CursorUp(n int) {
	if n == 0 {
		n = 1
	}
	stop := size.CellCountInt(0)
	if s.cursor.Y >= s.top {
		stop = s.top
	}
	s.cursor.Y = max(stop, s.cursor.Y-size.CellCountInt(n))
	s.cursor.WrapPending = false
}

func (s *Screen) CursorDown(n int) {
	if n == 0 {
		n = 1
	}
	stop := s.lines - 1
	if s.cursor.Y <= s.bottom {
		stop = s.bottom
	}
	s.cursor.Y = min(stop, s.cursor.Y+size.CellCountInt(n))
	s.cursor.WrapPending = false
}

func (s *Screen) CursorLeft(n int) {
	if n == 0 {
		n = 1
	}
	s.cursor.X = max(0, s.cursor.X-size.CellCountInt(n))
	s.cursor.WrapPending = false
}

func (s *Screen) CursorRight(n int) {
	if n == 0 {
		n = 1
	}
	s.cursor.X = min(s.columns-1, s.cursor.X+size.CellCountInt(n))
	s.cursor.WrapPending = false
}

// SetCursorX takes the 1-based column from the wire.
func (s *Screen) SetCursorX(x int) {
	if x == 0 {
		x = 1
	}
	s.cursor.X = min(s.columns-1, size.CellCountInt(x-1))
	s.cursor.WrapPending = false
}

// SetCursorY takes the 1-based line from the wire, offset by the top
// margin in origin mode.
func (s *Screen) SetCursorY(y int) {
	if y == 0 {
		y = 1
	}
	base := size.CellCountInt(0)
	if s.modes.Get(core.ModeOrigin) {
		base = s.top
	}
	s.cursor.Y = max(0, min(s.lines-1, size.CellCountInt(y-1)+base))
	s.cursor.WrapPending = false
}

func (s *Screen) SetCursorYX(y, x int) {
	s.SetCursorY(y)
	s.SetCursorX(x)
}

// Scrolling --------------------------------------------------------------

// moveLinesUp shifts the rows of [from, to] up by n. Rows leaving from
// the very top of the screen go to the line saver.
func (s *Screen) moveLinesUp(from, to size.CellCountInt, n int) {
	span := int(to-from) + 1
	n = min(n, span)
	for range n {
		if from == 0 && s.saver != nil {
			s.saver(Line{Cells: s.buf[0], Props: s.props[0]})
			s.buf[0] = make([]Cell, s.columns)
		}
		utils.RotateOnce(s.buf[from : to+1])
		utils.RotateOnce(s.props[from : to+1])
		s.props[to] = 0
		s.clearRow(to)
	}
	s.markDirtyRange(from, to)
}

// moveLinesDown shifts the rows of [from, to] down by n, dropping the
// bottom rows and filling the top with blanks.
func (s *Screen) moveLinesDown(from, to size.CellCountInt, n int) {
	span := int(to-from) + 1
	n = min(n, span)
	for range n {
		utils.RotateOnceR(s.buf[from : to+1])
		utils.RotateOnceR(s.props[from : to+1])
		s.props[from] = 0
		s.clearRow(from)
	}
	s.markDirtyRange(from, to)
}

func (s *Screen) ScrollUp(n int) {
	if n == 0 {
		n = 1
	}
	s.moveLinesUp(s.top, s.bottom, n)
}

func (s *Screen) ScrollDown(n int) {
	if n == 0 {
		n = 1
	}
	s.moveLinesDown(s.top, s.bottom, n)
}

func (s *Screen) InsertLines(n int) {
	if n == 0 {
		n = 1
	}
	if s.cursor.Y < s.top || s.cursor.Y > s.bottom {
		return
	}
	s.moveLinesDown(s.cursor.Y, s.bottom, n)
}

func (s *Screen) DeleteLines(n int) {
	if n == 0 {
		n = 1
	}
	if s.cursor.Y < s.top || s.cursor.Y > s.bottom {
		return
	}
	s.moveLinesUp(s.cursor.Y, s.bottom, n)
}

// Editing within a line --------------------------------------------------

func (s *Screen) InsertChars(n int) {
	if n == 0 {
		n = 1
	}
	row := s.buf[s.cursor.Y]
	shift := min(size.CellCountInt(n), s.columns-s.cursor.X)
	copy(row[s.cursor.X+shift:], row[s.cursor.X:])
	s.clearCells(s.cursor.Y, s.cursor.X, s.cursor.X+shift-1)
}

func (s *Screen) DeleteChars(n int) {
	if n == 0 {
		n = 1
	}
	row := s.buf[s.cursor.Y]
	shift := min(size.CellCountInt(n), s.columns-s.cursor.X)
	copy(row[s.cursor.X:], row[s.cursor.X+shift:])
	s.clearCells(s.cursor.Y, s.columns-shift, s.columns-1)
}

func (s *Screen) EraseChars(n int) {
	if n == 0 {
		n = 1
	}
	to := min(s.cursor.X+size.CellCountInt(n), s.columns) - 1
	s.clearCells(s.cursor.Y, s.cursor.X, to)
}

// Erasing ----------------------------------------------------------------

func (s *Screen) ClearToEndOfLine() {
	s.clearCells(s.cursor.Y, s.cursor.X, s.columns-1)
}

func (s *Screen) ClearToBeginOfLine() {
	s.clearCells(s.cursor.Y, 0, s.cursor.X)
}

func (s *Screen) ClearEntireLine() {
	s.clearRow(s.cursor.Y)
}

func (s *Screen) ClearToEndOfScreen() {
	s.ClearToEndOfLine()
	for y := s.cursor.Y + 1; y < s.lines; y++ {
		s.clearRow(y)
		s.props[y] = 0
	}
}

func (s *Screen) ClearToBeginOfScreen() {
	s.ClearToBeginOfLine()
	for y := size.CellCountInt(0); y < s.cursor.Y; y++ {
		s.clearRow(y)
		s.props[y] = 0
	}
}

func (s *Screen) ClearEntireScreen() {
	for y := size.CellCountInt(0); y < s.lines; y++ {
		s.clearRow(y)
		s.props[y] = 0
	}
}

// HelpAlign is the DECALN screen alignment pattern.
func (s *Screen) HelpAlign() {
	for y := size.CellCountInt(0); y < s.lines; y++ {
		row := s.buf[y]
		for x := range row {
			row[x] = Cell{Char: 'E', Style: s.style}
		}
		s.props[y] = 0
	}
	s.SetDefaultMargins()
	s.cursor = Cursor{}
	s.markDirtyRange(0, s.lines-1)
}

// Rendition and color ----------------------------------------------------

func (s *Screen) SetRendition(r style.Rendition) {
	s.style.Rendition = s.style.Rendition.With(r)
}

func (s *Screen) ResetRendition(r style.Rendition) {
	s.style.Rendition = s.style.Rendition.Without(r)
}

func (s *Screen) SetDefaultRendition() {
	s.style.Reset()
}

func (s *Screen) SetForeColor(space color.Space, v int) {
	s.style.Fg = colorFrom(space, v)
}

func (s *Screen) SetBackColor(space color.Space, v int) {
	s.style.Bg = colorFrom(space, v)
}

func colorFrom(space color.Space, v int) color.Color {
	switch space {
	case color.SpaceSystem:
		return color.NewSystem(uint8(v))
	case color.SpaceIndex256:
		return color.NewIndex256(uint8(v))
	case color.SpaceRGB:
		return color.FromPacked(uint32(v))
	default:
		return color.Color{}
	}
}

// Modes ------------------------------------------------------------------

func (s *Screen) SetMode(m core.Mode)   { s.applyMode(m, true) }
func (s *Screen) ResetMode(m core.Mode) { s.applyMode(m, false) }

func (s *Screen) applyMode(m core.Mode, on bool) {
	s.modes.Set(m, on)
	if m == core.ModeOrigin {
		// DECOM homes the cursor, to the margin when entering.
		s.cursor.X = 0
		s.cursor.Y = 0
		if on {
			s.cursor.Y = s.top
		}
		s.cursor.WrapPending = false
	}
}

func (s *Screen) SaveMode(m core.Mode)    { s.modes.Save(m) }
func (s *Screen) RestoreMode(m core.Mode) { s.modes.Restore(m) }
func (s *Screen) GetMode(m core.Mode) bool {
	return s.modes.Get(m)
}

// Saved cursor -----------------------------------------------------------

func (s *Screen) SaveCursor() {
	s.saved = savedCursor{cursor: s.cursor, style: s.style}
	s.charset.SaveCurrent()
}

func (s *Screen) RestoreCursor() {
	s.cursor = s.saved.cursor
	s.cursor.X = min(s.cursor.X, s.columns-1)
	s.cursor.Y = min(s.cursor.Y, s.lines-1)
	s.cursor.WrapPending = false
	s.style = s.saved.style
	s.charset.RestoreCurrent()
}

// Margins, tab stops, line properties ------------------------------------

// SetMargins takes the 1-based DECSTBM pair. Zero arguments default to
// the screen edges. Bad pairs are ignored.
func (s *Screen) SetMargins(t, b int) {
	if t == 0 {
		t = 1
	}
	if b == 0 {
		b = int(s.lines)
	}
	t = min(t, int(s.lines))
	b = min(b, int(s.lines))
	if t >= b {
		return
	}
	s.top = size.CellCountInt(t - 1)
	s.bottom = size.CellCountInt(b - 1)
	s.cursor.X = 0
	s.cursor.Y = 0
	if s.modes.Get(core.ModeOrigin) {
		s.cursor.Y = s.top
	}
	s.cursor.WrapPending = false
}

func (s *Screen) SetDefaultMargins() {
	s.top = 0
	s.bottom = s.lines - 1
}

func (s *Screen) ChangeTabStop(set bool) {
	if set {
		s.tabs.Set(s.cursor.X)
		return
	}
	s.tabs.Unset(s.cursor.X)
}

func (s *Screen) ClearTabStops() {
	s.tabs.Reset(0)
}

func (s *Screen) SetLineProperty(p LineProperty, on bool) {
	if on {
		s.props[s.cursor.Y] |= p
	} else {
		s.props[s.cursor.Y] &^= p
	}
	s.markDirty(s.cursor.Y)
}

// Lifecycle --------------------------------------------------------------

// Reset brings the screen back to its power-on state.
func (s *Screen) Reset() {
	s.modes.Reset()
	s.charset = charsets.NewState()
	s.style.Reset()
	s.saved = savedCursor{}
	s.SetDefaultMargins()
	s.ClearEntireScreen()
	s.cursor = Cursor{}
	s.tabs.Reset(tabstops.TABSTOP_INTERVAL)
}

// Resize reallocates the grid. Cells at coordinates present in both
// sizes are preserved; rows pushed off the top by a cursor below the
// new height go to the line saver. Margins reset to the full screen and
// the default tab stops are regenerated.
func (s *Screen) Resize(lines, columns size.CellCountInt) {
	if lines < 1 || columns < 1 {
		return
	}

	drop := size.CellCountInt(0)
	if s.cursor.Y >= lines {
		drop = s.cursor.Y - lines + 1
	}
	for y := size.CellCountInt(0); y < drop; y++ {
		if s.saver != nil {
			s.saver(Line{Cells: s.buf[y], Props: s.props[y]})
		}
	}

	buf := make([][]Cell, lines)
	props := make([]LineProperty, lines)
	for y := range buf {
		buf[y] = make([]Cell, columns)
		src := size.CellCountInt(y) + drop
		if src < s.lines {
			copy(buf[y], s.buf[src])
			props[y] = s.props[src]
		}
	}
	s.buf = buf
	s.props = props
	s.lines = lines
	s.columns = columns

	s.cursor.Y = max(0, min(s.cursor.Y-drop, lines-1))
	s.cursor.X = min(s.cursor.X, columns-1)
	s.cursor.WrapPending = false
	s.SetDefaultMargins()
	s.tabs.Resize(columns)
	s.tabs.Reset(tabstops.TABSTOP_INTERVAL)
	s.dirty = utils.NewStaticBitSetFull(int(lines))
}
