package vterm

import (
	"github.com/hnimtadd/vterm/terminal/coordinate"
	"github.com/hnimtadd/vterm/terminal/core"
	"github.com/hnimtadd/vterm/terminal/screen"
	"github.com/hnimtadd/vterm/terminal/size"
)

// Snapshot is a point-in-time copy of the visible screen for renderers.
// It shares nothing with the emulator, so it stays valid while the
// emulator keeps consuming bytes.
type Snapshot struct {
	Lines   size.CellCountInt
	Columns size.CellCountInt
	Title   string

	Cursor        coordinate.Point[size.CellCountInt]
	CursorVisible bool

	Rows []SnapshotRow
}

// SnapshotRow is one line of the grid with its line properties.
type SnapshotRow struct {
	Props screen.LineProperty
	Cells []screen.Cell
}

// Snapshot copies the active screen.
func (e *Emulator) Snapshot() *Snapshot {
	s := e.scr()
	cursor := s.Cursor()
	snap := &Snapshot{
		Lines:         s.Lines(),
		Columns:       s.Columns(),
		Title:         e.Title(),
		Cursor:        coordinate.NewPoint(cursor.X, cursor.Y),
		CursorVisible: s.GetMode(core.ModeCursor),
		Rows:          make([]SnapshotRow, s.Lines()),
	}
	for y := range snap.Rows {
		row := SnapshotRow{
			Props: s.LinePropertiesAt(size.CellCountInt(y)),
			Cells: make([]screen.Cell, s.Columns()),
		}
		for x := range row.Cells {
			row.Cells[x] = s.CellAt(size.CellCountInt(y), size.CellCountInt(x))
		}
		snap.Rows[y] = row
	}
	return snap
}

// PlainString flattens the snapshot into newline-separated text,
// dropping styles, trailing blanks and trailing empty lines. Mostly
// useful in tests.
func (s *Snapshot) PlainString() string {
	out := make([]rune, 0, int(s.Lines)*(int(s.Columns)+1))
	for y, row := range s.Rows {
		if y > 0 {
			out = append(out, '\n')
		}
		line := make([]rune, 0, len(row.Cells))
		for _, cell := range row.Cells {
			if cell.WideTail {
				continue
			}
			if cell.Char == 0 {
				line = append(line, ' ')
			} else {
				line = append(line, rune(cell.Char))
			}
		}
		for len(line) > 0 && line[len(line)-1] == ' ' {
			line = line[:len(line)-1]
		}
		out = append(out, line...)
	}
	for len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	return string(out)
}
