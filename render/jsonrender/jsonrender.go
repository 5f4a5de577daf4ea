// JSON serialization of an emulator snapshot.
//
// The format groups consecutive cells sharing a style into runs and
// deduplicates the styles themselves into a table, so repeated
// renditions cost one small integer per run.
package jsonrender

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/hnimtadd/vterm"
	"github.com/hnimtadd/vterm/terminal/color"
	"github.com/hnimtadd/vterm/terminal/screen"
	"github.com/hnimtadd/vterm/terminal/style"
)

type Document struct {
	Lines   int    `json:"lines"`
	Columns int    `json:"columns"`
	Title   string `json:"title"`
	Cursor  Cursor `json:"cursor"`
	Styles  []Style `json:"styles"`
	Rows    []Row  `json:"rows"`
}

type Cursor struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Visible bool `json:"visible"`
}

type Style struct {
	Rendition []string `json:"rendition,omitempty"`
	FG        *Color   `json:"fg,omitempty"`
	BG        *Color   `json:"bg,omitempty"`
}

// Color carries the tagged color of a cell. Value holds the palette
// index for the system and 256-color spaces and the packed 0xRRGGBB
// for true color; it is absent for the default space.
type Color struct {
	Space string `json:"space"`
	Value int    `json:"value,omitempty"`
}

type Row struct {
	DoubleWidth  bool  `json:"doubleWidth,omitempty"`
	DoubleHeight bool  `json:"doubleHeight,omitempty"`
	Wrapped      bool  `json:"wrapped,omitempty"`
	Runs         []Run `json:"runs"`
}

// Run is a stretch of cells sharing one style. Empty cells appear as
// spaces in Text so column positions stay aligned.
type Run struct {
	Style int    `json:"style"`
	Text  string `json:"text"`
}

// Render writes the snapshot as one JSON document.
func Render(w io.Writer, snap *vterm.Snapshot) error {
	doc := Document{
		Lines:   int(snap.Lines),
		Columns: int(snap.Columns),
		Title:   snap.Title,
		Cursor: Cursor{
			X:       int(snap.Cursor.X),
			Y:       int(snap.Cursor.Y),
			Visible: snap.CursorVisible,
		},
		Styles: []Style{},
		Rows:   make([]Row, 0, len(snap.Rows)),
	}

	styleIndex := make(map[uint64]int)
	internStyle := func(s style.Style) int {
		key := s.Hash()
		if id, ok := styleIndex[key]; ok {
			return id
		}
		id := len(doc.Styles)
		styleIndex[key] = id
		doc.Styles = append(doc.Styles, convertStyle(s))
		return id
	}

	for _, srcRow := range snap.Rows {
		row := Row{
			DoubleWidth:  srcRow.Props.Has(screen.LineDoubleWidth),
			DoubleHeight: srcRow.Props.Has(screen.LineDoubleHeight),
			Wrapped:      srcRow.Props.Has(screen.LineWrapped),
		}
		var text strings.Builder
		current := -1
		flush := func() {
			if current >= 0 && text.Len() > 0 {
				row.Runs = append(row.Runs, Run{Style: current, Text: text.String()})
			}
			text.Reset()
		}
		for _, cell := range srcRow.Cells {
			if cell.WideTail {
				continue
			}
			id := internStyle(cell.Style)
			if id != current {
				flush()
				current = id
			}
			if cell.Char == 0 {
				text.WriteRune(' ')
			} else {
				text.WriteRune(rune(cell.Char))
			}
		}
		flush()
		doc.Rows = append(doc.Rows, row)
	}

	enc := json.NewEncoder(w)
	return enc.Encode(doc)
}

func convertStyle(s style.Style) Style {
	out := Style{}
	for _, flag := range []struct {
		bit  style.Rendition
		name string
	}{
		{style.RenditionBold, "bold"},
		{style.RenditionDim, "dim"},
		{style.RenditionItalic, "italic"},
		{style.RenditionUnderline, "underline"},
		{style.RenditionBlink, "blink"},
		{style.RenditionReverse, "reverse"},
	} {
		if s.Rendition.Has(flag.bit) {
			out.Rendition = append(out.Rendition, flag.name)
		}
	}
	out.FG = convertColor(s.Fg)
	out.BG = convertColor(s.Bg)
	return out
}

func convertColor(c color.Color) *Color {
	switch c.Space {
	case color.SpaceSystem:
		return &Color{Space: "system", Value: int(c.Index)}
	case color.SpaceIndex256:
		return &Color{Space: "index256", Value: int(c.Index)}
	case color.SpaceRGB:
		packed := int(c.RGB.R)<<16 | int(c.RGB.G)<<8 | int(c.RGB.B)
		return &Color{Space: "rgb", Value: packed}
	default:
		return nil
	}
}
