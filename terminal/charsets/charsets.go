// Character set designation and remapping for the VT100 G0..G3 slots.
//
// See https://vt100.net/docs/vt100-ug/chapter3.html#S3.3.3 (SCS).
package charsets

import (
	"golang.org/x/text/encoding/charmap"
)

// Id identifies one of the supported character sets.
type Id uint8

const (
	IdUndefined Id = iota
	IdLatin1
	IdIBMPC
	IdVT100Graphics
	IdUserDefined
)

func (id Id) String() string {
	switch id {
	case IdLatin1:
		return "latin1"
	case IdIBMPC:
		return "ibmpc"
	case IdVT100Graphics:
		return "vt100-graphics"
	case IdUserDefined:
		return "user-defined"
	default:
		return "undefined"
	}
}

// FromDesignator maps an SCS final byte onto a charset id. Unknown
// designators come back undefined and leave the slot untouched.
func FromDesignator(c byte) Id {
	switch c {
	case '0':
		return IdVT100Graphics
	case 'A', 'U':
		return IdIBMPC
	case 'B':
		return IdLatin1
	case 'K':
		return IdUserDefined
	default:
		return IdUndefined
	}
}

// The DEC special graphics glyphs for bytes 0x5F..0x7E.
var vt100Graphics = [32]uint32{
	0x0020, 0x25C6, 0x2592, 0x2409, 0x240C, 0x240D, 0x240A, 0x00B0,
	0x00B1, 0x2424, 0x240B, 0x2518, 0x2510, 0x250C, 0x2514, 0x253C,
	0x23BA, 0x23BB, 0x2500, 0x23BC, 0x23BD, 0x251C, 0x2524, 0x2534,
	0x252C, 0x2502, 0x2264, 0x2265, 0x03C0, 0x2260, 0x00A3, 0x00B7,
}

// tables holds one 256-entry remap table per charset id. Latin1 and the
// user-defined set are identity; IBMPC decodes through CP437.
var tables = func() map[Id]*[256]uint32 {
	identity := func() *[256]uint32 {
		var t [256]uint32
		for i := range t {
			t[i] = uint32(i)
		}
		return &t
	}

	latin1 := identity()
	user := identity()

	graphics := identity()
	for i, cp := range vt100Graphics {
		graphics[0x5F+i] = cp
	}

	ibmpc := identity()
	for i := 0x80; i < 0x100; i++ {
		ibmpc[i] = uint32(charmap.CodePage437.DecodeByte(byte(i)))
	}

	return map[Id]*[256]uint32{
		IdLatin1:        latin1,
		IdIBMPC:         ibmpc,
		IdVT100Graphics: graphics,
		IdUserDefined:   user,
	}
}()

// Map remaps a code point through the given charset. Code points outside
// the byte range and undefined charsets pass through unchanged.
func Map(id Id, cp uint32) uint32 {
	if cp > 0xFF {
		return cp
	}
	table, ok := tables[id]
	if !ok {
		return cp
	}
	return table[cp]
}

// State is the per-screen designation record: the four G slots plus the
// resolved active and saved charsets. Selecting a slot resolves it
// immediately, so a later redesignation of that slot does not change the
// active or saved charset.
type State struct {
	G       [4]Id
	Current Id
	Saved   Id
}

func NewState() State {
	return State{
		G:       [4]Id{IdLatin1, IdLatin1, IdLatin1, IdLatin1},
		Current: IdLatin1,
		Saved:   IdLatin1,
	}
}

// Designate installs a charset into slot g. Undefined ids are dropped.
func (s *State) Designate(g int, id Id) {
	if id == IdUndefined {
		return
	}
	s.G[g&3] = id
}

// Select makes slot g's charset the active one.
func (s *State) Select(g int) {
	s.Current = s.G[g&3]
}

// Use makes the given charset active without touching the G slots.
func (s *State) Use(id Id) {
	if id == IdUndefined {
		return
	}
	s.Current = id
}

// SaveCurrent captures the active charset for a later RestoreCurrent.
func (s *State) SaveCurrent() {
	s.Saved = s.Current
}

// RestoreCurrent brings back the charset captured by SaveCurrent.
func (s *State) RestoreCurrent() {
	s.Current = s.Saved
}

// Apply remaps a code point through the active charset.
func (s *State) Apply(cp uint32) uint32 {
	return Map(s.Current, cp)
}
