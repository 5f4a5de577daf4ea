package core

import (
	"maps"
	"slices"
)

// A struct describing one settable mode.
type Mode struct {
	Name  string
	Value int
	// True if this is an ANSI mode, false for DEC private modes.
	Ansi    bool
	Default bool
}

func entryForMode(name string, value int, ansi bool, defaultMode bool) Mode {
	return Mode{
		Name:    name,
		Value:   value,
		Ansi:    ansi,
		Default: defaultMode,
	}
}

var (
	// ANSI modes
	ModeInsert   = entryForMode("insert", 4, true, false)    // IRM
	ModeLineFeed = entryForMode("line feed", 20, true, false) // LNM

	// DEC private modes, per screen except Columns132 and Allow132, which
	// the emulator tracks emulator wide
	ModeColumns132 = entryForMode("132 columns", 3, false, false)     // DECCOLM
	ModeScreen     = entryForMode("reverse video", 5, false, false)   // DECSCNM
	ModeOrigin     = entryForMode("origin", 6, false, false)          // DECOM
	ModeWraparound = entryForMode("wraparound", 7, false, true)       // DECAWM
	ModeCursor     = entryForMode("cursor visible", 25, false, true)  // DECTCEM
	ModeAllow132   = entryForMode("allow 132 columns", 40, false, false)

	// DEC private modes, emulator wide
	ModeAppScreen = entryForMode("alternate screen", 47, false, false)

	// Ansi selects the ANSI escape grammar; clear means VT52. It has no
	// wire number, ESC < and the VT52 '<' command flip it.
	ModeAnsi = entryForMode("ansi", -1, false, true)

	// The full list of available entries. For documentation on these modes,
	// see how they are used in the VT100 and ECMA-48 standards or google
	// their values.
	entries = []Mode{
		ModeInsert,
		ModeLineFeed,
		ModeColumns132,
		ModeScreen,
		ModeOrigin,
		ModeWraparound,
		ModeCursor,
		ModeAllow132,
		ModeAppScreen,
		ModeAnsi,
	}
)

// A packed map of all settable modes with their defaults. This shouldn't
// be used directly but rather through the ModeState struct.
var ModePacked = func() map[Mode]bool {
	packed := make(map[Mode]bool, len(entries))
	for _, m := range entries {
		packed[m] = m.Default
	}
	return packed
}()

// ModeState tracks the live, default, and saved values of a mode set.
type ModeState struct {
	// The values of current modes
	values map[Mode]bool
	// The default values of modes
	defaults map[Mode]bool
	// The per-mode saved slots used by DECSET save/restore
	saved map[Mode]bool
}

func NewModeState(values map[Mode]bool, def map[Mode]bool) *ModeState {
	state := &ModeState{
		defaults: def,
		values:   values,
		saved:    make(map[Mode]bool),
	}
	if values == nil {
		state.values = make(map[Mode]bool)
	}
	if def == nil {
		state.defaults = make(map[Mode]bool)
	}
	maps.Copy(state.values, state.defaults)
	return state
}

func (s *ModeState) Set(m Mode, value bool) {
	s.values[m] = value
}

func (s *ModeState) Get(m Mode) bool {
	return s.values[m]
}

// Save stores the current value of m into its saved slot.
func (s *ModeState) Save(m Mode) {
	s.saved[m] = s.values[m]
}

// Restore brings back the saved value of m; a mode that was never saved
// restores to its default.
func (s *ModeState) Restore(m Mode) {
	if v, ok := s.saved[m]; ok {
		s.values[m] = v
		return
	}
	s.values[m] = s.defaults[m]
}

func (s *ModeState) Reset() {
	s.values = make(map[Mode]bool)
	maps.Copy(s.values, s.defaults)
}

func ModeFromInt(input int, ansi bool) *Mode {
	for entry := range slices.Values(entries) {
		if entry.Value == input && entry.Ansi == ansi {
			return &entry
		}
	}
	return nil
}

/* Helpful doc:
DECOM (originMode) doc: https://documentation.help/putty/config-decom.html
*/
