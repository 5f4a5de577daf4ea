package charsets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromDesignator(t *testing.T) {
	assert.Equal(t, IdVT100Graphics, FromDesignator('0'))
	assert.Equal(t, IdIBMPC, FromDesignator('A'))
	assert.Equal(t, IdIBMPC, FromDesignator('U'))
	assert.Equal(t, IdLatin1, FromDesignator('B'))
	assert.Equal(t, IdUserDefined, FromDesignator('K'))
	assert.Equal(t, IdUndefined, FromDesignator('Z'))
}

func TestMapLatin1IsIdentity(t *testing.T) {
	for _, cp := range []uint32{' ', 'a', 0x7E, 0xE9} {
		assert.Equal(t, cp, Map(IdLatin1, cp))
	}
}

func TestMapVT100Graphics(t *testing.T) {
	cases := map[uint32]uint32{
		'j':  0x2518, // lower right corner
		'l':  0x250C, // upper left corner
		'q':  0x2500, // horizontal line
		'x':  0x2502, // vertical line
		'n':  0x253C, // crossing lines
		0x5F: 0x0020,
		'~':  0x00B7,
	}
	for in, want := range cases {
		assert.Equal(t, want, Map(IdVT100Graphics, in))
	}

	// Bytes below the graphics range stay put.
	assert.Equal(t, uint32('A'), Map(IdVT100Graphics, 'A'))
}

func TestMapIBMPC(t *testing.T) {
	assert.Equal(t, uint32(0x00C7), Map(IdIBMPC, 0x80))
	assert.Equal(t, uint32(0x00FC), Map(IdIBMPC, 0x81))
	assert.Equal(t, uint32('A'), Map(IdIBMPC, 'A'))
}

func TestMapPassesNonByteCodePoints(t *testing.T) {
	assert.Equal(t, uint32(0x1F604), Map(IdVT100Graphics, 0x1F604))
	assert.Equal(t, uint32(0x2500), Map(IdUndefined, 0x2500))
}

func TestStateDefaults(t *testing.T) {
	s := NewState()

	assert.Equal(t, IdLatin1, s.Current)
	assert.Equal(t, IdLatin1, s.Saved)
	for g := range s.G {
		assert.Equal(t, IdLatin1, s.G[g])
	}
}

func TestStateDesignateAndSelect(t *testing.T) {
	s := NewState()

	s.Designate(1, IdVT100Graphics)
	assert.Equal(t, IdLatin1, s.Current, "designation alone must not switch")

	s.Select(1)
	assert.Equal(t, IdVT100Graphics, s.Current)
}

func TestStateSelectResolvesImmediately(t *testing.T) {
	s := NewState()

	s.Designate(0, IdVT100Graphics)
	s.Select(0)
	s.Designate(0, IdIBMPC)

	// The active charset was resolved at selection time.
	assert.Equal(t, IdVT100Graphics, s.Current)
}

func TestStateDesignateDropsUndefined(t *testing.T) {
	s := NewState()

	s.Designate(2, IdVT100Graphics)
	s.Designate(2, IdUndefined)

	assert.Equal(t, IdVT100Graphics, s.G[2])
}

func TestStateUse(t *testing.T) {
	s := NewState()

	s.Use(IdIBMPC)

	assert.Equal(t, IdIBMPC, s.Current)
	assert.Equal(t, IdLatin1, s.G[0], "slots stay untouched")
}

func TestStateSaveRestore(t *testing.T) {
	s := NewState()

	s.Designate(1, IdVT100Graphics)
	s.Select(1)
	s.SaveCurrent()

	s.Select(0)
	assert.Equal(t, IdLatin1, s.Current)

	s.RestoreCurrent()
	assert.Equal(t, IdVT100Graphics, s.Current)
}

func TestStateSaveSurvivesRedesignation(t *testing.T) {
	s := NewState()

	s.Designate(3, IdVT100Graphics)
	s.Select(3)
	s.SaveCurrent()
	s.Designate(3, IdIBMPC)
	s.Select(3)

	s.RestoreCurrent()
	assert.Equal(t, IdVT100Graphics, s.Current)
}

func TestStateApply(t *testing.T) {
	s := NewState()
	s.Use(IdVT100Graphics)

	assert.Equal(t, uint32(0x2500), s.Apply('q'))
}
