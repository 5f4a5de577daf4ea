package style

import (
	"fmt"

	"github.com/hnimtadd/vterm/terminal/color"
	"github.com/hnimtadd/vterm/terminal/utils"
	"github.com/mitchellh/hashstructure/v2"
)

// Rendition is the bitset of boolean text attributes.
type Rendition uint8

const (
	RenditionBold Rendition = 1 << iota
	RenditionDim
	RenditionItalic
	RenditionUnderline
	RenditionBlink
	RenditionReverse
)

// Has reports whether every bit of r2 is set in r.
func (r Rendition) Has(r2 Rendition) bool { return r&r2 == r2 }

// With returns r with the bits of r2 set.
func (r Rendition) With(r2 Rendition) Rendition { return r | r2 }

// Without returns r with the bits of r2 cleared.
func (r Rendition) Without(r2 Rendition) Rendition { return r &^ r2 }

func (r Rendition) String() string {
	names := []struct {
		bit  Rendition
		name string
	}{
		{RenditionBold, "bold"},
		{RenditionDim, "dim"},
		{RenditionItalic, "italic"},
		{RenditionUnderline, "underline"},
		{RenditionBlink, "blink"},
		{RenditionReverse, "reverse"},
	}
	out := ""
	for _, n := range names {
		if r.Has(n.bit) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	if out == "" {
		return "none"
	}
	return out
}

// Style is the attribute state applied to written cells: the rendition
// bitset plus the foreground and background colors.
type Style struct {
	Rendition Rendition
	Fg        color.Color
	Bg        color.Color
}

// FG resolves the foreground the cell should render with, honoring the
// reverse attribute. Nil means the renderer default.
func (s *Style) FG(palette *color.Palette) *color.RGB {
	src := s.Fg
	if s.Rendition.Has(RenditionReverse) {
		src = s.Bg
	}
	if rgb, ok := src.Resolve(palette); ok {
		return &rgb
	}
	return nil
}

// BG resolves the background the cell should render with, honoring the
// reverse attribute. Nil means the renderer default.
func (s *Style) BG(palette *color.Palette) *color.RGB {
	src := s.Bg
	if s.Rendition.Has(RenditionReverse) {
		src = s.Fg
	}
	if rgb, ok := src.Resolve(palette); ok {
		return &rgb
	}
	return nil
}

func (s *Style) Reset() {
	*s = Style{}
}

func (s *Style) IsDefault() bool {
	return *s == Style{}
}

// Hash returns a stable identity for the style. Renderers use this to
// deduplicate per-cell styles into a shared table.
func (s Style) Hash() uint64 {
	hashed, err := hashstructure.Hash(s, hashstructure.FormatV2, nil)
	utils.Assert(err == nil, fmt.Sprintf("failed to hash style: %v", err))
	return hashed
}
