// Select Graphic Rendition attribute handling.
package sgr

import (
	"github.com/hnimtadd/vterm/terminal/color"
	"github.com/hnimtadd/vterm/terminal/screen"
	"github.com/hnimtadd/vterm/terminal/style"
)

// Apply performs one SGR attribute on the screen. For attributes 38 and
// 48 the extra parameters carry the color space and the packed value.
// The return is false when the attribute is not recognized.
func Apply(s *screen.Screen, attr, p, q int) bool {
	switch attr {
	case 0:
		s.SetDefaultRendition()
	case 1:
		s.SetRendition(style.RenditionBold)
	case 2:
		s.SetRendition(style.RenditionDim)
	case 3:
		s.SetRendition(style.RenditionItalic)
	case 4:
		s.SetRendition(style.RenditionUnderline)
	case 5:
		s.SetRendition(style.RenditionBlink)
	case 7:
		s.SetRendition(style.RenditionReverse)
	case 8, 10, 11, 12:
		// Hidden and mapping-related attributes, not carried.
	case 21:
		// Treated as bold off, as on the VT520.
		s.ResetRendition(style.RenditionBold)
	case 22:
		s.ResetRendition(style.RenditionDim)
	case 23:
		s.ResetRendition(style.RenditionItalic)
	case 24:
		s.ResetRendition(style.RenditionUnderline)
	case 25:
		s.ResetRendition(style.RenditionBlink)
	case 27:
		s.ResetRendition(style.RenditionReverse)
	case 28:
		// Hidden off, not carried.
	case 30, 31, 32, 33, 34, 35, 36, 37:
		s.SetForeColor(color.SpaceSystem, attr-30)
	case 38:
		s.SetForeColor(color.Space(p), q)
	case 39:
		s.SetForeColor(color.SpaceDefault, 0)
	case 40, 41, 42, 43, 44, 45, 46, 47:
		s.SetBackColor(color.SpaceSystem, attr-40)
	case 48:
		s.SetBackColor(color.Space(p), q)
	case 49:
		s.SetBackColor(color.SpaceDefault, 1)
	case 90, 91, 92, 93, 94, 95, 96, 97:
		s.SetForeColor(color.SpaceSystem, attr-90+8)
	case 100, 101, 102, 103, 104, 105, 106, 107:
		s.SetBackColor(color.SpaceSystem, attr-100+8)
	default:
		return false
	}
	return true
}
