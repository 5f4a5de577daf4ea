package handler

import (
	"github.com/hnimtadd/vterm/terminal/screen"
)

type (
	// LogFunc receives diagnostic messages the host may want to surface,
	// such as undecodable sequence reports. A nil LogFunc suppresses
	// them.
	LogFunc func(message string)

	// LineSaver receives lines scrolled off the top of the primary
	// screen, typically to build a history buffer.
	LineSaver = screen.LineSaver

	// TitleListener is notified when an OSC sequence changes the window
	// title.
	TitleListener interface {
		WindowTitleChanged(title string)
	}
)
