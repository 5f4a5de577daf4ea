package vterm

import (
	"github.com/hnimtadd/vterm/terminal/ansi"
	"github.com/hnimtadd/vterm/terminal/charsets"
	"github.com/hnimtadd/vterm/terminal/core"
	"github.com/hnimtadd/vterm/terminal/screen"
	"github.com/hnimtadd/vterm/terminal/sgr"
	"github.com/hnimtadd/vterm/terminal/tokenizer"
)

// processToken interprets one token against the emulator state. Unknown
// combinations report a decoding error; the tokenizer buffer is still
// intact at that point, so the report can show the raw sequence.
func (e *Emulator) processToken(t tokenizer.Token) {
	switch t.Tag {
	case tokenizer.TagChr:
		e.scr().DisplayCharacter(uint32(t.P))

	case tokenizer.TagCtl:
		e.processControl(t)

	case tokenizer.TagEsc:
		e.processEscape(t)

	case tokenizer.TagEscCS:
		e.processCharsetSelect(t)

	case tokenizer.TagEscDE:
		e.processDecExtension(t)

	case tokenizer.TagCSIPS:
		e.processCSISelected(t)

	case tokenizer.TagCSIPN:
		e.processCSINumeric(t)

	case tokenizer.TagCSIPR:
		e.processCSIPrivate(t)

	case tokenizer.TagCSIPE:
		if t.A != 'p' {
			e.DecodingError()
		}
		// CSI ! p, a DEC soft reset request. Recognized, not performed.

	case tokenizer.TagCSIPG:
		switch t.A {
		case 'c', 't', 'p':
			// Device attribute and title mode requests need a reply
			// channel this emulator does not have.
		default:
			e.DecodingError()
		}

	case tokenizer.TagVT52:
		e.processVT52(t)

	default:
		e.DecodingError()
	}
}

func (e *Emulator) processControl(t tokenizer.Token) {
	switch t.A {
	case 'H': // BS
		e.scr().Backspace()
	case 'I': // HT
		e.scr().Tab(1)
	case 'J', 'K', 'L': // LF, VT, FF
		e.scr().NewLine()
	case 'M': // CR
		e.scr().ToStartOfLine()
	case 'N': // SO
		e.useCharset(1)
	case 'O': // SI
		e.useCharset(0)
	case 'X', 'Z': // CAN, SUB abort a sequence and leave a mark
		e.scr().DisplayCharacter(0x2592)
	case '@', 'A', 'B', 'C', 'D', 'F', 'G',
		'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'Y',
		'[', '\\', ']', '^', '_':
		// NUL, flow control and the remaining C0 set are ignored.
	default:
		e.logger.Debug("unsupported control character", "code", ansi.String(t.A-'@'))
		e.DecodingError()
	}
}

func (e *Emulator) processEscape(t tokenizer.Token) {
	switch t.A {
	case 'D': // IND
		e.scr().Index()
	case 'E': // NEL
		e.scr().NextLine()
	case 'H': // HTS
		e.scr().ChangeTabStop(true)
	case 'M': // RI
		e.scr().ReverseIndex()
	case 'c': // RIS
		e.Reset()
	case 'n': // LS2
		e.useCharset(2)
	case 'o': // LS3
		e.useCharset(3)
	case '7': // DECSC
		e.saveCursor()
	case '8': // DECRC
		e.restoreCursor()
	case '<': // leave VT52
		e.setMode(core.ModeAnsi)
	case 'l', 'm', '|', '}', '~', 'F', 'N', 'O', '6', '9', '=', '>':
		// Memory lock, locking shifts, keypad and index variants are
		// recognized and skipped.
	default:
		e.DecodingError()
	}
}

func (e *Emulator) processCharsetSelect(t tokenizer.Token) {
	var slot int
	switch t.A {
	case '(':
		slot = 0
	case ')':
		slot = 1
	case '*':
		slot = 2
	case '+':
		slot = 3
	case '%':
		// ESC % G / ESC % @ select the byte codec, which is fixed to
		// UTF-8 here.
		if t.N == 'G' || t.N == '@' {
			return
		}
		e.DecodingError()
		return
	default:
		e.DecodingError()
		return
	}
	id := charsets.FromDesignator(byte(t.N))
	if id == charsets.IdUndefined {
		e.DecodingError()
		return
	}
	e.setCharset(slot, id)
}

func (e *Emulator) processDecExtension(t tokenizer.Token) {
	switch t.A {
	case '3', '4': // DECDHL
		e.scr().SetLineProperty(screen.LineDoubleWidth, true)
		e.scr().SetLineProperty(screen.LineDoubleHeight, true)
	case '5': // DECSWL
		e.scr().SetLineProperty(screen.LineDoubleWidth, false)
		e.scr().SetLineProperty(screen.LineDoubleHeight, false)
	case '6': // DECDWL
		e.scr().SetLineProperty(screen.LineDoubleWidth, true)
		e.scr().SetLineProperty(screen.LineDoubleHeight, false)
	case '8': // DECALN
		e.scr().HelpAlign()
	default:
		e.DecodingError()
	}
}

func (e *Emulator) processCSISelected(t tokenizer.Token) {
	switch t.A {
	case 't':
		switch t.N {
		case 8: // resize request \e[8;<lines>;<columns>t
			e.setScreenSize(t.P, t.Q)
		case 28: // tab text color
		default:
			e.DecodingError()
		}

	case 'K':
		switch t.N {
		case 0:
			e.scr().ClearToEndOfLine()
		case 1:
			e.scr().ClearToBeginOfLine()
		case 2:
			e.scr().ClearEntireLine()
		default:
			e.DecodingError()
		}

	case 'J':
		switch t.N {
		case 0:
			e.scr().ClearToEndOfScreen()
		case 1:
			e.scr().ClearToBeginOfScreen()
		case 2:
			e.scr().ClearEntireScreen()
		case 3: // xterm's clear-history extension, no history here
		default:
			e.DecodingError()
		}

	case 'g':
		switch t.N {
		case 0:
			e.scr().ChangeTabStop(false)
		case 3:
			e.scr().ClearTabStops()
		default:
			e.DecodingError()
		}

	case 'h':
		switch t.N {
		case 4: // IRM
			e.scr().SetMode(core.ModeInsert)
		case 20: // LNM
			e.setScreenMode(core.ModeLineFeed)
		default:
			e.DecodingError()
		}

	case 'l':
		switch t.N {
		case 4:
			e.scr().ResetMode(core.ModeInsert)
		case 20:
			e.resetScreenMode(core.ModeLineFeed)
		default:
			e.DecodingError()
		}

	case 'i':
		if t.N != 0 {
			e.DecodingError()
		}
		// Attached printer control.

	case 'n':
		switch t.N {
		case 0, 3, 5, 6: // DSR needs a reply channel
		default:
			e.DecodingError()
		}

	case 's':
		if t.N == 0 {
			e.saveCursor()
		} else {
			e.DecodingError()
		}

	case 'u':
		if t.N == 0 {
			e.restoreCursor()
		} else {
			e.DecodingError()
		}

	case 'm':
		if !sgr.Apply(e.scr(), t.N, t.P, t.Q) {
			e.DecodingError()
		}

	case 'q':
		switch t.N {
		case 0, 1, 2, 3, 4: // DECLL, no LEDs to light
		default:
			e.DecodingError()
		}

	default:
		e.DecodingError()
	}
}

func (e *Emulator) processCSINumeric(t tokenizer.Token) {
	switch t.A {
	case '@': // ICH
		e.scr().InsertChars(t.P)
	case 'A': // CUU
		e.scr().CursorUp(t.P)
	case 'B': // CUD
		e.scr().CursorDown(t.P)
	case 'C': // CUF
		e.scr().CursorRight(t.P)
	case 'D': // CUB
		e.scr().CursorLeft(t.P)
	case 'G': // CHA
		e.scr().SetCursorX(t.P)
	case 'H', 'f': // CUP, HVP
		e.scr().SetCursorYX(t.P, t.Q)
	case 'I': // CHT
		e.scr().Tab(t.P)
	case 'L': // IL
		e.scr().InsertLines(t.P)
	case 'M': // DL
		e.scr().DeleteLines(t.P)
	case 'P': // DCH
		e.scr().DeleteChars(t.P)
	case 'S': // SU
		e.scr().ScrollUp(t.P)
	case 'T': // SD
		e.scr().ScrollDown(t.P)
	case 'X': // ECH
		e.scr().EraseChars(t.P)
	case 'Z': // CBT
		e.scr().Backtab(t.P)
	case 'd': // VPA
		e.scr().SetCursorY(t.P)
	case 'r': // DECSTBM
		e.scr().SetMargins(t.P, t.Q)
	case 'E', 'F', 'y':
		// CNL, CPL and the confidence test.
	default:
		e.DecodingError()
	}
}

func (e *Emulator) processCSIPrivate(t tokenizer.Token) {
	switch t.N {
	case 1: // DECCKM, cursor key encoding is the host's concern
		e.privateIgnored(t.A)

	case 2:
		if t.A == 'l' { // DECANM off, enter VT52
			e.resetMode(core.ModeAnsi)
		} else {
			e.DecodingError()
		}

	case 3: // DECCOLM
		switch t.A {
		case 'h':
			e.setMode(core.ModeColumns132)
		case 'l':
			e.resetMode(core.ModeColumns132)
		default:
			e.DecodingError()
		}

	case 4: // DECSCLM, smooth scrolling
		e.privateIgnoredHL(t.A)

	case 5: // DECSCNM
		switch t.A {
		case 'h':
			e.scr().SetMode(core.ModeScreen)
		case 'l':
			e.scr().ResetMode(core.ModeScreen)
		default:
			e.DecodingError()
		}

	case 6: // DECOM
		switch t.A {
		case 'h':
			e.scr().SetMode(core.ModeOrigin)
		case 'l':
			e.scr().ResetMode(core.ModeOrigin)
		case 's':
			e.scr().SaveMode(core.ModeOrigin)
		case 'r':
			e.scr().RestoreMode(core.ModeOrigin)
		default:
			e.DecodingError()
		}

	case 7: // DECAWM
		switch t.A {
		case 'h':
			e.scr().SetMode(core.ModeWraparound)
		case 'l':
			e.scr().ResetMode(core.ModeWraparound)
		case 's':
			e.scr().SaveMode(core.ModeWraparound)
		case 'r':
			e.scr().RestoreMode(core.ModeWraparound)
		default:
			e.DecodingError()
		}

	case 8: // autorepeat
		e.privateIgnored(t.A)
	case 9: // interlace
		e.privateIgnored(t.A)
	case 12: // cursor blink
		e.privateIgnored(t.A)

	case 25: // DECTCEM
		switch t.A {
		case 'h':
			e.setScreenMode(core.ModeCursor)
		case 'l':
			e.resetScreenMode(core.ModeCursor)
		case 's':
			e.saveScreenMode(core.ModeCursor)
		case 'r':
			e.restoreScreenMode(core.ModeCursor)
		default:
			e.DecodingError()
		}

	case 40:
		switch t.A {
		case 'h':
			e.setMode(core.ModeAllow132)
		case 'l':
			e.resetMode(core.ModeAllow132)
		default:
			e.DecodingError()
		}

	case 41: // obsolete more(1) fix
		e.privateIgnored(t.A)

	case 47, 1047:
		switch t.A {
		case 'h':
			e.setMode(core.ModeAppScreen)
		case 'l':
			e.resetMode(core.ModeAppScreen)
		case 's':
			e.saveMode(core.ModeAppScreen)
		case 'r':
			e.restoreMode(core.ModeAppScreen)
		default:
			e.DecodingError()
		}

	case 67: // DECBKM
		e.privateIgnored(t.A)

	case 1000, 1002, 1003, 1005, 1006, 1015: // mouse protocols
		e.privateIgnored(t.A)

	case 1001: // highlight mouse tracking
		e.privateIgnored(t.A)

	case 1004: // focus reporting
		e.privateIgnoredHL(t.A)

	case 1034: // 8-bit input
		if t.A != 'h' {
			e.DecodingError()
		}

	case 1048:
		switch t.A {
		case 'h', 's':
			e.saveCursor()
		case 'l', 'r':
			e.restoreCursor()
		default:
			e.DecodingError()
		}

	case 1049:
		switch t.A {
		case 'h':
			e.saveCursor()
			e.screens[1].ClearEntireScreen()
			e.setMode(core.ModeAppScreen)
		case 'l':
			e.resetMode(core.ModeAppScreen)
			e.restoreCursor()
		default:
			e.DecodingError()
		}

	case 2004: // bracketed paste
		e.privateIgnored(t.A)

	default:
		e.DecodingError()
	}
}

// privateIgnored accepts the full h/l/s/r quartet for a recognized but
// unsupported private mode.
func (e *Emulator) privateIgnored(final byte) {
	switch final {
	case 'h', 'l', 's', 'r':
	default:
		e.DecodingError()
	}
}

// privateIgnoredHL accepts only set and reset.
func (e *Emulator) privateIgnoredHL(final byte) {
	switch final {
	case 'h', 'l':
	default:
		e.DecodingError()
	}
}

func (e *Emulator) processVT52(t tokenizer.Token) {
	switch t.A {
	case 'A':
		e.scr().CursorUp(1)
	case 'B':
		e.scr().CursorDown(1)
	case 'C':
		e.scr().CursorRight(1)
	case 'D':
		e.scr().CursorLeft(1)
	case 'F': // graphics mode
		e.setAndUseCharset(0, charsets.FromDesignator('0'))
	case 'G': // leave graphics mode
		e.setAndUseCharset(0, charsets.FromDesignator('B'))
	case 'H':
		e.scr().SetCursorYX(1, 1)
	case 'I':
		e.scr().ReverseIndex()
	case 'J':
		e.scr().ClearToEndOfScreen()
	case 'K':
		e.scr().ClearToEndOfLine()
	case 'Y':
		e.scr().SetCursorYX(t.P-31, t.Q-31)
	case '<':
		e.setMode(core.ModeAnsi)
	case '=', '>': // keypad modes
	default:
		e.DecodingError()
	}
}
