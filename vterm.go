// Package vterm is a headless VT100/xterm terminal emulator. Bytes go
// in through Feed, the resulting screen state comes out through
// Snapshot. Rendering, input encoding and process management are left
// to the embedding host.
package vterm

import (
	"fmt"
	"runtime/debug"

	"github.com/hnimtadd/vterm/logger"
	"github.com/hnimtadd/vterm/terminal/charsets"
	"github.com/hnimtadd/vterm/terminal/core"
	"github.com/hnimtadd/vterm/terminal/handler"
	"github.com/hnimtadd/vterm/terminal/screen"
	"github.com/hnimtadd/vterm/terminal/size"
	"github.com/hnimtadd/vterm/terminal/tokenizer"
	"github.com/hnimtadd/vterm/terminal/utf8"
)

// MaxTitleLength bounds the stored window title, in code points.
const MaxTitleLength = 255

type Options struct {
	// LineSaver receives lines scrolled off the top of the primary
	// screen. The alternate screen never feeds it.
	LineSaver handler.LineSaver
	// LogFunc receives undecodable sequence reports.
	LogFunc handler.LogFunc
	// TitleListener is notified on window title changes.
	TitleListener handler.TitleListener
	Logger        logger.Logger
}

// Emulator holds the primary and alternate screens plus the decoding
// pipeline that feeds them.
type Emulator struct {
	screens [2]*screen.Screen
	current int

	// Emulator-wide modes: Ansi, Columns132, Allow132, AppScreen. The
	// per-screen modes live on each Screen.
	modes *core.ModeState

	decoder   *utf8.Decoder
	tokenizer *tokenizer.Tokenizer

	title []rune

	saver  handler.LineSaver
	logFn  handler.LogFunc
	titled handler.TitleListener
	logger logger.Logger
}

func New(lines, columns int, opts Options) *Emulator {
	log := opts.Logger
	if log == nil {
		log = logger.DefaultLogger
	}
	e := &Emulator{
		modes:  core.NewModeState(nil, core.ModePacked),
		saver:  opts.LineSaver,
		logFn:  opts.LogFunc,
		titled: opts.TitleListener,
		logger: log,
	}
	e.screens[0] = screen.New(
		size.CellCountInt(lines), size.CellCountInt(columns), opts.LineSaver)
	e.screens[1] = screen.New(
		size.CellCountInt(lines), size.CellCountInt(columns), nil)
	e.decoder = utf8.NewDecoder()
	e.tokenizer = tokenizer.New(e)
	return e
}

func (e *Emulator) scr() *screen.Screen { return e.screens[e.current] }

// Screen exposes the active screen, primarily for renderers and tests.
func (e *Emulator) Screen() *screen.Screen { return e.scr() }

// Feed decodes a chunk of the output stream. Splitting a stream into
// arbitrary chunks does not change the result.
func (e *Emulator) Feed(p []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic in Feed", "recovered", r)
			fmt.Println(string(debug.Stack()))
			err = fmt.Errorf("panic in Feed: %v", r)
		}
	}()
	for _, c := range p {
		for {
			cp, generated, consumed := e.decoder.Next(c)
			if generated {
				e.tokenizer.Next(cp)
			}
			if consumed {
				break
			}
		}
	}
	return nil
}

// Finish flushes a trailing incomplete UTF-8 sequence as a replacement
// character. Calling it twice is harmless.
func (e *Emulator) Finish() {
	if cp, generated := e.decoder.Finish(); generated {
		e.tokenizer.Next(cp)
	}
}

// Write makes the emulator an io.Writer so pty output can be piped in.
func (e *Emulator) Write(p []byte) (int, error) {
	if err := e.Feed(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Resize changes the geometry of both screens. Degenerate sizes are
// ignored.
func (e *Emulator) Resize(lines, columns int) {
	e.setScreenSize(lines, columns)
}

// Title returns the current window title.
func (e *Emulator) Title() string {
	return string(e.title)
}

// SetTitle stores the window title, truncated to MaxTitleLength code
// points, and notifies the listener.
func (e *Emulator) SetTitle(title string) {
	runes := []rune(title)
	if len(runes) > MaxTitleLength {
		runes = runes[:MaxTitleLength]
	}
	e.title = runes
	if e.titled != nil {
		e.titled.WindowTitleChanged(string(runes))
	}
}

// SetLogFunction installs the diagnostics callback. A nil function
// silences undecodable sequence reports.
func (e *Emulator) SetLogFunction(fn handler.LogFunc) {
	e.logFn = fn
}

// GetMode reports an emulator-wide mode.
func (e *Emulator) GetMode(m core.Mode) bool {
	return e.modes.Get(m)
}

// Reset brings the emulator back to its power-on state. Only the
// current screen is reset in full.
func (e *Emulator) Reset() {
	e.tokenizer.Reset()
	e.resetModes()
	e.resetCharset()
	e.scr().Reset()
}

// Token, SetWindowTitle and DecodingError implement tokenizer.Handler.

func (e *Emulator) Token(t tokenizer.Token) {
	e.processToken(t)
}

func (e *Emulator) SetWindowTitle(title string) {
	e.SetTitle(title)
}

func (e *Emulator) DecodingError() {
	msg, ok := tokenizer.DumpSequence(e.tokenizer.Sequence())
	if !ok {
		return
	}
	e.logger.Debug(msg)
	if e.logFn != nil {
		e.logFn(msg)
	}
}

// Charset plumbing. setCharset installs a designation into both screens'
// records; setAndUseCharset designates on the active screen only, and
// selection only touches the active screen.

func (e *Emulator) setCharset(n int, id charsets.Id) {
	e.screens[0].Charset().Designate(n, id)
	e.screens[1].Charset().Designate(n, id)
	e.scr().Charset().Select(n)
}

func (e *Emulator) setAndUseCharset(n int, id charsets.Id) {
	e.scr().Charset().Designate(n, id)
	e.scr().Charset().Select(n)
}

func (e *Emulator) useCharset(n int) {
	e.scr().Charset().Select(n)
}

func (e *Emulator) resetCharset() {
	*e.screens[0].Charset() = charsets.NewState()
	*e.screens[1].Charset() = charsets.NewState()
}

func (e *Emulator) saveCursor() {
	e.scr().SaveCursor()
}

func (e *Emulator) restoreCursor() {
	e.scr().RestoreCursor()
}

// Screen selection and geometry.

func (e *Emulator) setScreen(n int) {
	e.current = n & 1
}

func (e *Emulator) setScreenSize(lines, columns int) {
	if lines < 1 || columns < 1 {
		return
	}
	e.screens[0].Resize(size.CellCountInt(lines), size.CellCountInt(columns))
	e.screens[1].Resize(size.CellCountInt(lines), size.CellCountInt(columns))
}

func (e *Emulator) clearScreenAndSetColumns(columns int) {
	e.setScreenSize(int(e.scr().Lines()), columns)
	e.scr().ClearEntireScreen()
	e.scr().SetDefaultMargins()
	e.scr().SetCursorYX(0, 0)
}

// Emulator-wide mode handling. Screen-level modes route through
// setScreenMode and friends, which address both screens at once.

func (e *Emulator) resetModes() {
	// Allow132 survives a reset, matching xterm's VTReset.
	e.resetMode(core.ModeColumns132)
	e.saveMode(core.ModeColumns132)
	e.resetMode(core.ModeAppScreen)
	e.saveMode(core.ModeAppScreen)
	e.resetScreenMode(core.ModeLineFeed)
	e.setMode(core.ModeAnsi)
}

func (e *Emulator) setMode(m core.Mode) {
	e.modes.Set(m, true)
	switch m {
	case core.ModeColumns132:
		if e.modes.Get(core.ModeAllow132) {
			e.clearScreenAndSetColumns(132)
		} else {
			e.modes.Set(m, false)
		}
	case core.ModeAppScreen:
		e.setScreen(1)
	case core.ModeAnsi:
		e.tokenizer.SetAnsi(true)
	}
}

func (e *Emulator) resetMode(m core.Mode) {
	e.modes.Set(m, false)
	switch m {
	case core.ModeColumns132:
		if e.modes.Get(core.ModeAllow132) {
			e.clearScreenAndSetColumns(80)
		}
	case core.ModeAppScreen:
		e.setScreen(0)
	case core.ModeAnsi:
		e.tokenizer.SetAnsi(false)
	}
}

func (e *Emulator) saveMode(m core.Mode) {
	e.modes.Save(m)
}

// restoreMode brings back the saved flag without replaying its side
// effects, so restoring AppScreen does not switch screens. This matches
// the historical behavior.
func (e *Emulator) restoreMode(m core.Mode) {
	e.modes.Restore(m)
}

func (e *Emulator) setScreenMode(m core.Mode) {
	e.screens[0].SetMode(m)
	e.screens[1].SetMode(m)
}

func (e *Emulator) resetScreenMode(m core.Mode) {
	e.screens[0].ResetMode(m)
	e.screens[1].ResetMode(m)
}

func (e *Emulator) saveScreenMode(m core.Mode) {
	e.screens[0].SaveMode(m)
	e.screens[1].SaveMode(m)
}

// restoreScreenMode resets the mode on both screens instead of
// restoring the saved flag. Kept as-is for compatibility with the
// terminals this one is modeled after.
func (e *Emulator) restoreScreenMode(m core.Mode) {
	e.screens[0].ResetMode(m)
	e.screens[1].ResetMode(m)
}
