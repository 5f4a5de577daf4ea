// Escape sequence recognition for the VT100/xterm grammar.
//
// There is no explicit state enum. The state lives in a rolling buffer
// of the code points scanned so far, and every incoming code point is
// combined with that buffer to form a scanning decision. The rule
// checks in Next must stay in order.
package tokenizer

import (
	"github.com/hnimtadd/vterm/terminal/ansi"
	"github.com/hnimtadd/vterm/terminal/color"
)

const (
	// MaxTokenLength bounds the rolling buffer. Longer sequences
	// saturate onto the last slot rather than overflow.
	MaxTokenLength = 64
	// MaxArgs bounds the CSI argument vector.
	MaxArgs = 16
	// MaxArgument clamps each decoded argument value.
	MaxArgument = 4096
)

// Handler receives the tokenizer's output. Calls are synchronous: the
// token buffer is still intact while the handler runs, so Sequence may
// be consulted for diagnostics.
type Handler interface {
	Token(t Token)
	SetWindowTitle(title string)
	DecodingError()
}

// Tokenizer turns a stream of decoded code points into tokens.
type Tokenizer struct {
	handler Handler

	buf  [MaxTokenLength]uint32
	pos  int
	argv [MaxArgs]int
	argc int

	// True for the ANSI grammar, false for VT52.
	ansi bool
}

func New(handler Handler) *Tokenizer {
	return &Tokenizer{handler: handler, ansi: true}
}

// SetAnsi switches between the ANSI and VT52 grammars.
func (t *Tokenizer) SetAnsi(on bool) {
	t.ansi = on
}

// Reset drops the buffered token. Only the first two argument slots are
// cleared; higher slots keep whatever the previous sequence left there.
func (t *Tokenizer) Reset() {
	t.pos = 0
	t.argc = 0
	t.argv[0] = 0
	t.argv[1] = 0
}

// Sequence returns the code points buffered so far. The slice aliases
// the internal buffer and is only valid until the next call to Next.
func (t *Tokenizer) Sequence() []uint32 {
	return t.buf[:t.pos]
}

func (t *Tokenizer) append(cc uint32) {
	t.buf[t.pos] = cc
	t.pos = min(t.pos+1, MaxTokenLength-1)
}

func (t *Tokenizer) addDigit(digit int) {
	t.argv[t.argc] = min(10*t.argv[t.argc]+digit, MaxArgument)
}

func (t *Tokenizer) addArgument() {
	t.argc = min(t.argc+1, MaxArgs-1)
	t.argv[t.argc] = 0
}

// insideOSC reports whether the buffer holds an unterminated ESC ]
// string.
func (t *Tokenizer) insideOSC() bool {
	return t.pos >= 2 && t.buf[1] == ']'
}

// Next consumes one decoded code point and emits any tokens it
// completes.
func (t *Tokenizer) Next(cc uint32) {
	esc := uint32(ansi.C0.ESC)

	if cc == uint32(ansi.C0.DEL) {
		return
	}

	// DCS, PM and APC strings are swallowed until the terminating
	// backslash.
	if t.pos == 2 && (t.buf[1] == 'P' || t.buf[1] == '^' || t.buf[1] == '_') {
		if cc == '\\' {
			t.Reset()
		}
		return
	}

	if cc < 0x20 && !t.insideOSC() {
		// Controls are allowed within escape sequences on a VT100, so
		// most of them leave the pending token alone. CAN, SUB and ESC
		// abort it.
		if cc == uint32(ansi.C0.CAN) || cc == uint32(ansi.C0.SUB) || cc == esc {
			t.Reset()
		}
		if cc != esc {
			t.handler.Token(Token{Tag: TagCtl, A: byte(cc + '@')})
			return
		}
	}

	t.append(cc)

	s := &t.buf
	p := t.pos

	if !t.ansi {
		t.nextVT52(cc, s, p)
		return
	}

	if p == 1 && s[0] == esc {
		return
	}
	if p == 1 && s[0] == uint32(ansi.CSI8Bit) {
		s[0] = esc
		t.Next('[')
		return
	}
	if p == 2 && is(s[1], classGRP) {
		return
	}
	if t.insideOSC() {
		if cc == uint32(ansi.C0.BEL) {
			t.windowAttributeRequest()
			t.Reset()
		}
		return
	}
	if p == 2 && (s[1] == 'P' || s[1] == '^' || s[1] == '_') {
		return
	}
	if p == 3 && (s[2] == '?' || s[2] == '>' || s[2] == '!') {
		return
	}
	if p == 1 && cc >= 32 {
		t.handler.Token(Token{Tag: TagChr, P: int(cc)})
		t.Reset()
		return
	}
	if p == 2 && s[0] == esc {
		t.handler.Token(Token{Tag: TagEsc, A: byte(s[1])})
		t.Reset()
		return
	}
	if p == 3 && is(s[1], classSCS) {
		t.handler.Token(Token{Tag: TagEscCS, A: byte(s[1]), N: int(s[2])})
		t.Reset()
		return
	}
	if p == 3 && s[1] == '#' {
		t.handler.Token(Token{Tag: TagEscDE, A: byte(s[2])})
		t.Reset()
		return
	}
	intermediate := p >= 3 && s[2] != '?' && s[2] != '!' && s[2] != '>'
	if intermediate && is(cc, classCPN) {
		t.handler.Token(Token{Tag: TagCSIPN, A: byte(cc), P: t.argv[0], Q: t.argv[1]})
		t.Reset()
		return
	}
	if intermediate && is(cc, classCPS) {
		t.handler.Token(Token{Tag: TagCSIPS, A: byte(cc), N: t.argv[0], P: t.argv[1], Q: t.argv[2]})
		t.Reset()
		return
	}
	if p >= 3 && s[2] == '!' {
		t.handler.Token(Token{Tag: TagCSIPE, A: byte(cc)})
		t.Reset()
		return
	}
	if p >= 3 && is(cc, classDIG) {
		t.addDigit(int(cc - '0'))
		return
	}
	if p >= 3 && cc == ';' {
		t.addArgument()
		return
	}

	// A CSI final with collected arguments. Every argument yields its
	// own token, with the 256-color and 24-bit SGR extensions folding
	// their parameter runs into a single token.
	for i := 0; i <= t.argc; i++ {
		switch {
		case p >= 3 && s[2] == '?':
			t.handler.Token(Token{Tag: TagCSIPR, A: byte(cc), N: t.argv[i]})

		case p >= 3 && s[2] == '>':
			t.handler.Token(Token{Tag: TagCSIPG, A: byte(cc)})

		case cc == 'm' && t.argc-i >= 4 && (t.argv[i] == 38 || t.argv[i] == 48) && t.argv[i+1] == 2:
			// 38;2;R;G;B or 48;2;R;G;B
			i += 2
			t.handler.Token(Token{
				Tag: TagCSIPS, A: 'm', N: t.argv[i-2],
				P: int(color.SpaceRGB),
				Q: t.argv[i]<<16 | t.argv[i+1]<<8 | t.argv[i+2],
			})
			i += 2

		case cc == 'm' && t.argc-i >= 2 && (t.argv[i] == 38 || t.argv[i] == 48) && t.argv[i+1] == 5:
			// 38;5;index or 48;5;index
			i += 2
			t.handler.Token(Token{
				Tag: TagCSIPS, A: 'm', N: t.argv[i-2],
				P: int(color.SpaceIndex256),
				Q: t.argv[i],
			})

		default:
			t.handler.Token(Token{Tag: TagCSIPS, A: byte(cc), N: t.argv[i]})
		}
	}
	t.Reset()
}

func (t *Tokenizer) nextVT52(cc uint32, s *[MaxTokenLength]uint32, p int) {
	if p == 1 && s[0] == uint32(ansi.C0.ESC) {
		return
	}
	if p == 1 && is(s[0], classCHR) {
		t.handler.Token(Token{Tag: TagChr, P: int(s[0])})
		t.Reset()
		return
	}
	if (p == 2 || p == 3) && s[1] == 'Y' {
		return
	}
	if p < 4 {
		t.handler.Token(Token{Tag: TagVT52, A: byte(s[1])})
		t.Reset()
		return
	}
	t.handler.Token(Token{Tag: TagVT52, A: byte(s[1]), P: int(s[2]), Q: int(s[3])})
	t.Reset()
}

// windowAttributeRequest parses a finished ESC ] string. Attributes 0
// and 2 set the window title; the title is everything between the
// semicolon and the final BEL.
func (t *Tokenizer) windowAttributeRequest() {
	attribute := 0
	i := 2
	for ; i < t.pos && t.buf[i] >= '0' && t.buf[i] <= '9'; i++ {
		attribute = 10*attribute + int(t.buf[i]-'0')
	}

	if t.buf[i] != ';' {
		t.handler.DecodingError()
		return
	}

	if attribute == 0 || attribute == 2 {
		title := make([]rune, 0, t.pos-i-2)
		for _, cp := range t.buf[i+1 : t.pos-1] {
			title = append(title, rune(cp))
		}
		t.handler.SetWindowTitle(string(title))
	}
}
