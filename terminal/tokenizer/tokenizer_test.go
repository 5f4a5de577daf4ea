package tokenizer

import (
	"testing"

	"github.com/hnimtadd/vterm/terminal/color"
	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	tokens []Token
	titles []string
	errors int
}

func (h *recordingHandler) Token(t Token)               { h.tokens = append(h.tokens, t) }
func (h *recordingHandler) SetWindowTitle(title string) { h.titles = append(h.titles, title) }
func (h *recordingHandler) DecodingError()              { h.errors++ }

func feed(tz *Tokenizer, input string) {
	for _, b := range []byte(input) {
		tz.Next(uint32(b))
	}
}

func TestTokenizerPlainCharacters(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "Hi")

	assert.Equal(t, []Token{
		{Tag: TagChr, P: 'H'},
		{Tag: TagChr, P: 'i'},
	}, h.tokens)
}

func TestTokenizerControls(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\r\n\b\t")

	assert.Equal(t, []Token{
		{Tag: TagCtl, A: 'M'},
		{Tag: TagCtl, A: 'J'},
		{Tag: TagCtl, A: 'H'},
		{Tag: TagCtl, A: 'I'},
	}, h.tokens)
}

func TestTokenizerDELIsDropped(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	tz.Next(0x7F)
	feed(tz, "a")

	assert.Equal(t, []Token{{Tag: TagChr, P: 'a'}}, h.tokens)
}

func TestTokenizerSimpleEscape(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1bD\x1b7")

	assert.Equal(t, []Token{
		{Tag: TagEsc, A: 'D'},
		{Tag: TagEsc, A: '7'},
	}, h.tokens)
}

func TestTokenizerCharsetDesignation(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b(0\x1b)B")

	assert.Equal(t, []Token{
		{Tag: TagEscCS, A: '(', N: '0'},
		{Tag: TagEscCS, A: ')', N: 'B'},
	}, h.tokens)
}

func TestTokenizerDecExtension(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b#8")

	assert.Equal(t, []Token{{Tag: TagEscDE, A: '8'}}, h.tokens)
}

func TestTokenizerCSINumeric(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b[2;3H\x1b[A")

	assert.Equal(t, []Token{
		{Tag: TagCSIPN, A: 'H', P: 2, Q: 3},
		{Tag: TagCSIPN, A: 'A', P: 0, Q: 0},
	}, h.tokens)
}

func TestTokenizerSGRArgumentPerToken(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b[1;31m")

	assert.Equal(t, []Token{
		{Tag: TagCSIPS, A: 'm', N: 1},
		{Tag: TagCSIPS, A: 'm', N: 31},
	}, h.tokens)
}

func TestTokenizerSGRTrueColor(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b[38;2;10;20;30m")

	assert.Equal(t, []Token{
		{
			Tag: TagCSIPS, A: 'm', N: 38,
			P: int(color.SpaceRGB),
			Q: 10<<16 | 20<<8 | 30,
		},
	}, h.tokens)
}

func TestTokenizerSGRIndexed(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b[48;5;196m")

	assert.Equal(t, []Token{
		{
			Tag: TagCSIPS, A: 'm', N: 48,
			P: int(color.SpaceIndex256),
			Q: 196,
		},
	}, h.tokens)
}

func TestTokenizerSGRMixedRun(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	// A bold marker before and a plain attribute after the extension.
	feed(tz, "\x1b[1;38;5;7;4m")

	assert.Equal(t, []Token{
		{Tag: TagCSIPS, A: 'm', N: 1},
		{Tag: TagCSIPS, A: 'm', N: 38, P: int(color.SpaceIndex256), Q: 7},
		{Tag: TagCSIPS, A: 'm', N: 4},
	}, h.tokens)
}

func TestTokenizerPrivateModes(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b[?25l\x1b[?1;2h")

	assert.Equal(t, []Token{
		{Tag: TagCSIPR, A: 'l', N: 25},
		{Tag: TagCSIPR, A: 'h', N: 1},
		{Tag: TagCSIPR, A: 'h', N: 2},
	}, h.tokens)
}

func TestTokenizerGreaterThanIntermediate(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b[>0c")

	assert.Equal(t, []Token{{Tag: TagCSIPG, A: 'c'}}, h.tokens)
}

func TestTokenizerBangIntermediate(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b[!p")

	assert.Equal(t, []Token{{Tag: TagCSIPE, A: 'p'}}, h.tokens)
}

func TestTokenizerEightBitCSI(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	tz.Next(0x9B)
	feed(tz, "5A")

	assert.Equal(t, []Token{{Tag: TagCSIPN, A: 'A', P: 5, Q: 0}}, h.tokens)
}

func TestTokenizerOSCTitle(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b]0;My Title\x07a")

	assert.Equal(t, []string{"My Title"}, h.titles)
	assert.Equal(t, []Token{{Tag: TagChr, P: 'a'}}, h.tokens)
}

func TestTokenizerOSCAttributeTwo(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b]2;other\x07")

	assert.Equal(t, []string{"other"}, h.titles)
}

func TestTokenizerOSCUnknownAttribute(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b]7;ignored\x07")

	assert.Empty(t, h.titles)
	assert.Zero(t, h.errors)
}

func TestTokenizerOSCMissingSemicolon(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b]0\x07")

	assert.Empty(t, h.titles)
	assert.Equal(t, 1, h.errors)
}

func TestTokenizerOSCSwallowsControls(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	// A CR inside the string must not surface as a control token.
	feed(tz, "\x1b]0;a\rb\x07")

	assert.Empty(t, h.tokens)
	assert.Equal(t, []string{"a\rb"}, h.titles)
}

func TestTokenizerDCSIsSwallowed(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1bPsome data\x1b\\after")

	// Only the text after the terminator comes through.
	assert.Equal(t, []Token{
		{Tag: TagChr, P: 'a'},
		{Tag: TagChr, P: 'f'},
		{Tag: TagChr, P: 't'},
		{Tag: TagChr, P: 'e'},
		{Tag: TagChr, P: 'r'},
	}, h.tokens)
}

func TestTokenizerCancelAborts(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b[12\x18a")

	assert.Equal(t, []Token{
		{Tag: TagCtl, A: 'X'},
		{Tag: TagChr, P: 'a'},
	}, h.tokens)
}

func TestTokenizerEscapeRestartsSequence(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b[12\x1b[3C")

	assert.Equal(t, []Token{{Tag: TagCSIPN, A: 'C', P: 3, Q: 0}}, h.tokens)
}

func TestTokenizerControlInsideCSI(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	// A VT100 allows controls in the middle of a sequence.
	feed(tz, "\x1b[2\nC")

	assert.Equal(t, []Token{
		{Tag: TagCtl, A: 'J'},
		{Tag: TagCSIPN, A: 'C', P: 2, Q: 0},
	}, h.tokens)
}

func TestTokenizerArgumentClamping(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	feed(tz, "\x1b[99999A")

	assert.Equal(t, []Token{{Tag: TagCSIPN, A: 'A', P: MaxArgument, Q: 0}}, h.tokens)
}

func TestTokenizerArgcClamping(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	input := "\x1b["
	for range 20 {
		input += "1;"
	}
	input += "m"
	feed(tz, input)

	// One token per argument slot, saturated at the vector size.
	assert.Len(t, h.tokens, MaxArgs)
}

func TestTokenizerBufferSaturation(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)

	input := "\x1b]0;"
	for range 2 * MaxTokenLength {
		input = input + "x"
	}
	input += "\x07"
	feed(tz, input)

	// The title is cut down to what the buffer could hold, and nothing
	// panics on the way there.
	assert.Len(t, h.titles, 1)
	assert.Less(t, len(h.titles[0]), MaxTokenLength)
}

func TestTokenizerVT52(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)
	tz.SetAnsi(false)

	feed(tz, "a\x1bA\x1bY '")

	assert.Equal(t, []Token{
		{Tag: TagChr, P: 'a'},
		{Tag: TagVT52, A: 'A'},
		{Tag: TagVT52, A: 'Y', P: ' ', Q: '\''},
	}, h.tokens)
}

func TestTokenizerVT52LeaveMode(t *testing.T) {
	h := &recordingHandler{}
	tz := New(h)
	tz.SetAnsi(false)

	feed(tz, "\x1b<")
	assert.Equal(t, []Token{{Tag: TagVT52, A: '<'}}, h.tokens)

	tz.SetAnsi(true)
	h.tokens = nil
	feed(tz, "\x1b[2J")
	assert.Equal(t, []Token{{Tag: TagCSIPS, A: 'J', N: 2}}, h.tokens)
}

func TestDumpSequence(t *testing.T) {
	msg, ok := DumpSequence([]uint32{0x1B, '[', '1', 0x07})
	assert.True(t, ok)
	assert.Equal(t, `Undecodable sequence: \x001b(hex)[1\x0007(hex)`, msg)
}

func TestDumpSequenceEscapesBackslash(t *testing.T) {
	msg, ok := DumpSequence([]uint32{0x1B, '\\'})
	assert.True(t, ok)
	assert.Equal(t, `Undecodable sequence: \x001b(hex)\\`, msg)
}

func TestDumpSequenceSuppressed(t *testing.T) {
	_, ok := DumpSequence(nil)
	assert.False(t, ok)

	_, ok = DumpSequence([]uint32{'a'})
	assert.False(t, ok)
}

func TestDumpSequenceEscapesSpace(t *testing.T) {
	msg, ok := DumpSequence([]uint32{0x1B, ' '})
	assert.True(t, ok)
	assert.Equal(t, `Undecodable sequence: \x001b(hex)\x0020(hex)`, msg)
}
