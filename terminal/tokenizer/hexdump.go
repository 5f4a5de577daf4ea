package tokenizer

import (
	"fmt"
	"strings"
)

// DumpSequence renders a token buffer for diagnostics. Printable ASCII
// other than space (0x21..0x7E) is kept as-is, backslashes are doubled,
// everything else, space included, becomes a hex escape. The bool is false when the buffer is not worth reporting:
// empty, or a lone printable that simply matched no rule.
func DumpSequence(seq []uint32) (string, bool) {
	if len(seq) == 0 || (len(seq) == 1 && seq[0]&0xFF >= 32) {
		return "", false
	}
	var b strings.Builder
	b.WriteString("Undecodable sequence: ")
	for _, cc := range seq {
		switch {
		case cc == '\\':
			b.WriteString(`\\`)
		case cc > 32 && cc < 127:
			b.WriteByte(byte(cc))
		default:
			fmt.Fprintf(&b, `\x%04x(hex)`, cc)
		}
	}
	return b.String(), true
}
