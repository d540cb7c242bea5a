package vpack

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// String renders the tree in a compact JSON-like notation for debugging.
// Non-JSON scalars are tagged: (binary 0a0b), (date 2024-01-02T03:04:05Z).
// Integer keys without a translation are rendered as #code.
func (s Slice) String() string {
	var b strings.Builder
	s.render(&b)

	return b.String()
}

func (s Slice) render(b *strings.Builder) {
	switch s.Type() {
	case None:
		b.WriteString("none")
	case Null:
		b.WriteString("null")
	case Bool:
		b.WriteString(strconv.FormatBool(s.n.b))
	case Int:
		b.WriteString(strconv.FormatInt(s.n.i, 10))
	case UInt:
		b.WriteString(strconv.FormatUint(s.n.u, 10))
	case Double:
		b.WriteString(strconv.FormatFloat(s.n.f, 'g', -1, 64))
	case BigInt:
		b.WriteString(s.n.bi.String())
	case BigFloat:
		b.WriteString(s.n.bf.Text('g', -1))
	case String:
		b.WriteString(strconv.Quote(s.n.s))
	case Binary:
		b.WriteString("(binary ")
		b.WriteString(hex.EncodeToString(s.n.bin))
		b.WriteString(")")
	case UTCDate:
		b.WriteString("(date ")
		b.WriteString(s.n.t.UTC().Format(time.RFC3339Nano))
		b.WriteString(")")
	case Array:
		b.WriteByte('[')
		for i := 0; i < s.Length(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			s.At(i).render(b)
		}
		b.WriteByte(']')
	case Object:
		b.WriteByte('{')
		for i := 0; i < s.Length(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}

			if name, err := s.KeyName(i); err == nil {
				b.WriteString(strconv.Quote(name))
			} else {
				b.WriteByte('#')
				s.KeyAt(i).render(b)
			}

			b.WriteByte(':')
			s.ValueAt(i).render(b)
		}
		b.WriteByte('}')
	}
}
