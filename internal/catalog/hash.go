package catalog

import (
	"strings"
	"unicode/utf16"

	"cgreplay/internal/seed"
)

const hexDigits = "0123456789abcdef"

// ListHash hashes the catalog the way the study tooling prints its
// "Video list hash": the seed hash of the list rendered as Python's
// json.dumps would render it (", " separators, ASCII-only escapes).
func ListHash(files []string) uint32 {
	return seed.FromString(pythonJSONList(files))
}

func pythonJSONList(files []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range files {
		if i > 0 {
			b.WriteString(", ")
		}
		writePythonJSONString(&b, f)
	}
	b.WriteByte(']')
	return b.String()
}

func writePythonJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r >= 0x10000:
				hi, lo := utf16.EncodeRune(r)
				writeUnicodeEscape(b, hi)
				writeUnicodeEscape(b, lo)
			case r < 0x20 || r > 0x7e:
				writeUnicodeEscape(b, r)
			default:
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

func writeUnicodeEscape(b *strings.Builder, r rune) {
	b.WriteString(`\u`)
	b.WriteByte(hexDigits[(r>>12)&0xF])
	b.WriteByte(hexDigits[(r>>8)&0xF])
	b.WriteByte(hexDigits[(r>>4)&0xF])
	b.WriteByte(hexDigits[r&0xF])
}
