package dbf

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// codepages maps the codepage names accepted in TableConfig to their
// single-byte encodings. Aliases cover the spellings seen in the wild
// (plain number, "cpNNN", "windows-NNN").
var codepages = map[string]encoding.Encoding{
	"437":          charmap.CodePage437,
	"850":          charmap.CodePage850,
	"852":          charmap.CodePage852,
	"866":          charmap.CodePage866,
	"1250":         charmap.Windows1250,
	"1251":         charmap.Windows1251,
	"1252":         charmap.Windows1252,
	"latin1":       charmap.ISO8859_1,
	"iso8859-1":    charmap.ISO8859_1,
	"iso8859-2":    charmap.ISO8859_2,
	"koi8r":        charmap.KOI8R,
	"macintosh":    charmap.Macintosh,
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
}

// lookupCodepage resolves a codepage selector to a text decoder. The
// empty selector means the ASCII-safe default and returns a nil decoder.
func lookupCodepage(name string) (*encoding.Decoder, error) {
	if name == "" {
		return nil, nil
	}
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "cp")
	if enc, ok := codepages[key]; ok {
		return enc.NewDecoder(), nil
	}
	return nil, fmt.Errorf("unknown codepage %q", name)
}

// decodeText converts one character field's raw bytes using the table's
// decoder. With no decoder configured the bytes are taken as 7-bit
// ASCII and anything above 0x7F becomes '?'.
func (t *Table) decodeText(raw []byte) (string, error) {
	if t.decoder == nil {
		return asciiString(raw), nil
	}
	s, err := t.decoder.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("codepage decode: %w", err)
	}
	return string(s), nil
}

func asciiString(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		if c > 0x7F {
			c = '?'
		}
		b.WriteByte(c)
	}
	return b.String()
}
