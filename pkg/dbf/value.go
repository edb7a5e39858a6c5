package dbf

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// julianDayOffset is the Julian day number of the day before 0001-01-01,
// i.e. the fixed difference between the DateTime field's day counter and
// days elapsed since the calendar epoch.
const julianDayOffset = 1721426

var calendarEpoch = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

type decodeFunc func(t *Table, fd *FieldDescriptor, raw []byte) (any, error)

// fieldDecoders is the per-type-tag decode table. A tag missing here is
// unsupported and rejects the whole file at open time.
var fieldDecoders = map[FieldType]decodeFunc{
	TypeCharacter: decodeCharacter,
	TypeNumeric:   decodeNumeric,
	TypeInteger:   decodeInteger,
	TypeLogical:   decodeLogical,
	TypeDate:      decodeDate,
	TypeDateTime:  decodeDateTime,
	TypeMemo:      decodeMemo,

	// Legacy tags: the column survives, the value does not.
	TypeFloat:     decodeNull,
	TypeDouble:    decodeNull,
	TypeGeneral:   decodeNull,
	TypePicture:   decodeNull,
	TypeVarbinary: decodeNull,
}

// decodeValue maps one field's raw byte window to a typed value.
// Failures carry the field's ordinal and name for diagnostics.
func (t *Table) decodeValue(fd *FieldDescriptor, raw []byte) (any, error) {
	v, err := fieldDecoders[fd.Type](t, fd, raw)
	if err != nil {
		return nil, fmt.Errorf("field %d (%s): %w", fd.Index, fd.Name, err)
	}
	return v, nil
}

// decodeCharacter decodes codepage text and trims trailing padding.
// An empty string is a value, not null.
func decodeCharacter(t *Table, _ *FieldDescriptor, raw []byte) (any, error) {
	s, err := t.decodeText(raw)
	if err != nil {
		return nil, err
	}
	return strings.TrimRightFunc(s, unicode.IsSpace), nil
}

// decodeNumeric parses right-aligned ASCII decimal text exactly.
// An all-blank field coerces to zero rather than null, and a bare
// leading '.' gains a zero; both quirks are inherited from the source
// system and must not be "fixed".
func decodeNumeric(_ *Table, _ *FieldDescriptor, raw []byte) (any, error) {
	s := strings.TrimLeftFunc(string(raw), unicode.IsSpace)
	if s == "" {
		s = "0"
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("numeric value %q: %w", s, err)
	}
	return d, nil
}

func decodeInteger(_ *Table, _ *FieldDescriptor, raw []byte) (any, error) {
	if len(raw) != 4 {
		return nil, fmt.Errorf("integer field is %d bytes, want 4", len(raw))
	}
	return int32(binary.LittleEndian.Uint32(raw)), nil
}

// decodeLogical maps the single flag byte. '?' and space mean
// "unknown" in DBF but coerce to false here, again matching the source
// system rather than true null semantics.
func decodeLogical(_ *Table, _ *FieldDescriptor, raw []byte) (any, error) {
	if len(raw) != 1 {
		return nil, fmt.Errorf("logical field is %d bytes, want 1", len(raw))
	}
	switch raw[0] {
	case 'Y', 'y', 'T', 't':
		return true, nil
	case 'N', 'n', 'F', 'f', '?', ' ':
		return false, nil
	default:
		return nil, fmt.Errorf("logical value %q", raw[0])
	}
}

// decodeDate parses ASCII yyyyMMdd. Some writers emit a "00" century
// for 2000s dates; it is rewritten to "20" before parsing. An all-blank
// field is null.
func decodeDate(_ *Table, _ *FieldDescriptor, raw []byte) (any, error) {
	if len(raw) != 8 {
		return nil, fmt.Errorf("date field is %d bytes, want 8", len(raw))
	}
	s := string(raw)
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "00") {
		s = "20" + s[2:]
	}
	d, err := time.Parse("20060102", s)
	if err != nil {
		return nil, fmt.Errorf("date value %q: %w", s, err)
	}
	return d, nil
}

// decodeDateTime reads a Julian day count and milliseconds since
// midnight, both little-endian int32. Both zero means null.
func decodeDateTime(_ *Table, _ *FieldDescriptor, raw []byte) (any, error) {
	if len(raw) != 8 {
		return nil, fmt.Errorf("datetime field is %d bytes, want 8", len(raw))
	}
	days := int32(binary.LittleEndian.Uint32(raw[0:4]))
	msec := int32(binary.LittleEndian.Uint32(raw[4:8]))
	if days == 0 && msec == 0 {
		return nil, nil
	}
	dt := calendarEpoch.AddDate(0, 0, int(days)-julianDayOffset)
	return dt.Add(time.Duration(msec) * time.Millisecond), nil
}

// decodeMemo never resolves the companion memo file; a set pointer
// yields the fixed placeholder so callers can tell "there was content"
// from "there was none".
func decodeMemo(_ *Table, _ *FieldDescriptor, raw []byte) (any, error) {
	if allBytes(raw, 0x00) || allBytes(raw, ' ') {
		return nil, nil
	}
	return MemoPlaceholder, nil
}

func decodeNull(_ *Table, _ *FieldDescriptor, _ []byte) (any, error) {
	return nil, nil
}

func allBytes(raw []byte, want byte) bool {
	for _, c := range raw {
		if c != want {
			return false
		}
	}
	return true
}
