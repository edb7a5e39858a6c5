package dbf

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNumeric(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{"", "0"}, // blank coerces to zero, not null
		{"      ", "0"},
		{".5", "0.5"},
		{"  -3.20", "-3.2"},
		{"   12345", "12345"},
		{"-0.001", "-0.001"},
		{"42", "42"},
	}

	for _, tc := range testCases {
		v, err := decodeNumeric(nil, nil, []byte(tc.raw))
		require.NoError(t, err, "raw %q", tc.raw)

		d, ok := v.(decimal.Decimal)
		require.True(t, ok)
		want, _ := decimal.NewFromString(tc.want)
		assert.True(t, d.Equal(want), "raw %q: got %s, want %s", tc.raw, d, want)
	}
}

func TestDecodeNumeric_Exact(t *testing.T) {
	// "-3.20" must survive with its scale, not as a rounded float.
	v, err := decodeNumeric(nil, nil, []byte("  -3.20"))
	require.NoError(t, err)
	assert.Equal(t, "-3.20", v.(decimal.Decimal).StringFixed(2))
}

func TestDecodeNumeric_Malformed(t *testing.T) {
	_, err := decodeNumeric(nil, nil, []byte("12x4"))
	assert.Error(t, err)
}

func TestDecodeLogical(t *testing.T) {
	for _, c := range []byte{'Y', 'y', 'T', 't'} {
		v, err := decodeLogical(nil, nil, []byte{c})
		require.NoError(t, err)
		assert.Equal(t, true, v, "byte %q", c)
	}
	// '?' and space mean "unknown" but coerce to false.
	for _, c := range []byte{'N', 'n', 'F', 'f', '?', ' '} {
		v, err := decodeLogical(nil, nil, []byte{c})
		require.NoError(t, err)
		assert.Equal(t, false, v, "byte %q", c)
	}

	_, err := decodeLogical(nil, nil, []byte{'X'})
	assert.Error(t, err)
}

func TestDecodeInteger(t *testing.T) {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw, uint32(0xFFFFFFFF))

	v, err := decodeInteger(nil, nil, raw)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)
}

func TestDecodeDate(t *testing.T) {
	v, err := decodeDate(nil, nil, []byte("20200229"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), v)

	// All-space means null.
	v, err = decodeDate(nil, nil, []byte("        "))
	require.NoError(t, err)
	assert.Nil(t, v)

	// A "00" century is rewritten to "20".
	v, err = decodeDate(nil, nil, []byte("00010101"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), v)

	_, err = decodeDate(nil, nil, []byte("2020AB01"))
	assert.Error(t, err)
}

func TestDecodeDateTime(t *testing.T) {
	raw := make([]byte, 8)

	// Both fields zero means null.
	v, err := decodeDateTime(nil, nil, raw)
	require.NoError(t, err)
	assert.Nil(t, v)

	// Julian day 2458850 is 2020-01-01; 3,661,000 ms past midnight is
	// 01:01:01.
	binary.LittleEndian.PutUint32(raw[0:4], 2458850)
	binary.LittleEndian.PutUint32(raw[4:8], 3661000)
	v, err = decodeDateTime(nil, nil, raw)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 1, 1, 1, 1, 0, time.UTC), v)

	// Day zero of the epoch itself.
	binary.LittleEndian.PutUint32(raw[0:4], julianDayOffset)
	binary.LittleEndian.PutUint32(raw[4:8], 0)
	v, err = decodeDateTime(nil, nil, raw)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), v)
}

func TestDecodeMemo(t *testing.T) {
	v, err := decodeMemo(nil, nil, []byte{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = decodeMemo(nil, nil, []byte("    "))
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = decodeMemo(nil, nil, []byte{0x10, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, MemoPlaceholder, v)
}

func TestDecodeCharacter(t *testing.T) {
	table := &Table{}

	v, err := decodeCharacter(table, nil, []byte("HELLO     "))
	require.NoError(t, err)
	assert.Equal(t, "HELLO", v)

	// Empty string is a value, not null.
	v, err = decodeCharacter(table, nil, []byte("          "))
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestDecodeCharacter_Codepage(t *testing.T) {
	decoder, err := lookupCodepage("cp1252")
	require.NoError(t, err)
	table := &Table{decoder: decoder}

	v, err := decodeCharacter(table, nil, []byte{'c', 'a', 'f', 0xE9})
	require.NoError(t, err)
	assert.Equal(t, "café", v)

	// The ASCII-safe default flattens high bytes instead.
	v, err = decodeCharacter(&Table{}, nil, []byte{'c', 'a', 'f', 0xE9})
	require.NoError(t, err)
	assert.Equal(t, "caf?", v)
}

func TestLookupCodepage_Unknown(t *testing.T) {
	_, err := lookupCodepage("cp99999")
	assert.Error(t, err)
}

func TestDecodeLegacyTagsAreNull(t *testing.T) {
	for _, typ := range []FieldType{TypeFloat, TypeDouble, TypeGeneral, TypePicture, TypeVarbinary} {
		v, err := fieldDecoders[typ](nil, nil, []byte("anything"))
		require.NoError(t, err)
		assert.Nil(t, v, "type %c", typ)
	}
}

func TestDecodeValue_WrapsFieldContext(t *testing.T) {
	table := &Table{}
	fd := &FieldDescriptor{Index: 3, Name: "FLAG", Type: TypeLogical, Length: 1}

	_, err := table.decodeValue(fd, []byte{'X'})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 3 (FLAG)")
}
