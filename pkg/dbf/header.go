package dbf

import (
	"encoding/binary"
	"time"
)

const headerSize = 32

// Reserved header bytes that must hold their documented value. The
// production-MDX flag (28) and language-driver id (29) are deliberately
// absent: different writers populate them freely.
var reservedHeaderBytes = []struct {
	offset int
	want   byte
	name   string
}{
	{12, 0, "reserved"},
	{13, 0, "reserved"},
	{14, 0, "incomplete-transaction flag"},
	{15, 0, "encryption flag"},
	{16, 0, "reserved"},
	{17, 0, "reserved"},
	{18, 0, "reserved"},
	{19, 0, "reserved"},
	{20, 0, "reserved"},
	{21, 0, "reserved"},
	{22, 0, "reserved"},
	{23, 0, "reserved"},
	{24, 0, "reserved"},
	{25, 0, "reserved"},
	{26, 0, "reserved"},
	{27, 0, "reserved"},
	{30, 0, "reserved"},
	{31, 0, "reserved"},
}

// decodeHeader parses the fixed 32-byte file header. Reserved bytes are
// validated strictly: a mismatch means header corruption or an
// unsupported DBF dialect, and failing here beats parsing records on
// bad offsets.
func decodeHeader(buf []byte) (*Header, error) {
	if len(buf) < headerSize {
		return nil, formatErrorf(0, "header truncated: %d bytes, want %d", len(buf), headerSize)
	}

	for _, rb := range reservedHeaderBytes {
		if got := buf[rb.offset]; got != rb.want {
			return nil, formatErrorf(int64(rb.offset),
				"%s byte is 0x%02X, want 0x%02X", rb.name, got, rb.want)
		}
	}

	year := int(buf[1])
	if year < 70 {
		year += 2000
	} else {
		year += 1900
	}
	month, day := int(buf[2]), int(buf[3])
	if month < 1 || month > 12 {
		return nil, formatErrorf(2, "last-update month is %d", month)
	}
	if day < 1 || day > 31 {
		return nil, formatErrorf(3, "last-update day is %d", day)
	}

	h := &Header{
		Version:      buf[0],
		LastUpdate:   time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		RecordCount:  int32(binary.LittleEndian.Uint32(buf[4:8])),
		HeaderLength: binary.LittleEndian.Uint16(buf[8:10]),
		RecordLength: binary.LittleEndian.Uint16(buf[10:12]),
	}
	h.FieldCount = int(h.HeaderLength)/fieldDescriptorSize - 1

	if h.HeaderLength < headerSize+1 {
		return nil, formatErrorf(8, "header length %d is too small", h.HeaderLength)
	}
	if h.RecordLength == 0 {
		return nil, formatErrorf(10, "record length is zero")
	}
	return h, nil
}
