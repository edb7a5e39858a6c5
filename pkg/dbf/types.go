package dbf

import (
	"fmt"
	"time"
)

// FieldType is the single-character type tag of a DBF column.
type FieldType byte

const (
	TypeCharacter FieldType = 'C' // codepage text, space-padded
	TypeNumeric   FieldType = 'N' // ASCII decimal text
	TypeInteger   FieldType = 'I' // little-endian int32
	TypeLogical   FieldType = 'L' // single ASCII flag byte
	TypeDate      FieldType = 'D' // ASCII yyyyMMdd
	TypeDateTime  FieldType = 'T' // Julian day + milliseconds, both int32
	TypeMemo      FieldType = 'M' // pointer into a companion memo file

	// Legacy and vendor-specific tags. Their columns are preserved
	// structurally but values decode to null.
	TypeFloat     FieldType = 'F'
	TypeDouble    FieldType = 'B'
	TypeGeneral   FieldType = 'G'
	TypePicture   FieldType = 'P'
	TypeVarbinary FieldType = 'Q'
)

// Header is the decoded 32-byte DBF file header. It is immutable once
// parsed and owned by the Table that read it.
type Header struct {
	Version      byte
	LastUpdate   time.Time
	RecordCount  int32 // zero means the count is absent or unreliable
	HeaderLength uint16
	RecordLength uint16
	FieldCount   int // derived: HeaderLength/32 - 1
}

// FieldDescriptor is the decoded per-column metadata from the header
// region. Descriptors are owned by the Table and referenced, not copied,
// by downstream components.
type FieldDescriptor struct {
	Index        int
	Name         string
	Type         FieldType
	Length       byte
	DecimalCount byte // meaningful only for Numeric
}

// Record is one live row of the table. Values is aligned positionally
// with the table's field descriptors; each element is one of string,
// int32, decimal.Decimal, bool, time.Time or nil.
type Record struct {
	RecordNo int // 0-based physical slot ordinal, deleted slots included
	Values   []any
}

// Record status bytes.
const (
	recordLive    = 0x20
	recordDeleted = 0x2A
	fileEndMarker = 0x1A
)

// MemoPlaceholder is the value substituted for a memo field whose
// pointer is set. Memo file contents live in a companion .FPT/.DBT file
// and are not resolved by this package.
const MemoPlaceholder = "(memo)"

// ErrClosed is returned when a record stream is advanced after its
// underlying file has been released.
var ErrClosed = &FormatError{Offset: -1, Msg: "table is closed"}

// FormatError reports a violation of the DBF file format. It is always
// fatal for the current file.
type FormatError struct {
	Offset int64 // byte offset of the violation, -1 when not applicable
	Msg    string
}

func (e *FormatError) Error() string {
	if e.Offset < 0 {
		return e.Msg
	}
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

func formatErrorf(offset int64, format string, args ...any) *FormatError {
	return &FormatError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
