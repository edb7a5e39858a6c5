package dbf

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
)

// TableConfig holds configuration for opening a DBF table.
type TableConfig struct {
	Path     string // path to the .dbf file
	Codepage string // character-field codepage; empty means ASCII-safe
}

// Table is an open DBF file: its header, field descriptors and a lazy
// record stream. The file handle, decode buffer and text decoder are
// exclusively owned by the Table and released by Close on every exit
// path. The record stream is forward-only and single-pass; re-iterating
// requires reopening the file.
type Table struct {
	file    *os.File
	reader  *bufio.Reader
	decoder *encoding.Decoder
	header  *Header
	fields  []FieldDescriptor
	buf     []byte // one record, status byte excluded
	slot    int    // next physical record slot
	closed  bool
}

// OpenTable opens a DBF file and parses its header and field
// descriptors, leaving the cursor on the first record. No record byte
// is read until the stream is advanced.
func OpenTable(config TableConfig) (*Table, error) {
	decoder, err := lookupCodepage(config.Codepage)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(config.Path)
	if err != nil {
		return nil, err
	}

	t := &Table{
		file:    file,
		reader:  bufio.NewReader(file),
		decoder: decoder,
	}
	if err := t.readHeader(); err != nil {
		file.Close()
		return nil, err
	}
	return t, nil
}

func (t *Table) readHeader() error {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(t.reader, buf); err != nil {
		return formatErrorf(0, "header truncated: %v", err)
	}

	header, err := decodeHeader(buf)
	if err != nil {
		return err
	}

	fields, err := readFieldDescriptors(t.reader, header)
	if err != nil {
		return err
	}

	// The declared record length must cover the status byte plus every
	// field at its declared width, or the per-field windows are wrong.
	width := 1
	for _, fd := range fields {
		width += int(fd.Length)
	}
	if width != int(header.RecordLength) {
		return formatErrorf(10, "record length %d does not match field widths totalling %d",
			header.RecordLength, width)
	}

	t.header = header
	t.fields = fields
	t.buf = make([]byte, header.RecordLength-1)
	return nil
}

// Header returns the decoded file header.
func (t *Table) Header() *Header { return t.header }

// Fields returns the field descriptors in file order. The slice is
// owned by the Table; callers must not modify it.
func (t *Table) Fields() []FieldDescriptor { return t.fields }

// Records returns the lazy record stream. The stream shares the
// Table's cursor: records are decoded one pull at a time, in physical
// order, and a second iterator continues where the first stopped.
func (t *Table) Records() RecordIterator {
	return &recordIterator{table: t}
}

// Close releases the underlying file. Any record stream advanced after
// Close fails deterministically with ErrClosed.
func (t *Table) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.file.Close()
}

// readRecord pulls the next live record, consuming deleted slots along
// the way. It returns io.EOF when the stream is exhausted.
func (t *Table) readRecord() (*Record, error) {
	for {
		if t.closed {
			return nil, ErrClosed
		}
		if t.header.RecordCount > 0 && t.slot >= int(t.header.RecordCount) {
			return nil, io.EOF
		}

		status, err := t.reader.ReadByte()
		if err == io.EOF {
			if t.header.RecordCount > 0 {
				return nil, formatErrorf(-1, "record %d: file truncated before declared record count %d",
					t.slot, t.header.RecordCount)
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", t.slot, err)
		}
		if t.header.RecordCount == 0 && status == fileEndMarker {
			return nil, io.EOF
		}

		if _, err := io.ReadFull(t.reader, t.buf); err != nil {
			return nil, formatErrorf(-1, "record %d truncated: %v", t.slot, err)
		}

		recordNo := t.slot
		t.slot++

		// Deleted records are decoded like live ones so the cursor and
		// the decode state advance identically, but nothing is kept.
		deleted := status == recordDeleted
		var values []any
		if !deleted {
			values = make([]any, len(t.fields))
		}

		offset := 0
		for i := range t.fields {
			fd := &t.fields[i]
			window := t.buf[offset : offset+int(fd.Length)]
			offset += int(fd.Length)

			v, err := t.decodeValue(fd, window)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", recordNo, err)
			}
			if !deleted {
				values[i] = v
			}
		}

		if deleted {
			continue
		}
		return &Record{RecordNo: recordNo, Values: values}, nil
	}
}

// RecordIterator provides streaming access to live records.
type RecordIterator interface {
	// Next advances to the next live record, reporting false at end of
	// stream or on error.
	Next() bool
	// Record returns the current record. Valid only after a true Next.
	Record() *Record
	// Err returns the error that stopped iteration, nil on clean end.
	Err() error
	// Close releases the table's file resource.
	Close() error
}

type recordIterator struct {
	table  *Table
	record *Record
	err    error
}

func (it *recordIterator) Next() bool {
	if it.err != nil {
		return false
	}
	rec, err := it.table.readRecord()
	if err == io.EOF {
		it.err = io.EOF
		return false
	}
	if err != nil {
		it.err = err
		return false
	}
	it.record = rec
	return true
}

func (it *recordIterator) Record() *Record { return it.record }

func (it *recordIterator) Err() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}

func (it *recordIterator) Close() error {
	return it.table.Close()
}
