package dbf

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Test fixture builders. Files are assembled in memory field by field
// so each test controls the exact byte layout.

type testField struct {
	name     string
	typ      byte
	length   byte
	decimals byte
}

type testRecord struct {
	status byte
	data   string
}

func buildHeader(recordCount int, headerLength, recordLength int) []byte {
	h := make([]byte, headerSize)
	h[0] = 0x03
	h[1], h[2], h[3] = 20, 1, 1 // 2020-01-01
	binary.LittleEndian.PutUint32(h[4:], uint32(recordCount))
	binary.LittleEndian.PutUint16(h[8:], uint16(headerLength))
	binary.LittleEndian.PutUint16(h[10:], uint16(recordLength))
	return h
}

func buildDescriptor(f testField) []byte {
	d := make([]byte, fieldDescriptorSize)
	copy(d, f.name)
	d[11] = f.typ
	d[16] = f.length
	d[17] = f.decimals
	return d
}

func buildFile(recordCount int, fields []testField, records ...testRecord) []byte {
	headerLength := headerSize + fieldDescriptorSize*len(fields) + 1
	recordLength := 1
	for _, f := range fields {
		recordLength += int(f.length)
	}

	var buf bytes.Buffer
	buf.Write(buildHeader(recordCount, headerLength, recordLength))
	for _, f := range fields {
		buf.Write(buildDescriptor(f))
	}
	buf.WriteByte(fieldTerminator)
	for _, r := range records {
		buf.WriteByte(r.status)
		buf.WriteString(r.data)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.dbf")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func openFixture(t *testing.T, data []byte, codepage string) *Table {
	t.Helper()
	table, err := OpenTable(TableConfig{Path: writeFile(t, data), Codepage: codepage})
	if err != nil {
		t.Fatalf("Failed to open fixture: %v", err)
	}
	t.Cleanup(func() { table.Close() })
	return table
}
