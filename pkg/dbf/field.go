package dbf

import (
	"bufio"
	"io"
	"strings"
)

const (
	fieldDescriptorSize = 32
	fieldNameSize       = 11
	fieldTerminator     = 0x0D
)

// readFieldDescriptors consumes 32-byte descriptors until the 0x0D
// sentinel. The field count derived from the header length is not used
// to drive the loop; it only serves as a consistency check afterward
// and to size the header-padding skip that lands the cursor on the
// first record.
func readFieldDescriptors(r *bufio.Reader, h *Header) ([]FieldDescriptor, error) {
	var fields []FieldDescriptor
	buf := make([]byte, fieldDescriptorSize)

	for {
		first, err := r.ReadByte()
		if err != nil {
			return nil, formatErrorf(-1, "field descriptors truncated: %v", err)
		}
		if first == fieldTerminator {
			break
		}

		buf[0] = first
		if _, err := io.ReadFull(r, buf[1:]); err != nil {
			return nil, formatErrorf(-1, "field descriptor %d truncated: %v", len(fields), err)
		}

		fd, err := decodeFieldDescriptor(len(fields), buf)
		if err != nil {
			return nil, err
		}
		fields = append(fields, fd)
	}

	if len(fields) != h.FieldCount {
		return nil, formatErrorf(-1, "read %d field descriptors, header length implies %d",
			len(fields), h.FieldCount)
	}

	// Skip whatever header padding follows the sentinel so the next
	// read starts at the first record.
	padding := int(h.HeaderLength) - (headerSize + fieldDescriptorSize*len(fields) + 1)
	if padding < 0 {
		return nil, formatErrorf(-1, "header length %d shorter than its %d descriptors",
			h.HeaderLength, len(fields))
	}
	if _, err := r.Discard(padding); err != nil {
		return nil, formatErrorf(-1, "header padding truncated: %v", err)
	}
	return fields, nil
}

// decodeFieldDescriptor parses one 32-byte descriptor. Only name, type
// tag, length and decimal count are interpreted; the reserved and
// work-area bytes vary by dialect and are skipped without validation.
func decodeFieldDescriptor(index int, buf []byte) (FieldDescriptor, error) {
	name := strings.TrimRight(string(buf[:fieldNameSize]), "\x00")
	if name == "" {
		return FieldDescriptor{}, formatErrorf(-1, "field descriptor %d has an empty name", index)
	}

	fd := FieldDescriptor{
		Index:        index,
		Name:         name,
		Type:         FieldType(buf[11]),
		Length:       buf[16],
		DecimalCount: buf[17],
	}
	if _, ok := fieldDecoders[fd.Type]; !ok {
		return FieldDescriptor{}, formatErrorf(-1, "field %d (%s): unsupported field type %q",
			index, name, fd.Type)
	}
	return fd, nil
}
