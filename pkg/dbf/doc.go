// Package dbf decodes dBASE (DBF) table files.
//
// A DBF file is a fixed-record-length binary format: a 32-byte header,
// a sentinel-terminated array of 32-byte field descriptors, and a stream
// of fixed-width records.
//
// # File Layout
//
//	[Header(32)][FieldDescriptor(32)]...[0x0D][padding][Record]...
//
// Header fields (all multi-byte integers little-endian):
//   - Version: file format version byte
//   - LastUpdate: (year, month, day) bytes; the year byte is pivoted,
//     0-69 meaning 2000+yy and 70-99 meaning 1900+yy
//   - RecordCount: signed 32-bit number of record slots (may be zero
//     in files written by sloppy tools; the stream then runs to EOF)
//   - HeaderLength: total header size in bytes, including descriptors
//   - RecordLength: fixed size of one record, including the status byte
//
// The remaining header bytes are reserved. Most must be zero and are
// validated strictly; the production-MDX flag and language-driver id are
// read but never checked. Field descriptors are the opposite: only name,
// type tag, length and decimal count are interpreted, everything else is
// skipped without validation because DBF dialects populate those bytes
// inconsistently.
//
// # Records
//
// Each record is one status byte (0x20 live, 0x2A deleted) followed by
// the raw bytes of every field at its declared length. Deleted records
// are consumed from the byte stream to keep the cursor aligned but are
// never materialized.
//
// # Usage
//
//	table, err := dbf.OpenTable(dbf.TableConfig{Path: "customers.dbf"})
//	if err != nil {
//	    return err
//	}
//	defer table.Close()
//
//	it := table.Records()
//	for it.Next() {
//	    rec := it.Record()
//	    // rec.Values is aligned with table.Fields()
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
//
// The record stream is lazy, forward-only and single-pass: no byte is
// read until the corresponding record is requested, and re-iterating
// requires reopening the file. Character fields are decoded with the
// codepage named in TableConfig; when unset a 7-bit ASCII fallback is
// used and high bytes come out as '?'.
package dbf
