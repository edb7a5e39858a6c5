// Package schema maps DBF field descriptors to destination columns.
//
// The mapping is held in a single per-type-tag table consulted by both
// DDL generation and row binding, so the two views of a field cannot
// drift apart.
package schema

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ssargent/dbf2sql/pkg/dbf"
)

// PrimaryKeyColumn is the synthetic auto-incrementing key prepended to
// every destination table.
const PrimaryKeyColumn = "id"

// Column is the destination view of one DBF field.
type Column struct {
	Name    string // field name, lower-cased
	SQLType string
	Field   *dbf.FieldDescriptor
}

// columnSpec is the single source of truth for one type tag: how the
// column is declared and what a null value binds as in strategies that
// substitute typed defaults.
type columnSpec struct {
	sqlType     func(fd *dbf.FieldDescriptor) string
	nullDefault any // nil means a true SQL NULL
}

var columnSpecs = map[dbf.FieldType]columnSpec{
	dbf.TypeCharacter: {
		sqlType:     func(fd *dbf.FieldDescriptor) string { return fmt.Sprintf("VARCHAR(%d)", fd.Length) },
		nullDefault: "",
	},
	dbf.TypeInteger: {
		sqlType:     func(*dbf.FieldDescriptor) string { return "INTEGER" },
		nullDefault: 0,
	},
	dbf.TypeNumeric: {
		sqlType: func(fd *dbf.FieldDescriptor) string {
			return fmt.Sprintf("DECIMAL(%d, %d)", int(fd.Length)+1, fd.DecimalCount)
		},
		nullDefault: 0,
	},
	dbf.TypeLogical: {
		sqlType: func(*dbf.FieldDescriptor) string { return "BOOLEAN" },
	},
	dbf.TypeDate: {
		sqlType: func(*dbf.FieldDescriptor) string { return "DATETIME" },
	},
	dbf.TypeDateTime: {
		sqlType: func(*dbf.FieldDescriptor) string { return "DATETIME" },
	},
	dbf.TypeFloat: {
		sqlType:     func(*dbf.FieldDescriptor) string { return "DOUBLE PRECISION" },
		nullDefault: 0,
	},
	dbf.TypeMemo:      {sqlType: textColumn},
	dbf.TypeDouble:    {sqlType: textColumn},
	dbf.TypeGeneral:   {sqlType: textColumn},
	dbf.TypePicture:   {sqlType: textColumn},
	dbf.TypeVarbinary: {sqlType: textColumn},
}

func textColumn(*dbf.FieldDescriptor) string { return "TEXT" }

// ColumnFor derives the destination column for one field descriptor.
// Computed once per field, not re-derived per record.
func ColumnFor(fd *dbf.FieldDescriptor) (Column, error) {
	spec, ok := columnSpecs[fd.Type]
	if !ok {
		return Column{}, fmt.Errorf("field %d (%s): no destination mapping for type %q",
			fd.Index, fd.Name, fd.Type)
	}
	return Column{
		Name:    strings.ToLower(fd.Name),
		SQLType: spec.sqlType(fd),
		Field:   fd,
	}, nil
}

// Columns derives destination columns for all fields in descriptor
// order.
func Columns(fields []dbf.FieldDescriptor) ([]Column, error) {
	cols := make([]Column, 0, len(fields))
	for i := range fields {
		col, err := ColumnFor(&fields[i])
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// TableName derives the destination table name from a DBF file path:
// the base name, extension stripped, lower-cased.
func TableName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// CreateTableDDL builds the CREATE TABLE statement for one file: a
// synthetic auto-incrementing primary key followed by the mapped
// columns in descriptor order.
func CreateTableDDL(table string, cols []Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoteIdent(table))
	fmt.Fprintf(&b, "\t%s INTEGER PRIMARY KEY AUTOINCREMENT", quoteIdent(PrimaryKeyColumn))
	for _, col := range cols {
		fmt.Fprintf(&b, ",\n\t%s %s", quoteIdent(col.Name), col.SQLType)
	}
	b.WriteString("\n)")
	return b.String()
}

// InsertStatement builds the positional parameterized insert used by
// both loader strategies.
func InsertStatement(table string, cols []Column) string {
	names := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, col := range cols {
		names[i] = quoteIdent(col.Name)
		params[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(names, ", "), strings.Join(params, ", "))
}

// BindValue turns a decoded record value into its bind parameter. With
// substituteNulls set, null values become the column's typed default
// (zero for numeric-family columns, empty string for character ones)
// instead of a true NULL; this mirrors the observable semantics of the
// system this loader replaces.
func (c Column) BindValue(v any, substituteNulls bool) any {
	if v != nil {
		return v
	}
	if !substituteNulls {
		return nil
	}
	return columnSpecs[c.Field.Type].nullDefault
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
