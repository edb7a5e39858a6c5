package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/dbf2sql/pkg/dbf"
	"github.com/ssargent/dbf2sql/pkg/schema"
)

var inspectCodepage string

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print a DBF file's header and field descriptors",
	Long: `Inspect decodes a DBF file's header and field descriptor table and
prints them together with the destination column each field maps to.
No database is touched and no records are read.

Example:
  dbf2sql inspect data/CUSTOMER.DBF`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := dbf.OpenTable(dbf.TableConfig{Path: args[0], Codepage: inspectCodepage})
		if err != nil {
			return err
		}
		defer table.Close()

		h := table.Header()
		fmt.Printf("file:          %s\n", args[0])
		fmt.Printf("version:       0x%02X\n", h.Version)
		fmt.Printf("last update:   %s\n", h.LastUpdate.Format("2006-01-02"))
		fmt.Printf("record count:  %d\n", h.RecordCount)
		fmt.Printf("header length: %d\n", h.HeaderLength)
		fmt.Printf("record length: %d\n", h.RecordLength)
		fmt.Printf("table name:    %s\n\n", schema.TableName(args[0]))

		fmt.Printf("%-4s %-10s %-4s %-6s %-8s %s\n", "#", "NAME", "TYPE", "LEN", "DEC", "COLUMN")
		fields := table.Fields()
		for i := range fields {
			fd := &fields[i]
			col, err := schema.ColumnFor(fd)
			if err != nil {
				return err
			}
			fmt.Printf("%-4d %-10s %-4c %-6d %-8d %s %s\n",
				fd.Index, fd.Name, fd.Type, fd.Length, fd.DecimalCount, col.Name, col.SQLType)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectCodepage, "codepage", "", "Codepage for character fields")
}
