/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/dbf2sql/pkg/config"
)

var (
	cfgFile string
	cfg     = config.DefaultConfig()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dbf2sql",
	Short: "dbf2sql - load dBASE (DBF) files into a relational database",
	Long: `dbf2sql decodes legacy dBASE (DBF) data files and materializes
their contents into a relational destination, one table per file,
preserving schema and values.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			path := config.GetDefaultConfigPath()
			if !config.ConfigExists(path) {
				return nil
			}
			cfgFile = path
		}
		loaded, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.config/dbf2sql/config.yaml)")
}
