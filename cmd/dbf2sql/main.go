/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/dbf2sql/cmd/dbf2sql/cmd"
)

func main() {
	cmd.Execute()
}
