package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sierra/internal/diag"
	"sierra/internal/parser"
	"sierra/internal/program"
	"sierra/internal/source"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file.sierra>",
	Short: "Reprint a program in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configureColor(cmd)
		maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
		if err != nil {
			return err
		}

		fileSet := source.NewFileSet()
		id, err := fileSet.Load(args[0])
		if err != nil {
			return err
		}
		bag := diag.NewBag(maxDiagnostics)
		prog, ok := parser.Parse(fileSet.Get(id), diag.BagReporter{Bag: bag})
		if !ok {
			bag.Sort()
			for _, d := range bag.Items() {
				printDiagnostic(fileSet, d)
			}
			return fmt.Errorf("%s: parse failed", args[0])
		}
		return program.Dump(os.Stdout, prog)
	},
}
