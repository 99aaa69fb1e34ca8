package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mdprep/mdprep/internal/ptable"
)

var elementsCmd = &cobra.Command{
	Use:   "elements [symbol ...]",
	Short: "Show covalent radii from the built-in periodic table",
	Long: `Print the atomic number and covalent radius of the given element
symbols, or of the whole table when no symbols are given.

Symbols are case-sensitive ("Fe", not "fe"). An unknown symbol fails
the whole command.

Examples:
  mdprep elements Fe C      # Just iron and carbon
  mdprep elements           # The whole table`,
	RunE: runElements,
}

func init() {
	rootCmd.AddCommand(elementsCmd)
}

func runElements(cmd *cobra.Command, args []string) error {
	symbols := args
	if len(symbols) == 0 {
		symbols = ptable.Symbols()
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tZ\tRADIUS (Angstrom)")
	for _, symbol := range symbols {
		r, err := ptable.CovalentRadius(symbol)
		if err != nil {
			return err
		}
		z, _ := ptable.AtomicNumber(symbol)
		fmt.Fprintf(w, "%s\t%d\t%.2f\n", symbol, z, r)
	}
	return w.Flush()
}
