package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mdprep",
	Short: "Prepare molecular-dynamics simulation configurations",
	Long: `mdprep resolves molecular-dynamics simulation configurations.

A configuration names the elements present in a simulation; when it does
not pin the Lennard-Jones parameters explicitly, mdprep derives them from
the covalent radii of those elements using a compiled-in periodic table.

Configuration files may be YAML, JSON or TOML, selected by extension.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("mdprep {{.Version}}\n")
}
