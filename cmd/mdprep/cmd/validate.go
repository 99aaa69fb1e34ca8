package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdprep/mdprep/internal/simconf"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a configuration file",
	Long: `Load and resolve a configuration file without printing the result.

Checks:
- Document syntax (YAML, JSON or TOML, by extension)
- Element symbols against the built-in periodic table
- Explicit lj_params for completeness and numeric fields
- That parameters can be derived when lj_params are absent`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := simconf.LoadFile(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid (%d elements, sigma=%.4f, cutoff=%.4f)\n",
		args[0], len(cfg.Elements), cfg.LJ.Sigma, cfg.LJ.Cutoff)
	return nil
}
