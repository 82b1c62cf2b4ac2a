package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/xlat/cmd/xlat/commands"
	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/logger"
)

var rootCmd = &cobra.Command{
	Use:   "xlat",
	Short: "xlat - translate assemblies into source for other platforms",
	Long: `xlat - metadata-driven assembly translator.

xlat walks the types of a compiled assembly, applies the override directives
declared for each target platform, and hands every node to a pluggable
translator that emits source text.

Available commands:
  translate  - Run a translation configuration
  inspect    - Show the object model of an assembly
  descriptor - Work with translator descriptors
  config     - Work with translation configurations
  version    - Show version information

Examples:
  xlat translate project.toml            # Translate once
  xlat translate project.toml --watch    # Re-translate on change
  xlat inspect lib.asm.yaml -p web       # Effective names for web
  xlat descriptor check ts.toml          # Validate a descriptor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(commands.TranslateCmd)
	rootCmd.AddCommand(commands.InspectCmd)
	rootCmd.AddCommand(commands.DescriptorCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "  hint: "+hint)
		}
		os.Exit(commands.ExitCode(err))
	}
}
