package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/xlat/config"
	"github.com/teranos/xlat/display"
	"github.com/teranos/xlat/errors"
)

// ConfigCmd groups translation configuration commands
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Work with translation configurations",
}

var configInitCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Write a configuration document with default values",
	Long: `Write a translation configuration holding the defaults. The format
follows the extension: .toml, .yaml/.yml or .json.

Examples:
  xlat config init project.toml
  xlat config init project.yaml --source lib.asm.yaml --plugin ts.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show a configuration with defaults and environment applied",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigShow,
}

var (
	configInitSource string
	configInitPlugin string
	configInitOutput string
	configInitForce  bool
	configShowFormat string
)

func init() {
	configInitCmd.Flags().StringVar(&configInitSource, "source", "", "Source assembly")
	configInitCmd.Flags().StringVar(&configInitPlugin, "plugin", "", "Translator descriptor")
	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "out", "Output directory")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing file")
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "toml", "Output format: toml, json, yaml")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.WithHint(errors.Newf("%s already exists", path), "use --force to overwrite")
	}

	doc := config.Default()
	doc.SourceAssembly = configInitSource
	doc.TranslatorPlugin = configInitPlugin
	doc.OutputDirectory = configInitOutput

	if err := config.Save(doc, path); err != nil {
		return err
	}
	pterm.Success.Println("Wrote " + path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	doc, err := config.Load(args[0])
	if err != nil {
		return err
	}
	if configShowFormat == "json" {
		return display.OutputJSON(cmd.OutOrStdout(), doc)
	}
	data, err := config.Marshal(doc, "config."+configShowFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
