package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/plugin"
	"github.com/teranos/xlat/translators"
)

// DescriptorCmd groups translator descriptor commands
var DescriptorCmd = &cobra.Command{
	Use:   "descriptor",
	Short: "Work with translator descriptors",
}

var descriptorCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a translator descriptor",
	Long: `Validate a translator descriptor and, with --load, instantiate its translator.

Examples:
  xlat descriptor check typescript.toml
  xlat descriptor check typescript.toml --load`,
	Args: cobra.ExactArgs(1),
	RunE: runDescriptorCheck,
}

var descriptorModulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the built-in translator modules",
	RunE:  runDescriptorModules,
}

var descriptorLoad bool

func init() {
	descriptorCheckCmd.Flags().BoolVar(&descriptorLoad, "load", false, "Also load and configure the translator")

	DescriptorCmd.AddCommand(descriptorCheckCmd)
	DescriptorCmd.AddCommand(descriptorModulesCmd)
}

func runDescriptorCheck(cmd *cobra.Command, args []string) error {
	d, err := plugin.ReadDescriptor(args[0])
	if err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}

	if descriptorLoad {
		if err := translators.Register(plugin.DefaultRegistry()); err != nil {
			return err
		}
		loaded, err := plugin.NewLoader().LoadDescriptor(d, engine.DefaultSettings())
		if err != nil {
			return err
		}
		pterm.Info.Println("Loaded from " + loaded.ModulePath)
	}

	pterm.Success.Println(fmt.Sprintf("%s is valid (%s)", args[0], d.Title()))
	return nil
}

func runDescriptorModules(cmd *cobra.Command, args []string) error {
	reg := plugin.DefaultRegistry()
	if err := translators.Register(reg); err != nil {
		return err
	}

	data := pterm.TableData{{"Module", "Version", "API", "Classes"}}
	for _, name := range reg.List() {
		m, _ := reg.Get(name)
		for _, class := range m.ClassNames() {
			data = append(data, []string{m.Name, m.Version, m.XlatVersion, class})
		}
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
}
