package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/xlat/annotation"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
)

var (
	inspectPlatform string
	inspectMembers  bool
)

// InspectCmd prints the object model of an assembly
var InspectCmd = &cobra.Command{
	Use:   "inspect <assembly>",
	Short: "Show the object model of an assembly",
	Long: `Print the packages, kinds and members of a metadata dump as a tree.

With --platform, names are the effective names for that platform and hidden
nodes are marked.

Examples:
  xlat inspect lib.asm.yaml
  xlat inspect lib.asm.yaml --platform web
  xlat inspect lib.asm.yaml --members=false`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	InspectCmd.Flags().StringVarP(&inspectPlatform, "platform", "p", "", "Resolve names for a platform")
	InspectCmd.Flags().BoolVarP(&inspectMembers, "members", "m", true, "Include members")
}

func runInspect(cmd *cobra.Command, args []string) error {
	bundle, err := model.Open(args[0], metadata.NewDocumentReader())
	if err != nil {
		return err
	}

	tb := &treeBuilder{platform: annotation.NormalizePlatform(inspectPlatform), members: inspectMembers}
	if inspectPlatform != "" {
		tb.resolver = annotation.NewResolver()
	}

	return pterm.DefaultTree.
		WithWriter(cmd.OutOrStdout()).
		WithRoot(tb.bundle(bundle)).
		Render()
}

// treeBuilder converts the object model into pterm tree nodes.
type treeBuilder struct {
	platform string
	members  bool
	resolver *annotation.Resolver
}

func (tb *treeBuilder) label(n model.Node, prefix string) string {
	name := n.Name()
	if tb.resolver == nil {
		return prefix + name
	}
	if eff := tb.resolver.EffectiveName(n, tb.platform); eff != "" && eff != name {
		name = eff + " (" + n.Name() + ")"
	}
	if !tb.resolver.IsVisible(n, tb.platform) {
		name += " [hidden]"
	}
	return prefix + name
}

func (tb *treeBuilder) bundle(b *model.Bundle) pterm.TreeNode {
	root := pterm.TreeNode{Text: b.Name()}
	if v := b.Assembly.Version; v != "" {
		root.Text += " " + v
	}
	for _, p := range b.Packages() {
		ns := p.Namespace
		if ns == "" {
			ns = "(global)"
		}
		node := pterm.TreeNode{Text: ns}
		for _, k := range p.Kinds() {
			node.Children = append(node.Children, tb.kind(k))
		}
		root.Children = append(root.Children, node)
	}
	return root
}

func (tb *treeBuilder) kind(k *model.Kind) pterm.TreeNode {
	node := pterm.TreeNode{Text: tb.label(k, string(k.Category())+" ")}
	if n := len(k.GenericParameters); n > 0 {
		names := make([]string, n)
		for i, gp := range k.GenericParameters {
			names[i] = gp.Name()
		}
		node.Text += "<" + strings.Join(names, ", ") + ">"
	}
	if tb.members {
		for _, m := range k.Members() {
			node.Children = append(node.Children, pterm.TreeNode{Text: tb.label(m, m.NodeKind().String()+" ")})
		}
	}
	for _, n := range k.Nested {
		node.Children = append(node.Children, tb.kind(n))
	}
	return node
}
