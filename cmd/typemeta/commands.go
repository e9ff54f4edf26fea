package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"typemeta/internal/manifest"
	"typemeta/internal/order"
	"typemeta/internal/reach"
	"typemeta/internal/typenode"
	"typemeta/internal/typesys"
)

func newInfoCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "info <type>",
		Short: "Print the metadata of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := f.load(cmd)
			if err != nil {
				return err
			}

			t, err := ws.typeRef(args[0])
			if err != nil {
				return err
			}

			info, err := ws.storage.Get(t)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "type: %s\n", t)
			fmt.Fprintf(out, "key: %s\n", info.Key)
			fmt.Fprintf(out, "kind: %s\n", t.Kind())
			printTypes(out, "dependencies", info.Dependencies)
			printTypes(out, "bases", info.BaseTypes)
			printTypes(out, "generic definitions", info.GenericTypeDefinitions)
			printTypes(out, "interfaces", info.Interfaces)
			printTypes(out, "declared interfaces", info.DeclaredInterfaces)
			printTypes(out, "generic interface definitions", info.GenericInterfaceDefinitions)

			for _, a := range info.Attributes {
				fmt.Fprintf(out, "attribute: %s\n", formatAttribute(a))
			}

			return nil
		},
	}
}

func newOrderCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "order <type>...",
		Short: "Sort types so that every type follows its dependencies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := f.load(cmd)
			if err != nil {
				return err
			}

			types := make([]*typesys.Type, 0, len(args))

			for _, ref := range args {
				t, err := ws.typeRef(ref)
				if err != nil {
					return err
				}

				types = append(types, t)
			}

			sorted, err := order.Types(ws.storage, types)
			if err != nil {
				return err
			}

			for _, t := range sorted {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}

			return nil
		},
	}
}

func newNodeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "node <type>",
		Short: "Print the node text of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := f.load(cmd)
			if err != nil {
				return err
			}

			t, err := ws.typeRef(args[0])
			if err != nil {
				return err
			}

			n, err := typenode.FromType(t)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), n)

			return nil
		},
	}
}

func newResolveCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve node text from a file or stdin to a type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := f.load(cmd)
			if err != nil {
				return err
			}

			var text []byte
			if len(args) == 0 || args[0] == "-" {
				text, err = io.ReadAll(cmd.InOrStdin())
			} else {
				text, err = os.ReadFile(args[0])
			}

			if err != nil {
				return fmt.Errorf("failed to read node text: %w", err)
			}

			r, err := typenode.NewResolver(ws.universe, ws.cfg.ResolverCacheSize)
			if err != nil {
				return err
			}

			t, err := r.Resolve(string(text))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), t)

			return nil
		},
	}
}

func newReachCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "reach [module]",
		Short: "List the modules below a module, or the modules that reference the roots",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := f.load(cmd)
			if err != nil {
				return err
			}

			all := ws.universe.Modules()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				m, err := ws.module(args[0])
				if err != nil {
					return err
				}

				for _, below := range reach.Below(all, m) {
					fmt.Fprintln(out, below.Name())
				}

				return nil
			}

			if len(ws.cfg.Roots) == 0 {
				return fmt.Errorf("no root modules: pass a module or set roots")
			}

			roots := make([]*typesys.Module, 0, len(ws.cfg.Roots))

			for _, name := range ws.cfg.Roots {
				m, err := ws.module(name)
				if err != nil {
					return err
				}

				roots = append(roots, m)
			}

			var opts []reach.Option
			if len(ws.cfg.ExcludedPrefixes) > 0 {
				opts = append(opts, reach.WithExcludedPrefixes(ws.cfg.ExcludedPrefixes...))
			}

			ours := reach.IsOurReference(all, roots, opts...)

			for _, m := range all {
				if ours(m) {
					fmt.Fprintln(out, m.Name())
				}
			}

			return nil
		},
	}
}

func newModulesCmd(f *flags) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List modules in reference order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := f.load(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if asYAML {
				data, err := manifest.Marshal(manifest.Export(ws.universe))
				if err != nil {
					return err
				}

				_, err = out.Write(data)

				return err
			}

			mods, err := reach.SortModules(ws.universe.Modules())
			if err != nil {
				return err
			}

			for _, m := range mods {
				fmt.Fprintln(out, formatModule(m))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the loaded modules as a manifest")

	return cmd
}

func printTypes(w io.Writer, label string, types []*typesys.Type) {
	if len(types) == 0 {
		return
	}

	fmt.Fprintf(w, "%s: %s\n", label, joinTypes(types))
}

func formatAttribute(a typesys.Attribute) string {
	switch a := a.(type) {
	case typesys.OrderBefore:
		return "before " + joinTypes(a.Types)
	case typesys.OrderAfter:
		return "after " + joinTypes(a.Types)
	case typesys.Tag:
		return "tag " + a.Key + "=" + a.Value
	default:
		return a.AttributeName()
	}
}

func joinTypes(types []*typesys.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}

	return strings.Join(names, ", ")
}

// formatModule renders "name -> refs [flags] (n types)".
func formatModule(m *typesys.Module) string {
	var sb strings.Builder

	sb.WriteString(m.Name())

	if refs := m.References(); len(refs) > 0 {
		sb.WriteString(" -> ")
		sb.WriteString(strings.Join(refs, ", "))
	}

	if m.IsDynamic() {
		sb.WriteString(" [dynamic]")
	}

	if err := m.Broken(); err != nil {
		sb.WriteString(" [broken]")

		return sb.String()
	}

	fmt.Fprintf(&sb, " (%d types)", len(m.TypeNames()))

	return sb.String()
}
