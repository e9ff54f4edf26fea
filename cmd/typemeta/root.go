package main

import "github.com/spf13/cobra"

// flags are the persistent flags shared by every command.
type flags struct {
	config    string
	envFiles  []string
	manifests []string
	packages  []string
	roots     []string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "typemeta",
		Short:         "Inspect type metadata, dependency order and module reachability",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.config, "config", "c", "", "Path to a YAML config file")
	pf.StringSliceVar(&f.envFiles, "env-file", nil, "Env files to load instead of .env")
	pf.StringSliceVarP(&f.manifests, "manifest", "m", nil, "Manifest files to load, added to the configured ones")
	pf.StringSliceVarP(&f.packages, "package", "p", nil, "Go package patterns to analyze, added to the configured ones")
	pf.StringSliceVar(&f.roots, "root", nil, "Root modules for reachability, replacing the configured ones")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Log diagnostics and skipped modules to stderr")

	root.AddCommand(
		newInfoCmd(f),
		newOrderCmd(f),
		newNodeCmd(f),
		newResolveCmd(f),
		newReachCmd(f),
		newModulesCmd(f),
	)

	return root
}
