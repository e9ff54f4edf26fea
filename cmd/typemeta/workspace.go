package main

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"typemeta/internal/analyze"
	"typemeta/internal/config"
	"typemeta/internal/diagnostic"
	"typemeta/internal/manifest"
	"typemeta/internal/match"
	"typemeta/internal/typeinfo"
	"typemeta/internal/typesys"
)

// workspace is the loaded universe with its metadata storage.
type workspace struct {
	cfg      *config.Config
	universe *typesys.Universe
	storage  *typeinfo.Storage
	logger   *log.Logger
	diags    diagnostic.Diagnostics
}

// load reads the configuration, then registers manifests first and Go
// packages second, so analyzed packages may be described next to manifest
// modules.
func (f *flags) load(cmd *cobra.Command) (*workspace, error) {
	cfg, err := config.Load(f.config, f.envFiles...)
	if err != nil {
		return nil, err
	}

	cfg.Manifests = append(cfg.Manifests, f.manifests...)
	cfg.Packages = append(cfg.Packages, f.packages...)

	if len(f.roots) > 0 {
		cfg.Roots = f.roots
	}

	if len(cfg.Manifests) == 0 && len(cfg.Packages) == 0 {
		return nil, fmt.Errorf("nothing to load: set manifests or packages")
	}

	logger := log.New(io.Discard, "typemeta: ", 0)
	if f.verbose {
		logger.SetOutput(cmd.ErrOrStderr())
	}

	ws := &workspace{
		cfg:      cfg,
		universe: typesys.NewUniverse(),
		logger:   logger,
	}

	if len(cfg.Manifests) > 0 {
		diags, err := manifest.Load(ws.universe, manifest.Options{Strict: cfg.Strict}, cfg.Manifests...)
		ws.diags.Merge(diags)

		if err != nil {
			return nil, fmt.Errorf("failed to load manifests: %w", err)
		}
	}

	if len(cfg.Packages) > 0 {
		a := analyze.NewAnalyzer(ws.universe, analyze.WithDir(cfg.Dir), analyze.WithLogger(logger))

		diags, err := a.LoadPackages(cfg.Packages...)
		ws.diags.Merge(diags)

		if err != nil {
			return nil, fmt.Errorf("failed to analyze packages: %w", err)
		}
	}

	ws.storage = typeinfo.New(ws.universe, typeinfo.WithLogger(logger))
	ws.diags.Merge(ws.storage.Init())

	for _, group := range [][]diagnostic.Diagnostic{ws.diags.Errors, ws.diags.Warnings} {
		for _, d := range group {
			logger.Printf("%s: %s", d.Severity, d)
		}
	}

	return ws, nil
}

// typeRef resolves a type reference in display syntax.
func (ws *workspace) typeRef(ref string) (*typesys.Type, error) {
	t, err := ws.universe.ParseRef(ref, typesys.Scope{})
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", ref, err)
	}

	return t, nil
}

// module finds a module by name, suggesting near names when it is missing.
func (ws *workspace) module(name string) (*typesys.Module, error) {
	if m, ok := ws.universe.Module(name); ok {
		return m, nil
	}

	err := fmt.Errorf("module %q: %w", name, typesys.ErrNotFound)
	if s := match.Suggest(name, ws.universe.ModuleNames(), 1); len(s) > 0 {
		err = fmt.Errorf("%w (did you mean %s?)", err, s[0])
	}

	return nil, err
}
