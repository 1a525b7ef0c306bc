package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cuemby/flowrt/pkg/builtin"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/parser"
	"github.com/cuemby/flowrt/pkg/resolver"
	"github.com/spf13/cobra"
)

// newResolver builds the builtin/config/alias resolver chain, reading
// an optional --config YAML file from the root command's persistent flag.
func newResolver(cmd *cobra.Command) (resolver.Resolver, error) {
	chain := resolver.Chain{resolver.NewBuiltinResolver(builtin.All()...)}

	configPath, _ := rootCmd.PersistentFlags().GetString("config")
	_ = cmd
	if configPath == "" {
		return chain, nil
	}

	cfg, err := resolver.LoadFileConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("flowrt: load config: %w", err)
	}
	full := resolver.Chain{
		resolver.NewBuiltinResolver(builtin.All()...),
		resolver.NewConfigFileResolver(cfg, chain),
		resolver.NewAliasResolver(cfg, chain),
	}
	return full, nil
}

// readFileRelativeTo builds the fbp "DECLARE" include callback: file
// names are resolved relative to baseDir, the directory of the
// top-level .fbp source being parsed.
func readFileRelativeTo(baseDir string) func(name string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(baseDir, name))
	}
}

// loadGraph parses path into a node type, wiring the fbp-include
// callback to path's own directory so DECLARE fbp "sibling.fbp" works.
func loadGraph(cmd *cobra.Command, path string) (nodetype.Type, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flowrt: read %q: %w", path, err)
	}

	r, err := newResolver(cmd)
	if err != nil {
		return nil, err
	}

	p := parser.New(r, readFileRelativeTo(filepath.Dir(path)))
	p.RegisterMetatype("composed-new", builtin.ComposedNewMetatype)

	t, err := p.Parse(path, string(src))
	if err != nil {
		return nil, fmt.Errorf("flowrt: parse %q: %w", path, err)
	}
	return t, nil
}
