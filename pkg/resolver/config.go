package resolver

import (
	"fmt"
	"io"
	"os"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/option"
	"gopkg.in/yaml.v3"
)

// FileConfig is the shape of the YAML configuration the configuration-
// file and alias resolvers consult: a thin typed wrapper around a
// yaml.v3-decoded document.
type FileConfig struct {
	// Types maps a component id to the real underlying type name plus
	// an inline options string vector ("name=value" entries).
	Types map[string]FileTypeEntry `yaml:"types"`
	// Aliases maps a component id straight to another id, to be
	// re-resolved through the full chain.
	Aliases map[string]string `yaml:"aliases"`
}

// FileTypeEntry is one entry of FileConfig.Types.
type FileTypeEntry struct {
	Type    string   `yaml:"type"`
	Options []string `yaml:"options"`
}

// LoadFileConfig reads and parses a YAML configuration file.
func LoadFileConfig(path string) (FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("resolver: open config: %w", err)
	}
	defer f.Close()
	return ParseFileConfig(f)
}

// ParseFileConfig parses a YAML configuration document from r.
func ParseFileConfig(r io.Reader) (FileConfig, error) {
	var cfg FileConfig
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("resolver: parse config: %w", err)
	}
	return cfg, nil
}

// ConfigFileResolver looks up id as an entry in FileConfig.Types,
// resolving the aliased type name through next and merging in the
// entry's inline options.
type ConfigFileResolver struct {
	cfg  FileConfig
	next Resolver
}

// NewConfigFileResolver builds a configuration-file resolver that
// resolves aliased type names through next (typically the builtin
// resolver, or a chain that reaches it).
func NewConfigFileResolver(cfg FileConfig, next Resolver) *ConfigFileResolver {
	return &ConfigFileResolver{cfg: cfg, next: next}
}

func (r *ConfigFileResolver) Resolve(id string) (Resolved, error) {
	entry, ok := r.cfg.Types[id]
	if !ok {
		return Resolved{}, fmt.Errorf("resolver: config %q: %w", id, flowerrors.ErrNotFound)
	}
	resolved, err := r.next.Resolve(entry.Type)
	if err != nil {
		return Resolved{}, err
	}
	if len(entry.Options) == 0 {
		return resolved, nil
	}
	named, err := option.ParseNamedFromStrings(resolved.Type.Options(), entry.Options)
	if err != nil {
		return Resolved{}, fmt.Errorf("resolver: config %q: %w", id, err)
	}
	return Resolved{Type: resolved.Type, Options: resolved.Options.Merge(named)}, nil
}

// AliasResolver rewrites id to the underlying type name configured in
// FileConfig.Aliases and retries resolution through next.
type AliasResolver struct {
	cfg  FileConfig
	next Resolver
}

// NewAliasResolver builds an alias resolver that retries through next
// (typically the full chain, so a chain of aliases resolves correctly).
func NewAliasResolver(cfg FileConfig, next Resolver) *AliasResolver {
	return &AliasResolver{cfg: cfg, next: next}
}

func (r *AliasResolver) Resolve(id string) (Resolved, error) {
	target, ok := r.cfg.Aliases[id]
	if !ok {
		return Resolved{}, fmt.Errorf("resolver: alias %q: %w", id, flowerrors.ErrNotFound)
	}
	return r.next.Resolve(target)
}
