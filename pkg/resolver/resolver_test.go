package resolver

import (
	"strings"
	"testing"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubType struct {
	name string
	opts *option.Description
}

func (s *stubType) Description() *nodetype.Description         { return &nodetype.Description{Name: s.name} }
func (s *stubType) PortsIn() nodetype.InPortTable               { return nil }
func (s *stubType) PortsOut() nodetype.OutPortTable             { return nil }
func (s *stubType) Options() *option.Description                { return s.opts }
func (s *stubType) Open(*nodetype.Node, *option.Options) error { return nil }
func (s *stubType) Close(*nodetype.Node)                       {}
func (s *stubType) InitType() error                            { return nil }
func (s *stubType) DisposeType()                               {}
func (s *stubType) Flags() nodetype.Flags                      { return 0 }

func TestBuiltinResolverFindsByName(t *testing.T) {
	not := &stubType{name: "boolean/not", opts: &option.Description{}}
	r := NewBuiltinResolver(not)

	res, err := r.Resolve("boolean/not")
	require.NoError(t, err)
	assert.Equal(t, not, res.Type)

	_, err = r.Resolve("missing")
	assert.ErrorIs(t, err, flowerrors.ErrNotFound)
}

func TestConfigFileResolverAliasesAndMergesOptions(t *testing.T) {
	notType := &stubType{name: "boolean/not", opts: &option.Description{
		Members: []option.Member{{Name: "initial_state", Kind: option.KindBool, HasDefault: true, Default: option.Bool(false)}},
	}}
	builtin := NewBuiltinResolver(notType)

	cfg, err := ParseFileConfig(strings.NewReader(`
types:
  negate:
    type: boolean/not
    options:
      - initial_state=true
`))
	require.NoError(t, err)

	cfgResolver := NewConfigFileResolver(cfg, builtin)
	res, err := cfgResolver.Resolve("negate")
	require.NoError(t, err)
	assert.Equal(t, notType, res.Type)
	v, ok := res.Options["initial_state"]
	require.True(t, ok)
	b, _ := v.AsBool()
	assert.True(t, b)

	_, err = cfgResolver.Resolve("unknown")
	assert.ErrorIs(t, err, flowerrors.ErrNotFound)
}

func TestAliasResolverRetries(t *testing.T) {
	notType := &stubType{name: "boolean/not", opts: &option.Description{}}
	builtin := NewBuiltinResolver(notType)

	cfg, err := ParseFileConfig(strings.NewReader(`
aliases:
  inv: boolean/not
`))
	require.NoError(t, err)

	alias := NewAliasResolver(cfg, builtin)
	res, err := alias.Resolve("inv")
	require.NoError(t, err)
	assert.Equal(t, notType, res.Type)
}

func TestChainStopsOnFirstNonNotFoundError(t *testing.T) {
	boom := resolverFunc(func(string) (Resolved, error) {
		return Resolved{}, assertErr
	})
	chain := Chain{boom}
	_, err := chain.Resolve("x")
	assert.ErrorIs(t, err, assertErr)
}

type resolverFunc func(string) (Resolved, error)

func (f resolverFunc) Resolve(id string) (Resolved, error) { return f(id) }

var assertErr = flowerrors.ErrInvalidArgument
