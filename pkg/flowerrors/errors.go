// Package flowerrors defines the sentinel error kinds shared by the
// parser, builder, resolver, and options layers. Each
// sentinel is meant to be wrapped with fmt.Errorf("...: %w",...) so
// callers get both the kind (via errors.Is) and positional context.
package flowerrors

import "errors"

var (
	// ErrInvalidArgument marks a null or malformed parameter; never retried.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a resolver miss or a port-name miss.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName marks a builder add_node rejected for a reused name.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrDuplicatePort marks two ports of one type sharing a name.
	ErrDuplicatePort = errors.New("duplicate port name")
	// ErrDuplicateConnection marks an exact (src, src_port, dst, dst_port)
	// repeat.
	ErrDuplicateConnection = errors.New("duplicate connection")
	// ErrPortIndexOutOfRange marks a connect-time bounds failure.
	ErrPortIndexOutOfRange = errors.New("port index out of range")
	// ErrNotArrayPort marks an indexed connect against a scalar port.
	ErrNotArrayPort = errors.New("not an array port")
	// ErrMissingIndex marks an unindexed connect against an array port.
	ErrMissingIndex = errors.New("missing array index")
	// ErrMissingOption marks a required option absent from both named
	// options and defaults during options_new.
	ErrMissingOption = errors.New("missing required option")
	// ErrInvalidOption marks an option value that fails to parse for its
	// declared kind, including a quoted value against a non-string member.
	ErrInvalidOption = errors.New("invalid option value")
	// ErrAlreadyFinalised marks a builder mutation attempted after
	// GetNodeType.
	ErrAlreadyFinalised = errors.New("builder already finalised")
	// ErrNotSupported marks e.g. resolving a DECLARE without a
	// parser-client able to read files.
	ErrNotSupported = errors.New("not supported")
)
