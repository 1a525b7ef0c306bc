// Package resolver implements the id -> (type, default named-options)
// lookup chain: a builtin resolver, and a user-supplied default
// resolver (typically composing a configuration-file resolver and an
// alias resolver), consulted in that order until one succeeds or all
// miss with ErrNotFound.
//
// Several small resolver implementations are composed by the caller,
// rather than one monolithic resolver with a mode flag.
package resolver
