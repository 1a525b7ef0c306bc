package packet

import "errors"

// ErrWrongType is returned by an accessor when the packet's tag does not
// match the shape being extracted.
var ErrWrongType = errors.New("packet: wrong type")

// ErrAlreadyReleased is returned by Release when a packet has already been
// released once; a packet must be released exactly one time.
var ErrAlreadyReleased = errors.New("packet: already released")
