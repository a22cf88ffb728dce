package score

import "errors"

var (
	ErrUnsupportedFormat  = errors.New("unsupported match format")
	ErrMalformedScore     = errors.New("malformed set score")
	ErrInvalidSetScore    = errors.New("set result cannot have equal games for both players")
	ErrInconsistentResult = errors.New("results relative to player 1 and player 2 contradict each other")
)
