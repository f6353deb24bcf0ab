package model

import "errors"

var (
	// ErrUnparsableScore indicates a score file could not be read or parsed.
	ErrUnparsableScore = errors.New("unparsable score")

	// ErrUnsupportedEvent indicates a score holds something other than
	// single notes and rests, e.g. chords.
	ErrUnsupportedEvent = errors.New("unsupported event")

	// ErrUnresolvedKey indicates the key has neither a major nor a minor mode,
	// or could not be estimated at all.
	ErrUnresolvedKey = errors.New("unresolved key")

	// ErrZeroLengthEvent indicates an event quantized to zero time steps.
	ErrZeroLengthEvent = errors.New("zero length event")

	// ErrUnknownSymbol indicates a corpus token missing from the vocabulary.
	// The corpus and the vocabulary were built from different snapshots.
	ErrUnknownSymbol = errors.New("unknown symbol")

	ErrInvalidConfig = errors.New("invalid config")
)
