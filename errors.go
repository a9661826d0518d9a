package gilbertmoore

import (
	"github.com/pkg/errors"
)

// Errors reported by this package. They are wrapped with the line, symbol or
// bit offset at fault; use errors.Cause to classify a returned error.
var (
	// ErrMalformedEntry is returned for a probability entry that cannot be parsed,
	// or whose probability is not a finite number in (0,1].
	ErrMalformedEntry = errors.New("malformed probability entry")

	// ErrDuplicateSymbol is returned when a symbol appears twice in a probability table.
	ErrDuplicateSymbol = errors.New("duplicate symbol")

	// ErrProbabilitySumMismatch is returned when the probabilities do not sum to 1 within SumTolerance.
	ErrProbabilitySumMismatch = errors.New("probabilities do not sum to 1")

	// ErrEmptyAlphabet is returned for a probability table without entries.
	ErrEmptyAlphabet = errors.New("empty alphabet")

	// ErrDegenerateCode is returned when two symbols would receive clashing codewords,
	// or when a codeword cannot be represented.
	ErrDegenerateCode = errors.New("degenerate code")

	// ErrUnknownSymbol is returned when encoding a symbol absent from the code table.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrIncompleteCodeword is returned when a bitstream does not split into whole codewords.
	ErrIncompleteCodeword = errors.New("incomplete codeword")

	// ErrInvalidText is returned when a message read character by character is not valid UTF-8.
	ErrInvalidText = errors.New("invalid UTF-8 text")

	// ErrCorruptArtifact is returned when a persisted bitstream artifact is badly framed.
	ErrCorruptArtifact = errors.New("corrupt artifact")
)
