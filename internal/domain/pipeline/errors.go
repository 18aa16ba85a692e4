package pipeline

import "errors"

var (
	// ErrEmptyInput reports blank source text or a blank generated script.
	ErrEmptyInput = errors.New("empty input")
	// ErrNoInput reports a run without images.
	ErrNoInput = errors.New("no input images")
	// ErrMissingResource reports a referenced audio or image file that is absent.
	ErrMissingResource = errors.New("missing resource")
	// ErrRemoteService reports a failed hosted API call.
	ErrRemoteService = errors.New("remote service error")
	// ErrSynthesis reports that both speech paths failed for a chunk.
	ErrSynthesis = errors.New("synthesis failed")
)
