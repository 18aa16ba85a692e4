package tts

import (
	"context"
)

// Synthesizer converts text to an audio file.
// Concrete implementations wrap OpenAI, a local engine, etc.
type Synthesizer interface {
	// Synthesize writes the audio for text to dst.
	Synthesize(ctx context.Context, text, dst string) error
}

// Outcome tells which path produced a chunk's audio.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomePrimary
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomePrimary:
		return "primary"
	case OutcomeFallback:
		return "fallback"
	default:
		return "failed"
	}
}

// Result describes the synthesis of one chunk.
type Result struct {
	Path    string
	Outcome Outcome
	// PrimaryErr is set whenever the primary path failed, including when the
	// fallback then succeeded.
	PrimaryErr error
	Err        error
}

// AudioChunk is a bounded slice of the narration script and the file its audio goes to.
type AudioChunk struct {
	Index int
	Text  string
	Path  string
}
