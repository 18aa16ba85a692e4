package fallback

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"narrated-slideshow/internal/domain/pipeline"
	"narrated-slideshow/internal/domain/tts"
	"narrated-slideshow/internal/infrastructure/storage"
	"narrated-slideshow/internal/logging"
)

// Synthesizer tries the hosted engine first and the local engine once if that fails.
type Synthesizer struct {
	primary   tts.Synthesizer
	secondary tts.Synthesizer
	log       *zap.SugaredLogger
}

func NewSynthesizer(primary, secondary tts.Synthesizer, log *zap.SugaredLogger) *Synthesizer {
	return &Synthesizer{primary: primary, secondary: secondary, log: logging.OrNop(log)}
}

// SynthesizeChunk writes the audio for text to dst and reports which path produced it.
// Result.Err is non-nil only when both paths failed, and then wraps pipeline.ErrSynthesis.
func (s *Synthesizer) SynthesizeChunk(ctx context.Context, text, dst string) tts.Result {
	res := tts.Result{Path: dst}

	err := s.primary.Synthesize(ctx, text, dst)
	if err == nil {
		res.Outcome = tts.OutcomePrimary
		return res
	}
	res.PrimaryErr = err
	s.log.Warnf("[tts] primary synthesis failed for %s: %v; falling back to local engine", dst, err)

	// a half-written primary file must not survive under dst
	_ = storage.RemoveIfExists(dst)

	if s.secondary == nil {
		res.Outcome = tts.OutcomeFailed
		res.Err = fmt.Errorf("no local engine configured: %w", pipeline.ErrSynthesis)
		return res
	}

	done := make(chan error, 1)
	go func() {
		done <- s.secondary.Synthesize(ctx, text, dst)
	}()
	if err := <-done; err != nil {
		s.log.Errorf("[tts] local synthesis failed for %s: %v", dst, err)
		res.Outcome = tts.OutcomeFailed
		res.Err = fmt.Errorf("primary: %v; local: %v: %w", res.PrimaryErr, err, pipeline.ErrSynthesis)
		return res
	}
	res.Outcome = tts.OutcomeFallback
	return res
}

// Synthesize satisfies tts.Synthesizer.
func (s *Synthesizer) Synthesize(ctx context.Context, text, dst string) error {
	return s.SynthesizeChunk(ctx, text, dst).Err
}
