package espeak

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"go.uber.org/zap"

	"narrated-slideshow/internal/logging"
)

// Synthesizer runs espeak-ng offline and writes a WAV file.
type Synthesizer struct {
	bin   string
	voice string
	speed int
	log   *zap.SugaredLogger
}

func NewSynthesizer(bin, voice string, speed int, log *zap.SugaredLogger) *Synthesizer {
	if bin == "" {
		bin = "espeak-ng"
	}
	if voice == "" {
		voice = "en"
	}
	if speed <= 0 {
		speed = 160
	}
	return &Synthesizer{bin: bin, voice: voice, speed: speed, log: logging.OrNop(log)}
}

// Synthesize writes speech for text to dst. The container is WAV whatever the
// extension of dst; ffmpeg probes the content when the chunks are joined.
func (s *Synthesizer) Synthesize(ctx context.Context, text, dst string) error {
	cmd := exec.CommandContext(ctx, s.bin,
		"-s", strconv.Itoa(s.speed),
		"-v", s.voice,
		"-w", dst,
		"--", text,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %s: %w", s.bin, stderr.String(), err)
	}
	s.log.Infof("[tts] local audio saved: %s", dst)
	return nil
}
