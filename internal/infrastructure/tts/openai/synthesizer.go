package openai

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"narrated-slideshow/internal/config"
	"narrated-slideshow/internal/domain/pipeline"
	"narrated-slideshow/internal/logging"
)

// Synthesizer implements tts.Synthesizer using the OpenAI speech endpoint.
type Synthesizer struct {
	client         *goopenai.Client
	voice          string
	model          string
	speed          float64
	responseFormat string
	log            *zap.SugaredLogger
}

// NewSynthesizer creates an OpenAI TTS synthesizer from an already configured client.
func NewSynthesizer(client *goopenai.Client, ttsConfig *config.TTSConfig, log *zap.SugaredLogger) (*Synthesizer, error) {
	if client == nil {
		return nil, fmt.Errorf("openai client is required")
	}
	if ttsConfig == nil {
		ttsConfig = config.DefaultTTSConfig()
	}
	return &Synthesizer{
		client:         client,
		voice:          ttsConfig.Voice,
		model:          ttsConfig.Model,
		speed:          ttsConfig.Speed,
		responseFormat: ttsConfig.ResponseFormat,
		log:            logging.OrNop(log),
	}, nil
}

// NewClient builds a go-openai client. baseURL may be empty.
func NewClient(apiKey, baseURL string) *goopenai.Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return goopenai.NewClientWithConfig(cfg)
}

// Synthesize converts text to audio and writes it to dst.
func (s *Synthesizer) Synthesize(ctx context.Context, text, dst string) error {
	s.log.Debugf("[tts] openai synthesis model=%s voice=%s chars=%d", s.model, s.voice, len([]rune(text)))
	startTime := time.Now()

	resp, err := s.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(s.model),
		Input:          text,
		Voice:          goopenai.SpeechVoice(s.voice),
		ResponseFormat: goopenai.SpeechResponseFormat(s.responseFormat),
		Speed:          s.speed,
	})
	if err != nil {
		return fmt.Errorf("openai speech: %v: %w", err, pipeline.ErrRemoteService)
	}
	defer resp.Close()

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, resp)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("read openai audio: %v: %w", err, pipeline.ErrRemoteService)
	}

	s.log.Infof("[tts] openai audio saved: %s (%.2f KB in %.2fs)", dst, float64(n)/1024, time.Since(startTime).Seconds())
	return nil
}
