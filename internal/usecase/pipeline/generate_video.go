package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "narrated-slideshow/internal/domain/pipeline"
	"narrated-slideshow/internal/domain/script"
	"narrated-slideshow/internal/domain/tts"
	"narrated-slideshow/internal/infrastructure/storage"
	"narrated-slideshow/internal/logging"
	"narrated-slideshow/internal/usecase"
)

// NarrationComposer turns a script into one audio file inside workDir.
type NarrationComposer interface {
	Compose(ctx context.Context, script, workDir string) (string, []tts.Result, error)
}

// VideoComposer turns images and an audio track into a video file.
type VideoComposer interface {
	Compose(ctx context.Context, images []string, audioPath, outputPath string, fps int) error
}

// GenerateVideoInput is input DTO.
type GenerateVideoInput struct {
	Text       string
	Images     []string
	OutputPath string
}

// GenerateVideoOutput is output DTO.
type GenerateVideoOutput struct {
	VideoPath string       `json:"videoPath"`
	Script    string       `json:"-"`
	Chunks    []tts.Result `json:"-"`
}

// GenerateVideo implements usecase.UseCase. It runs script generation, audio
// generation and video creation strictly one after another.
type GenerateVideo struct {
	expander script.Expander
	narrator NarrationComposer
	video    VideoComposer
	workDir  string
	fps      int
	log      *zap.SugaredLogger
}

func NewGenerateVideo(expander script.Expander, narrator NarrationComposer, video VideoComposer, workDir string, fps int, log *zap.SugaredLogger) *GenerateVideo {
	if workDir == "" {
		workDir = filepath.Join("output", "audio")
	}
	return &GenerateVideo{
		expander: expander,
		narrator: narrator,
		video:    video,
		workDir:  workDir,
		fps:      fps,
		log:      logging.OrNop(log),
	}
}

// Execute runs one pipeline. The input images and all intermediate audio are
// removed once video creation has been attempted.
func (uc *GenerateVideo) Execute(ctx context.Context, in *GenerateVideoInput) (*GenerateVideoOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, fmt.Errorf("source text is empty: %w", domain.ErrEmptyInput)
	}
	if dir := filepath.Dir(in.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	st := &domain.State{
		Text:      in.Text,
		Images:    in.Images,
		VideoPath: in.OutputPath,
	}
	runDir := filepath.Join(uc.workDir, uuid.NewString())

	// 1. Script
	uc.enter(st, domain.StageScriptGeneration)
	text, err := uc.expander.Expand(ctx, st.Text)
	if err != nil {
		return nil, fmt.Errorf("generate script: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("generated script is empty: %w", domain.ErrEmptyInput)
	}
	st.Script = text

	// 2. Audio
	uc.enter(st, domain.StageAudioGeneration)
	audioPath, results, err := uc.narrator.Compose(ctx, st.Script, runDir)
	st.Chunks = results
	if err != nil {
		return nil, fmt.Errorf("generate audio: %w", err)
	}
	st.AudioPath = audioPath
	uc.logOutcomes(st.Chunks)

	// 3. Video
	uc.enter(st, domain.StageVideoCreation)
	err = uc.video.Compose(ctx, st.Images, st.AudioPath, st.VideoPath, uc.fps)
	uc.cleanup(st, runDir)
	if err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}

	uc.enter(st, domain.StageDone)
	return &GenerateVideoOutput{VideoPath: st.VideoPath, Script: st.Script, Chunks: st.Chunks}, nil
}

func (uc *GenerateVideo) enter(st *domain.State, stage domain.Stage) {
	st.Stage = stage
	uc.log.Infof("[pipeline] stage=%s", stage)
}

func (uc *GenerateVideo) logOutcomes(results []tts.Result) {
	var fallbacks int
	for _, r := range results {
		if r.Outcome == tts.OutcomeFallback {
			fallbacks++
		}
	}
	if fallbacks > 0 {
		uc.log.Warnf("[pipeline] %d of %d chunks used the local engine", fallbacks, len(results))
	}
}

// cleanup never fails the run; errors are only logged.
func (uc *GenerateVideo) cleanup(st *domain.State, runDir string) {
	for _, img := range st.Images {
		if err := storage.RemoveIfExists(img); err != nil {
			uc.log.Warnf("[pipeline] cleanup error: %v", err)
		}
	}
	if err := storage.RemoveIfExists(st.AudioPath); err != nil {
		uc.log.Warnf("[pipeline] cleanup error: %v", err)
	}
	for _, r := range st.Chunks {
		if err := storage.RemoveIfExists(r.Path); err != nil {
			uc.log.Warnf("[pipeline] cleanup error: %v", err)
		}
	}
	if err := os.RemoveAll(runDir); err != nil {
		uc.log.Warnf("[pipeline] cleanup error: %v", err)
	}
}

var _ usecase.UseCase[GenerateVideoInput, GenerateVideoOutput] = (*GenerateVideo)(nil)
