package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"narrated-slideshow/internal/config"
	driveuploader "narrated-slideshow/internal/infrastructure/drive"
	"narrated-slideshow/internal/infrastructure/googleauth"
	"narrated-slideshow/internal/infrastructure/janitor"
	llmopenai "narrated-slideshow/internal/infrastructure/llm/openai"
	"narrated-slideshow/internal/infrastructure/media/ffmpeg"
	"narrated-slideshow/internal/infrastructure/storage"
	"narrated-slideshow/internal/infrastructure/tts/espeak"
	"narrated-slideshow/internal/infrastructure/tts/fallback"
	ttsopenai "narrated-slideshow/internal/infrastructure/tts/openai"
	"narrated-slideshow/internal/interface/http/handler"
	"narrated-slideshow/internal/logging"
	"narrated-slideshow/internal/usecase/narration"
	"narrated-slideshow/internal/usecase/pipeline"
	"narrated-slideshow/internal/usecase/slideshow"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatalf("[server] %v", err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	apiKey := cfg.OpenAIKey()
	if apiKey == "" {
		return errors.New("openai api key is required (OPENAI_API_KEY or secrets/openai_api_key.txt)")
	}
	ttsCfg, err := config.LoadTTSConfig(cfg.TTSConfig)
	if err != nil {
		return err
	}

	client := ttsopenai.NewClient(apiKey, cfg.OpenAIBaseURL)
	primary, err := ttsopenai.NewSynthesizer(client, ttsCfg, log.Named("tts"))
	if err != nil {
		return err
	}
	local := espeak.NewSynthesizer(cfg.LocalTTSBin, ttsCfg.LocalVoice, ttsCfg.LocalSpeed, log.Named("tts"))
	synth := fallback.NewSynthesizer(primary, local, log.Named("tts"))

	tool := ffmpeg.New(cfg.FFmpegBin, cfg.FFprobeBin, log.Named("ffmpeg"))
	narrator := narration.NewComposer(synth, tool, cfg.ChunkSize, log.Named("narration"))
	video := slideshow.NewComposer(tool, tool, cfg.VideoWorkers, cfg.VideoWidth, log.Named("video"))
	expander := llmopenai.NewExpander(client, ttsCfg, log.Named("script"))
	uc := pipeline.NewGenerateVideo(expander, narrator, video, cfg.WorkDir, cfg.VideoFPS, log.Named("pipeline"))

	app := handler.NewApp(log.Named("http"))
	app.Static("/static", cfg.StaticDir)

	var publisher handler.Publisher
	if cfg.DriveUploadEnabled {
		ga, err := googleauth.NewGoogleAuth(cfg.CredentialsPath, cfg.TokenPath, "", log.Named("drive"))
		if err != nil {
			return err
		}
		handler.NewAuthHandler(ga).Register(app)
		publisher = &lazyDrivePublisher{auth: ga, folderID: cfg.DriveFolderID}
		log.Infof("[drive] upload enabled. folder=%s", cfg.DriveFolderID)
	}

	store := storage.NewFileStore(cfg.ImageDir())
	handler.NewVideoHandler(uc, store, cfg.OutputDir(), publisher, log.Named("http")).Register(app)

	j := janitor.New(cfg.JanitorMaxAge, log.Named("janitor"), cfg.ImageDir(), cfg.WorkDir)
	if err := j.Start(cfg.JanitorSchedule); err != nil {
		return err
	}
	defer j.Stop()

	go shutdownOnSignal(app, log)

	log.Infof("[server] listening on :%s", cfg.Port)
	return app.Listen(":" + cfg.Port)
}

// lazyDrivePublisher builds the Drive service per upload so a token obtained
// through /auth/google after startup is picked up.
type lazyDrivePublisher struct {
	auth     *googleauth.GoogleAuth
	folderID string
}

func (p *lazyDrivePublisher) UploadFile(ctx context.Context, localPath string) (string, string, error) {
	srv, err := p.auth.BuildDriveService(ctx)
	if err != nil {
		return "", "", err
	}
	return driveuploader.NewUploader(srv, p.folderID).UploadFile(ctx, localPath)
}

func shutdownOnSignal(app *fiber.App, log *zap.SugaredLogger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Infof("[server] shutting down")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Warnf("[server] shutdown: %v", err)
	}
}
