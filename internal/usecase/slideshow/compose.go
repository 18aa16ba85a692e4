package slideshow

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"narrated-slideshow/internal/domain/media"
	"narrated-slideshow/internal/domain/pipeline"
	"narrated-slideshow/internal/infrastructure/storage"
	"narrated-slideshow/internal/logging"
)

const (
	DefaultWorkers = 4
	DefaultWidth   = 1080
	DefaultFPS     = 24
)

// Composer builds a slideshow video from images and one narration track.
type Composer struct {
	prober   media.Prober
	renderer media.ClipRenderer
	workers  int
	width    int
	log      *zap.SugaredLogger
}

func NewComposer(prober media.Prober, renderer media.ClipRenderer, workers, width int, log *zap.SugaredLogger) *Composer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if width <= 0 {
		width = DefaultWidth
	}
	return &Composer{prober: prober, renderer: renderer, workers: workers, width: width, log: logging.OrNop(log)}
}

// Compose writes outputPath. Every image is shown for the same share of the
// audio duration, in input order.
func (c *Composer) Compose(ctx context.Context, images []string, audioPath, outputPath string, fps int) error {
	if len(images) == 0 {
		return fmt.Errorf("no images provided for video creation: %w", pipeline.ErrNoInput)
	}
	if err := mustExist(audioPath, "audio"); err != nil {
		return err
	}
	for _, img := range images {
		if err := mustExist(img, "image"); err != nil {
			return err
		}
	}
	if fps <= 0 {
		fps = DefaultFPS
	}

	audioDuration, err := c.prober.Duration(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("probe audio: %w", err)
	}
	clips := PlanClips(images, audioDuration, clipDir(outputPath))
	c.log.Infof("[video] %d images, %.2fs audio, %.2fs per image", len(images), audioDuration.Seconds(), clips[0].Duration.Seconds())

	if err := os.MkdirAll(clipDir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create clip dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(clipDir(outputPath)); err != nil {
			c.log.Warnf("[video] remove clip dir: %v", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for _, clip := range clips {
		clip := clip
		g.Go(func() error {
			if err := c.renderer.RenderClip(gctx, clip, c.width, fps); err != nil {
				return fmt.Errorf("render clip %d (%s): %w", clip.Index, clip.ImagePath, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	paths := make([]string, len(clips))
	for i, clip := range clips {
		paths[i] = clip.Path
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := c.renderer.Mux(ctx, paths, audioPath, outputPath, fps); err != nil {
		_ = storage.RemoveIfExists(outputPath)
		return fmt.Errorf("encode video: %w", err)
	}
	c.log.Infof("[video] video creation complete: %s", outputPath)
	return nil
}

// PlanClips gives each image audioDuration/len(images) and a distinct clip file under dir.
func PlanClips(images []string, audioDuration time.Duration, dir string) []media.ImageClip {
	if len(images) == 0 {
		return nil
	}
	per := audioDuration / time.Duration(len(images))
	clips := make([]media.ImageClip, len(images))
	for i, img := range images {
		clips[i] = media.ImageClip{
			Index:     i,
			ImagePath: img,
			Duration:  per,
			Path:      filepath.Join(dir, fmt.Sprintf("clip_%03d.mp4", i)),
		}
	}
	return clips
}

func clipDir(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_clips"
}

func mustExist(path, kind string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s file not found: %s: %w", kind, path, pipeline.ErrMissingResource)
		}
		return err
	}
	return nil
}
