package media

import (
	"context"
	"time"
)

// ImageClip is one slide of the video: an image held for Duration, rendered to Path.
type ImageClip struct {
	Index     int
	ImagePath string
	Duration  time.Duration
	Path      string
}

// Prober reads media metadata.
type Prober interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// AudioJoiner concatenates audio files in the given order into dst.
type AudioJoiner interface {
	ConcatAudio(ctx context.Context, inputs []string, dst string) error
}

// ClipRenderer turns images into clips and clips plus audio into the final video.
type ClipRenderer interface {
	// RenderClip encodes clip.ImagePath into clip.Path, scaled to width.
	RenderClip(ctx context.Context, clip ImageClip, width, fps int) error
	// Mux concatenates clips in order, attaches audioPath and writes dst.
	Mux(ctx context.Context, clips []string, audioPath, dst string, fps int) error
}
