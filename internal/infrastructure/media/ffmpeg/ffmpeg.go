package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"narrated-slideshow/internal/domain/media"
	"narrated-slideshow/internal/logging"
)

// runFunc executes a binary and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Tool wraps the ffmpeg and ffprobe command line tools. It implements
// media.Prober, media.AudioJoiner and media.ClipRenderer.
type Tool struct {
	ffmpeg  string
	ffprobe string
	run     runFunc
	log     *zap.SugaredLogger
}

var (
	_ media.Prober       = (*Tool)(nil)
	_ media.AudioJoiner  = (*Tool)(nil)
	_ media.ClipRenderer = (*Tool)(nil)
)

func New(ffmpegBin, ffprobeBin string, log *zap.SugaredLogger) *Tool {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	return &Tool{ffmpeg: ffmpegBin, ffprobe: ffprobeBin, run: execRun, log: logging.OrNop(log)}
}

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, lastLines(stderr.String(), 5))
	}
	return stdout.Bytes(), nil
}

// Duration returns the container duration reported by ffprobe.
func (t *Tool) Duration(ctx context.Context, path string) (time.Duration, error) {
	out, err := t.run(ctx, t.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, err
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration of %s: %w", path, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// frameSize returns width and height of the first video stream.
func (t *Tool) frameSize(ctx context.Context, path string) (int, int, error) {
	out, err := t.run(ctx, t.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path,
	)
	if err != nil {
		return 0, 0, err
	}
	var w, h int
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("parse frame size of %s: %w", path, err)
	}
	return w, h, nil
}

// ConcatAudio joins inputs in order into an mp3 at dst. Every input is
// resampled to a common format first, so mp3 and wav chunks can be mixed.
func (t *Tool) ConcatAudio(ctx context.Context, inputs []string, dst string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("concat audio: no inputs")
	}
	args := []string{"-y"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}
	var filter strings.Builder
	for i := range inputs {
		fmt.Fprintf(&filter, "[%d:a]aresample=44100,aformat=sample_fmts=fltp:channel_layouts=mono[a%d];", i, i)
	}
	for i := range inputs {
		fmt.Fprintf(&filter, "[a%d]", i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=0:a=1[out]", len(inputs))
	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[out]",
		"-c:a", "libmp3lame", "-q:a", "2",
		dst,
	)
	t.log.Debugf("[ffmpeg] concat %d audio files into %s", len(inputs), dst)
	_, err := t.run(ctx, t.ffmpeg, args...)
	return err
}

// RenderClip holds a still image for clip.Duration, scaled to width with the
// aspect ratio kept (height rounded to even).
func (t *Tool) RenderClip(ctx context.Context, clip media.ImageClip, width, fps int) error {
	_, err := t.run(ctx, t.ffmpeg,
		"-y",
		"-loop", "1",
		"-i", clip.ImagePath,
		"-t", formatSeconds(clip.Duration),
		"-vf", fmt.Sprintf("scale=%d:-2,setsar=1,format=yuv420p", width),
		"-r", strconv.Itoa(fps),
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-tune", "stillimage",
		"-an",
		clip.Path,
	)
	return err
}

// Mux concatenates clips in order, padding each one to the tallest clip, and
// attaches audioPath. Output is H.264/AAC with the moov atom up front.
func (t *Tool) Mux(ctx context.Context, clips []string, audioPath, dst string, fps int) error {
	if len(clips) == 0 {
		return fmt.Errorf("mux: no clips")
	}
	maxW, maxH := 0, 0
	for _, c := range clips {
		w, h, err := t.frameSize(ctx, c)
		if err != nil {
			return err
		}
		maxW = max(maxW, w)
		maxH = max(maxH, h)
	}

	args := []string{"-y"}
	for _, c := range clips {
		args = append(args, "-i", c)
	}
	args = append(args, "-i", audioPath)

	var filter strings.Builder
	for i := range clips {
		fmt.Fprintf(&filter, "[%d:v]pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1[v%d];", i, maxW, maxH, i)
	}
	for i := range clips {
		fmt.Fprintf(&filter, "[v%d]", i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=1:a=0[vout]", len(clips))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[vout]",
		"-map", fmt.Sprintf("%d:a:0", len(clips)),
		"-r", strconv.Itoa(fps),
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-threads", "4",
		"-movflags", "+faststart",
		dst,
	)
	t.log.Infof("[ffmpeg] rendering video: %s (%d clips, %dx%d)", dst, len(clips), maxW, maxH)
	_, err := t.run(ctx, t.ffmpeg, args...)
	return err
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
