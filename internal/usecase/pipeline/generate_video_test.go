package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "narrated-slideshow/internal/domain/pipeline"
	"narrated-slideshow/internal/domain/tts"
)

type recorder struct {
	steps []string
}

type fakeExpander struct {
	rec    *recorder
	script string
	err    error
}

func (f *fakeExpander) Expand(_ context.Context, text string) (string, error) {
	f.rec.steps = append(f.rec.steps, "expand:"+text)
	return f.script, f.err
}

type fakeNarrator struct {
	rec     *recorder
	err     error
	workDir string
}

func (f *fakeNarrator) Compose(_ context.Context, script, workDir string) (string, []tts.Result, error) {
	f.rec.steps = append(f.rec.steps, "narrate:"+script)
	f.workDir = workDir
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", nil, err
	}
	chunk := filepath.Join(workDir, "chunk_0.mp3")
	if err := os.WriteFile(chunk, []byte("a"), 0o644); err != nil {
		return "", nil, err
	}
	results := []tts.Result{{Path: chunk, Outcome: tts.OutcomeFallback}}
	if f.err != nil {
		return "", results, f.err
	}
	final := filepath.Join(workDir, "final_audio.mp3")
	if err := os.WriteFile(final, []byte("aa"), 0o644); err != nil {
		return "", nil, err
	}
	return final, results, nil
}

type fakeVideo struct {
	rec    *recorder
	err    error
	images []string
	audio  string
}

func (f *fakeVideo) Compose(_ context.Context, images []string, audioPath, outputPath string, fps int) error {
	f.rec.steps = append(f.rec.steps, fmt.Sprintf("video:%d@%d", len(images), fps))
	f.images = images
	f.audio = audioPath
	if _, err := os.Stat(audioPath); err != nil {
		return err
	}
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputPath, []byte("mp4"), 0o644)
}

type fixture struct {
	rec      *recorder
	expander *fakeExpander
	narrator *fakeNarrator
	video    *fakeVideo
	uc       *GenerateVideo
	in       *GenerateVideoInput
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	rec := &recorder{}
	f := &fixture{
		rec:      rec,
		expander: &fakeExpander{rec: rec, script: "a narration script"},
		narrator: &fakeNarrator{rec: rec},
		video:    &fakeVideo{rec: rec},
	}
	f.uc = NewGenerateVideo(f.expander, f.narrator, f.video, filepath.Join(dir, "work"), 24, nil)

	var images []string
	for _, name := range []string{"temp_1_a.png", "temp_2_b.png"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("img"), 0o644))
		images = append(images, p)
	}
	f.in = &GenerateVideoInput{
		Text:       "source text",
		Images:     images,
		OutputPath: filepath.Join(dir, "static", "output", "v.mp4"),
	}
	return f
}

func TestExecuteRunsStagesInOrder(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Execute(context.Background(), f.in)
	require.NoError(t, err)

	assert.Equal(t, []string{"expand:source text", "narrate:a narration script", "video:2@24"}, f.rec.steps)
	assert.Equal(t, f.in.OutputPath, out.VideoPath)
	assert.Equal(t, "a narration script", out.Script)
	require.Len(t, out.Chunks, 1)
	assert.Equal(t, tts.OutcomeFallback, out.Chunks[0].Outcome)
	assert.FileExists(t, out.VideoPath)
	assert.Equal(t, f.in.Images, f.video.images)
	assert.Equal(t, filepath.Join(f.narrator.workDir, "final_audio.mp3"), f.video.audio)
}

func TestExecuteCleansUpAfterSuccess(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), f.in)
	require.NoError(t, err)

	for _, img := range f.in.Images {
		assert.NoFileExists(t, img)
	}
	assert.NoFileExists(t, f.video.audio)
	assert.NoDirExists(t, f.narrator.workDir)
}

func TestExecuteCleansUpAfterVideoFailure(t *testing.T) {
	f := newFixture(t)
	f.video.err = errors.New("encoder died")

	_, err := f.uc.Execute(context.Background(), f.in)
	assert.ErrorContains(t, err, "create video")

	for _, img := range f.in.Images {
		assert.NoFileExists(t, img)
	}
	assert.NoDirExists(t, f.narrator.workDir)
}

func TestExecuteRejectsBlankText(t *testing.T) {
	f := newFixture(t)
	f.in.Text = "  \n "

	_, err := f.uc.Execute(context.Background(), f.in)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Empty(t, f.rec.steps)
}

func TestExecuteRejectsBlankScript(t *testing.T) {
	f := newFixture(t)
	f.expander.script = "\n\n"

	_, err := f.uc.Execute(context.Background(), f.in)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Equal(t, []string{"expand:source text"}, f.rec.steps)
}

func TestExecuteStopsAtFailedStage(t *testing.T) {
	t.Run("script", func(t *testing.T) {
		f := newFixture(t)
		f.expander.err = fmt.Errorf("chat: %w", domain.ErrRemoteService)

		_, err := f.uc.Execute(context.Background(), f.in)
		assert.ErrorIs(t, err, domain.ErrRemoteService)
		assert.Len(t, f.rec.steps, 1)
		for _, img := range f.in.Images {
			assert.FileExists(t, img)
		}
	})
	t.Run("audio", func(t *testing.T) {
		f := newFixture(t)
		f.narrator.err = fmt.Errorf("chunk 0: %w", domain.ErrSynthesis)

		_, err := f.uc.Execute(context.Background(), f.in)
		assert.ErrorIs(t, err, domain.ErrSynthesis)
		assert.Equal(t, []string{"expand:source text", "narrate:a narration script"}, f.rec.steps)
		assert.Nil(t, f.video.images)
	})
}

func TestRunsUseSeparateWorkDirs(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Execute(context.Background(), f.in)
	require.NoError(t, err)
	first := f.narrator.workDir

	g := newFixture(t)
	g.uc.workDir = f.uc.workDir
	_, err = g.uc.Execute(context.Background(), g.in)
	require.NoError(t, err)

	assert.NotEqual(t, first, g.narrator.workDir)
	assert.Equal(t, filepath.Dir(first), filepath.Dir(g.narrator.workDir))
}
