package narration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"narrated-slideshow/internal/domain/pipeline"
	"narrated-slideshow/internal/domain/tts"
)

// fakeSynth writes the chunk text to dst. Indexes listed in fallback report
// OutcomeFallback; indexes in fail report OutcomeFailed.
type fakeSynth struct {
	texts    []string
	fallback map[int]bool
	fail     map[int]bool
}

func (f *fakeSynth) SynthesizeChunk(_ context.Context, text, dst string) tts.Result {
	i := len(f.texts)
	f.texts = append(f.texts, text)
	if f.fail[i] {
		return tts.Result{Path: dst, Outcome: tts.OutcomeFailed, Err: fmt.Errorf("both engines down: %w", pipeline.ErrSynthesis)}
	}
	if err := os.WriteFile(dst, []byte(text), 0o644); err != nil {
		return tts.Result{Path: dst, Err: err}
	}
	if f.fallback[i] {
		return tts.Result{Path: dst, Outcome: tts.OutcomeFallback, PrimaryErr: errors.New("503")}
	}
	return tts.Result{Path: dst, Outcome: tts.OutcomePrimary}
}

// fakeJoiner concatenates the inputs byte for byte.
type fakeJoiner struct {
	inputs []string
	err    error
}

func (f *fakeJoiner) ConcatAudio(_ context.Context, inputs []string, dst string) error {
	f.inputs = inputs
	if f.err != nil {
		return f.err
	}
	var b strings.Builder
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		b.Write(data)
	}
	return os.WriteFile(dst, []byte(b.String()), 0o644)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   int
	}{
		{"short", strings.Repeat("a", 50), 1},
		{"exact", strings.Repeat("a", 400), 1},
		{"one over", strings.Repeat("a", 401), 2},
		{"long", strings.Repeat("abc ", 300), 3},
		{"multibyte", strings.Repeat("é", 801), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.script, DefaultChunkSize, "work")
			require.Len(t, chunks, tt.want)

			var rebuilt strings.Builder
			for i, c := range chunks {
				assert.Equal(t, i, c.Index)
				assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), DefaultChunkSize)
				assert.True(t, utf8.ValidString(c.Text))
				assert.Equal(t, filepath.Join("work", fmt.Sprintf("chunk_%d.mp3", i)), c.Path)
				rebuilt.WriteString(c.Text)
			}
			assert.Equal(t, tt.script, rebuilt.String())
		})
	}
}

func TestComposeShortScript(t *testing.T) {
	dir := t.TempDir()
	synth := &fakeSynth{}
	joiner := &fakeJoiner{}
	script := strings.Repeat("x", 50)

	path, results, err := NewComposer(synth, joiner, 0, nil).Compose(context.Background(), script, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, CombinedFileName), path)
	assert.Equal(t, []string{script}, synth.texts)
	assert.Equal(t, []string{filepath.Join(dir, "chunk_0.mp3")}, joiner.inputs)
	require.Len(t, results, 1)
	assert.Equal(t, tts.OutcomePrimary, results[0].Outcome)
	assert.FileExists(t, path)
	assert.FileExists(t, filepath.Join(dir, "chunk_0.mp3"))
}

func TestComposeJoinsChunksInOrder(t *testing.T) {
	dir := t.TempDir()
	synth := &fakeSynth{fallback: map[int]bool{1: true}}
	script := strings.Repeat("a", 10) + strings.Repeat("b", 10) + strings.Repeat("c", 5)

	path, results, err := NewComposer(synth, &fakeJoiner{}, 10, nil).Compose(context.Background(), script, dir)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, tts.OutcomeFallback, results[1].Outcome)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, script, string(got))
}

func TestComposeRejectsBlankScript(t *testing.T) {
	synth := &fakeSynth{}
	joiner := &fakeJoiner{}
	for _, s := range []string{"", "   ", "\n\t"} {
		_, _, err := NewComposer(synth, joiner, 0, nil).Compose(context.Background(), s, t.TempDir())
		assert.ErrorIs(t, err, pipeline.ErrEmptyInput)
	}
	assert.Empty(t, synth.texts)
	assert.Nil(t, joiner.inputs)
}

func TestComposeStopsOnFailedChunk(t *testing.T) {
	synth := &fakeSynth{fail: map[int]bool{1: true}}
	joiner := &fakeJoiner{}

	_, results, err := NewComposer(synth, joiner, 5, nil).Compose(context.Background(), strings.Repeat("z", 15), t.TempDir())

	assert.ErrorIs(t, err, pipeline.ErrSynthesis)
	assert.Len(t, synth.texts, 2)
	assert.Len(t, results, 2)
	assert.Nil(t, joiner.inputs)
}

func TestComposeJoinError(t *testing.T) {
	joiner := &fakeJoiner{err: errors.New("ffmpeg: exit status 1")}
	_, _, err := NewComposer(&fakeSynth{}, joiner, 0, nil).Compose(context.Background(), "hello", t.TempDir())
	assert.ErrorContains(t, err, "combine audio")
}
