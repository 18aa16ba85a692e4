package narration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"narrated-slideshow/internal/domain/media"
	"narrated-slideshow/internal/domain/pipeline"
	"narrated-slideshow/internal/domain/tts"
	"narrated-slideshow/internal/logging"
)

// DefaultChunkSize is the number of runes sent to the synthesizer at once.
const DefaultChunkSize = 400

// CombinedFileName is the name of the joined narration inside the work dir.
const CombinedFileName = "final_audio.mp3"

// ChunkSynthesizer synthesizes one chunk and reports which path produced it.
type ChunkSynthesizer interface {
	SynthesizeChunk(ctx context.Context, text, dst string) tts.Result
}

// Composer turns a script into one narration file.
type Composer struct {
	synth     ChunkSynthesizer
	joiner    media.AudioJoiner
	chunkSize int
	log       *zap.SugaredLogger
}

func NewComposer(synth ChunkSynthesizer, joiner media.AudioJoiner, chunkSize int, log *zap.SugaredLogger) *Composer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Composer{synth: synth, joiner: joiner, chunkSize: chunkSize, log: logging.OrNop(log)}
}

// Compose synthesizes script chunk by chunk into workDir and joins the chunks
// in order into {workDir}/final_audio.mp3. Chunk files stay in workDir; the
// run that owns workDir removes them.
func (c *Composer) Compose(ctx context.Context, script, workDir string) (string, []tts.Result, error) {
	if strings.TrimSpace(script) == "" {
		return "", nil, fmt.Errorf("script is empty: %w", pipeline.ErrEmptyInput)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create work dir: %w", err)
	}

	chunks := Split(script, c.chunkSize, workDir)
	c.log.Infof("[narration] split script into %d chunks", len(chunks))

	results := make([]tts.Result, 0, len(chunks))
	paths := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		res := c.synth.SynthesizeChunk(ctx, ch.Text, ch.Path)
		results = append(results, res)
		if res.Err != nil {
			return "", results, fmt.Errorf("chunk %d: %w", ch.Index, res.Err)
		}
		paths = append(paths, ch.Path)
	}

	finalPath := filepath.Join(workDir, CombinedFileName)
	if err := c.joiner.ConcatAudio(ctx, paths, finalPath); err != nil {
		return "", results, fmt.Errorf("combine audio: %w", err)
	}
	c.log.Infof("[narration] combined audio saved: %s", finalPath)
	return finalPath, results, nil
}

// Split cuts script into consecutive pieces of at most size runes. Boundaries
// are positional; joining the pieces' Text gives back script.
func Split(script string, size int, dir string) []tts.AudioChunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	runes := []rune(script)
	chunks := make([]tts.AudioChunk, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		i := len(chunks)
		chunks = append(chunks, tts.AudioChunk{
			Index: i,
			Text:  string(runes[start:end]),
			Path:  filepath.Join(dir, fmt.Sprintf("chunk_%d.mp3", i)),
		})
	}
	return chunks
}
