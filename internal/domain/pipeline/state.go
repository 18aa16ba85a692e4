package pipeline

import "narrated-slideshow/internal/domain/tts"

// Stage is a step of a pipeline run.
type Stage int

const (
	StageScriptGeneration Stage = iota
	StageAudioGeneration
	StageVideoCreation
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageScriptGeneration:
		return "script_generation"
	case StageAudioGeneration:
		return "audio_generation"
	case StageVideoCreation:
		return "video_creation"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// State is threaded through one run. Each stage fills in its own field; it is
// never shared between runs.
type State struct {
	Text      string
	Images    []string
	Script    string
	AudioPath string
	VideoPath string

	Stage  Stage
	Chunks []tts.Result
}
