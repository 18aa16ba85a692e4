package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// TTSConfig tunes the hosted synthesizer and the script model.
type TTSConfig struct {
	Model          string  `yaml:"model"`
	Voice          string  `yaml:"voice"`
	Speed          float64 `yaml:"speed"`
	ResponseFormat string  `yaml:"response_format"`

	ScriptModel       string  `yaml:"script_model"`
	ScriptTemperature float32 `yaml:"script_temperature"`

	LocalVoice string `yaml:"local_voice"`
	LocalSpeed int    `yaml:"local_speed"`
}

// DefaultTTSConfig returns the values used when no file is present.
func DefaultTTSConfig() *TTSConfig {
	return &TTSConfig{
		Model:             "gpt-4o-mini-tts",
		Voice:             "alloy",
		Speed:             1.0,
		ResponseFormat:    "mp3",
		ScriptModel:       "gpt-4o-mini",
		ScriptTemperature: 0.7,
		LocalVoice:        "en",
		LocalSpeed:        160,
	}
}

// LoadTTSConfig reads the YAML file at path. A missing file yields defaults;
// fields left out of the file keep their default value.
func LoadTTSConfig(path string) (*TTSConfig, error) {
	cfg := DefaultTTSConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read tts config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse tts config %s: %w", path, err)
	}
	return cfg, nil
}
