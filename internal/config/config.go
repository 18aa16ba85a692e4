package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application-wide configuration populated from environment variables.
type Config struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Port          string
	LogLevel      string

	StaticDir  string // uploads live in {StaticDir}/images, videos in {StaticDir}/output
	WorkDir    string // per-run chunk and combined audio
	SecretsDir string
	TTSConfig  string

	ChunkSize    int
	VideoFPS     int
	VideoWorkers int
	VideoWidth   int

	LocalTTSBin string
	FFmpegBin   string
	FFprobeBin  string

	JanitorSchedule string
	JanitorMaxAge   time.Duration

	DriveUploadEnabled bool
	DriveFolderID      string
	CredentialsPath    string
	TokenPath          string
}

// Load reads environment variables and returns Config with defaults applied.
func Load() *Config {
	// .env is optional
	_ = godotenv.Load()
	cfg := &Config{
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		StaticDir:  getEnv("STATIC_DIR", "static"),
		WorkDir:    getEnv("WORK_DIR", filepath.Join("output", "audio")),
		SecretsDir: getEnv("SECRETS_DIR", "secrets"),
		TTSConfig:  getEnv("TTS_CONFIG", "tts.yaml"),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 400),
		VideoFPS:     getEnvInt("VIDEO_FPS", 24),
		VideoWorkers: getEnvInt("VIDEO_WORKERS", 4),
		VideoWidth:   getEnvInt("VIDEO_WIDTH", 1080),

		LocalTTSBin: getEnv("LOCAL_TTS_BIN", "espeak-ng"),
		FFmpegBin:   getEnv("FFMPEG_BIN", "ffmpeg"),
		FFprobeBin:  getEnv("FFPROBE_BIN", "ffprobe"),

		JanitorSchedule: getEnv("JANITOR_SCHEDULE", "@every 15m"),
		JanitorMaxAge:   getEnvDuration("JANITOR_MAX_AGE", time.Hour),

		DriveUploadEnabled: getEnvBool("DRIVE_UPLOAD_ENABLED", false),
		DriveFolderID:      getEnv("DRIVE_FOLDER_ID", ""),
		CredentialsPath:    getEnv("GOOGLE_CREDENTIALS", ""),
		TokenPath:          getEnv("GOOGLE_TOKEN", ""),
	}
	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = filepath.Join(cfg.SecretsDir, "credentials.json")
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = filepath.Join(cfg.SecretsDir, "token.json")
	}
	return cfg
}

// ImageDir is where uploaded images are written before a run.
func (c *Config) ImageDir() string { return filepath.Join(c.StaticDir, "images") }

// OutputDir is where finished videos are written.
func (c *Config) OutputDir() string { return filepath.Join(c.StaticDir, "output") }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	default:
		return def
	}
}

// OpenAIKey returns the configured key, falling back to {SecretsDir}/openai_api_key.txt.
func (c *Config) OpenAIKey() string {
	if c.OpenAIAPIKey != "" {
		return c.OpenAIAPIKey
	}
	data, err := os.ReadFile(filepath.Join(c.SecretsDir, "openai_api_key.txt"))
	if err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
