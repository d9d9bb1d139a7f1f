package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"ocean-report/internal/domain"
	"ocean-report/internal/scoring"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort   string `env:"HTTP_PORT" envDefault:"8080"`
	LLMAPIKey  string `env:"LLM_API_KEY"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	MediaDir    string `env:"MEDIA_DIR" envDefault:"Emotional_Behaviour"`
	SampleCount int    `env:"SAMPLE_COUNT" envDefault:"10"`
	SampleSeed  uint64 `env:"SAMPLE_SEED" envDefault:"0"`
	FFmpegPath  string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	FFprobePath string `env:"FFPROBE_PATH" envDefault:"ffprobe"`

	ScoringKeyFile string `env:"SCORING_KEY_FILE"`

	SessionSecret     string `env:"SESSION_SECRET"`
	SessionTTLMinutes int    `env:"SESSION_TTL_MINUTES" envDefault:"120"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisPassword           string `env:"REDIS_PASSWORD"`
	RedisDB                 int    `env:"REDIS_DB" envDefault:"0"`
	ReportRateWindowMinutes int    `env:"REPORT_RATE_WINDOW_MINUTES" envDefault:"10"`
	ReportRateMax           int    `env:"REPORT_RATE_MAX" envDefault:"3"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValencePath, ArousalPath and VideoPath resolve the fixed media layout under MediaDir.
func (c *Config) ValencePath() string { return filepath.Join(c.MediaDir, "valence.npy") }

func (c *Config) ArousalPath() string { return filepath.Join(c.MediaDir, "arousal.npy") }

func (c *Config) VideoPath() string { return filepath.Join(c.MediaDir, "video.mp4") }

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c *Config) ReportRateWindow() time.Duration {
	return time.Duration(c.ReportRateWindowMinutes) * time.Minute
}

// ScoringKey returns the key from ScoringKeyFile, or the built-in BFI-44 key. Either
// way the key is validated; an error here is a configuration error.
func (c *Config) ScoringKey() (domain.ScoringKey, error) {
	if strings.TrimSpace(c.ScoringKeyFile) != "" {
		return scoring.LoadKeyFile(c.ScoringKeyFile)
	}
	key := scoring.DefaultKey()
	if err := scoring.Validate(key, scoring.TotalItems); err != nil {
		return nil, fmt.Errorf("default scoring key: %w", err)
	}
	return key, nil
}
