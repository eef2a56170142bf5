package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	LLM         LLMConfig         `yaml:"llm"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	History     HistoryConfig     `yaml:"history"`
	Artifacts   ArtifactsConfig   `yaml:"artifacts"`
	Images      ImagesConfig      `yaml:"images"`
	Speech      SpeechConfig      `yaml:"speech"`
	Preferences PreferencesConfig `yaml:"preferences"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	MaxUploadBytes  int64           `yaml:"maxUploadBytes"`
	AllowedOrigins  []string        `yaml:"allowedOrigins"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains Gemini settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// AnalysisConfig tunes the meal analysis flow.
type AnalysisConfig struct {
	BlurDetection bool    `yaml:"blurDetection"`
	BlurThreshold float64 `yaml:"blurThreshold"`
	BlurMaxPixels int     `yaml:"blurMaxPixels"`
	ChartWidth    int     `yaml:"chartWidth"`
	ChartHeight   int     `yaml:"chartHeight"`
}

// HistoryConfig selects the history backend.
type HistoryConfig struct {
	Driver     string         `yaml:"driver"`
	CSVPath    string         `yaml:"csvPath"`
	SQLitePath string         `yaml:"sqlitePath"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ArtifactsConfig controls where downloadable reports and charts live.
type ArtifactsConfig struct {
	TTL   time.Duration `yaml:"ttl"`
	Redis RedisConfig   `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// ImagesConfig controls archiving of analysed meal photos.
type ImagesConfig struct {
	Archive   bool   `yaml:"archive"`
	Driver    string `yaml:"driver"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// SpeechConfig controls spoken output and voice input.
type SpeechConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Command       string        `yaml:"command"`
	Args          []string      `yaml:"args"`
	PrefixLength  int           `yaml:"prefixLength"`
	ListenTimeout time.Duration `yaml:"listenTimeout"`
	PhraseLimit   time.Duration `yaml:"phraseLimit"`
	MaxAudioBytes int64         `yaml:"maxAudioBytes"`
}

// PreferencesConfig bounds the per-session preferences.
type PreferencesConfig struct {
	DefaultGoalCalories int           `yaml:"defaultGoalCalories"`
	MinGoalCalories     int           `yaml:"minGoalCalories"`
	MaxGoalCalories     int           `yaml:"maxGoalCalories"`
	DefaultMealPlan     string        `yaml:"defaultMealPlan"`
	SessionTTL          time.Duration `yaml:"sessionTTL"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env file: %w", err)
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_MAX_UPLOAD_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.HTTP.MaxUploadBytes = parsed
		}
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	// GOOGLE_API_KEY is the name the Gemini tooling documents; LLM_API_KEY wins when both are set.
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("ANALYSIS_BLUR_DETECTION"); v != "" {
		cfg.Analysis.BlurDetection = parseBool(v)
	}
	if v := os.Getenv("ANALYSIS_BLUR_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.BlurThreshold = parsed
		}
	}
	if v := os.Getenv("ANALYSIS_BLUR_MAX_PIXELS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.BlurMaxPixels = parsed
		}
	}
	if v := os.Getenv("HISTORY_DRIVER"); v != "" {
		cfg.History.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("HISTORY_CSV_PATH"); v != "" {
		cfg.History.CSVPath = v
	}
	if v := os.Getenv("HISTORY_SQLITE_PATH"); v != "" {
		cfg.History.SQLitePath = v
	}
	if v := os.Getenv("HISTORY_POSTGRES_DSN"); v != "" {
		cfg.History.Postgres.DSN = v
	}
	if v := os.Getenv("ARTIFACTS_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Artifacts.TTL = parsed
		}
	}
	if v := os.Getenv("ARTIFACTS_REDIS_ENABLED"); v != "" {
		cfg.Artifacts.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("ARTIFACTS_REDIS_ADDR"); v != "" {
		cfg.Artifacts.Redis.Addr = v
	}
	if v := os.Getenv("IMAGES_ARCHIVE"); v != "" {
		cfg.Images.Archive = parseBool(v)
	}
	if v := os.Getenv("IMAGES_DRIVER"); v != "" {
		cfg.Images.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("IMAGES_ENDPOINT"); v != "" {
		cfg.Images.Endpoint = v
	}
	if v := os.Getenv("IMAGES_ACCESS_KEY"); v != "" {
		cfg.Images.AccessKey = v
	}
	if v := os.Getenv("IMAGES_SECRET_KEY"); v != "" {
		cfg.Images.SecretKey = v
	}
	if v := os.Getenv("IMAGES_BUCKET"); v != "" {
		cfg.Images.Bucket = v
	}
	if v := os.Getenv("IMAGES_REGION"); v != "" {
		cfg.Images.Region = v
	}
	if v := os.Getenv("SPEECH_ENABLED"); v != "" {
		cfg.Speech.Enabled = parseBool(v)
	}
	if v := os.Getenv("SPEECH_COMMAND"); v != "" {
		cfg.Speech.Command = v
	}
	if v := os.Getenv("SPEECH_LISTEN_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Speech.ListenTimeout = parsed
		}
	}
	if v := os.Getenv("SPEECH_PHRASE_LIMIT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Speech.PhraseLimit = parsed
		}
	}
	if v := os.Getenv("SPEECH_ARGS"); v != "" {
		cfg.Speech.Args = strings.Fields(v)
	}
	if v := os.Getenv("PREFERENCES_DEFAULT_GOAL"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Preferences.DefaultGoalCalories = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if clean := strings.TrimSpace(part); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  10 << 20,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		LLM: LLMConfig{
			Model:       "gemini-1.5-flash",
			Temperature: 0.4,
		},
		Analysis: AnalysisConfig{
			BlurDetection: true,
			BlurThreshold: 100,
			BlurMaxPixels: 40_000_000,
			ChartWidth:    512,
			ChartHeight:   512,
		},
		History: HistoryConfig{
			Driver:     "csv",
			CSVPath:    "nutrition_history.csv",
			SQLitePath: "nutrition_history.db",
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Artifacts: ArtifactsConfig{
			TTL: time.Hour,
		},
		Images: ImagesConfig{
			Driver: "r2",
			Bucket: "nutrisnap-meals",
			Region: "auto",
		},
		Speech: SpeechConfig{
			Enabled:       false,
			Command:       "espeak",
			PrefixLength:  200,
			ListenTimeout: 10 * time.Second,
			PhraseLimit:   15 * time.Second,
			MaxAudioBytes: 5 << 20,
		},
		Preferences: PreferencesConfig{
			DefaultGoalCalories: 2000,
			MinGoalCalories:     500,
			MaxGoalCalories:     5000,
			DefaultMealPlan:     "General Health",
			SessionTTL:          24 * time.Hour,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		return errors.New("http.maxUploadBytes must be positive")
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return errors.New("llm.apiKey cannot be empty (set GOOGLE_API_KEY)")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.Analysis.BlurThreshold < 0 {
		return errors.New("analysis.blurThreshold must be non-negative")
	}
	if c.Analysis.BlurMaxPixels < 0 {
		return errors.New("analysis.blurMaxPixels must be non-negative")
	}
	if c.Analysis.ChartWidth <= 0 || c.Analysis.ChartHeight <= 0 {
		return errors.New("analysis chart dimensions must be positive")
	}
	switch c.History.Driver {
	case "csv":
		if strings.TrimSpace(c.History.CSVPath) == "" {
			return errors.New("history.csvPath cannot be empty")
		}
	case "sqlite":
		if strings.TrimSpace(c.History.SQLitePath) == "" {
			return errors.New("history.sqlitePath cannot be empty")
		}
	case "postgres":
		if strings.TrimSpace(c.History.Postgres.DSN) == "" {
			return errors.New("history.postgres.dsn cannot be empty")
		}
	case "memory":
	default:
		return fmt.Errorf("history.driver %q is not one of csv, sqlite, postgres, memory", c.History.Driver)
	}
	if c.Artifacts.TTL < 0 {
		return errors.New("artifacts.ttl cannot be negative")
	}
	if c.Artifacts.Redis.Enabled && strings.TrimSpace(c.Artifacts.Redis.Addr) == "" {
		return errors.New("artifacts.redis.addr cannot be empty when redis is enabled")
	}
	if c.Images.Archive {
		switch c.Images.Driver {
		case "r2":
			if strings.TrimSpace(c.Images.Endpoint) == "" || strings.TrimSpace(c.Images.Bucket) == "" {
				return errors.New("images.endpoint and images.bucket are required when archiving is enabled")
			}
		case "memory":
		default:
			return fmt.Errorf("images.driver %q is not one of r2, memory", c.Images.Driver)
		}
	}
	if c.Speech.Enabled && strings.TrimSpace(c.Speech.Command) == "" {
		return errors.New("speech.command cannot be empty when speech is enabled")
	}
	if c.Speech.PrefixLength <= 0 {
		return errors.New("speech.prefixLength must be positive")
	}
	if c.Speech.ListenTimeout <= 0 || c.Speech.PhraseLimit <= 0 {
		return errors.New("speech.listenTimeout and speech.phraseLimit must be positive")
	}
	if c.Speech.MaxAudioBytes <= 0 {
		return errors.New("speech.maxAudioBytes must be positive")
	}
	p := c.Preferences
	if p.MinGoalCalories <= 0 || p.MaxGoalCalories < p.MinGoalCalories {
		return errors.New("preferences goal bounds are invalid")
	}
	if p.DefaultGoalCalories < p.MinGoalCalories || p.DefaultGoalCalories > p.MaxGoalCalories {
		return errors.New("preferences.defaultGoalCalories must lie within the goal bounds")
	}
	if strings.TrimSpace(p.DefaultMealPlan) == "" {
		return errors.New("preferences.defaultMealPlan cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
