// Package config loads tripplanner settings from an optional YAML file,
// a .env file and the process environment (highest precedence).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// EnvConfigPath names the config file when --config is not given.
const EnvConfigPath = "TRIPPLANNER_CONFIG"

// Config holds every setting of a tripplanner process. Fields are filled
// from YAML first, then overridden by the env tags.
type Config struct {
	Server struct {
		Host        string   `yaml:"host" env:"TRIPPLANNER_HOST" env-default:"localhost"`
		Port        int      `yaml:"port" env:"TRIPPLANNER_PORT" env-default:"8080"`
		CORSOrigins []string `yaml:"cors_origins" env:"TRIPPLANNER_CORS_ORIGINS" env-separator:","`
	} `yaml:"server"`

	Users struct {
		Backend string `yaml:"backend" env:"TRIPPLANNER_USERS_BACKEND" env-default:"json"`
		Path    string `yaml:"path" env:"TRIPPLANNER_USERS_PATH" env-default:"users.json"`
	} `yaml:"users"`

	Sessions struct {
		Backend       string        `yaml:"backend" env:"TRIPPLANNER_SESSIONS_BACKEND" env-default:"memory"`
		Dir           string        `yaml:"dir" env:"TRIPPLANNER_SESSIONS_DIR" env-default:".tripplanner/sessions"`
		RedisAddr     string        `yaml:"redis_addr" env:"TRIPPLANNER_REDIS_ADDR" env-default:"localhost:6379"`
		RedisPassword string        `yaml:"redis_password" env:"TRIPPLANNER_REDIS_PASSWORD"`
		RedisDB       int           `yaml:"redis_db" env:"TRIPPLANNER_REDIS_DB" env-default:"0"`
		TTL           time.Duration `yaml:"ttl" env:"TRIPPLANNER_SESSION_TTL" env-default:"24h"`
		PruneSchedule string        `yaml:"prune_schedule" env:"TRIPPLANNER_PRUNE_SCHEDULE" env-default:"@every 15m"`
		EncryptionKey string        `yaml:"encryption_key" env:"TRIPPLANNER_SESSION_KEY"`
	} `yaml:"sessions"`

	LLM struct {
		Provider    string  `yaml:"provider" env:"TRIPPLANNER_LLM_PROVIDER" env-default:"groq"`
		Model       string  `yaml:"model" env:"TRIPPLANNER_LLM_MODEL"`
		Temperature float32 `yaml:"temperature" env:"TRIPPLANNER_LLM_TEMPERATURE" env-default:"0.7"`
		APIKey      string  `yaml:"api_key" env:"GROQ_API_KEY"`
		GeminiKey   string  `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
		BaseURL     string  `yaml:"base_url" env:"TRIPPLANNER_LLM_BASE_URL"`
	} `yaml:"llm"`

	Weather struct {
		APIKey  string        `yaml:"api_key" env:"WEATHER_API_KEY"`
		BaseURL string        `yaml:"base_url" env:"TRIPPLANNER_WEATHER_BASE_URL" env-default:"http://api.weatherapi.com/v1"`
		Timeout time.Duration `yaml:"timeout" env:"TRIPPLANNER_WEATHER_TIMEOUT" env-default:"10s"`
	} `yaml:"weather"`

	Log struct {
		Level          string `yaml:"level" env:"TRIPPLANNER_LOG_LEVEL" env-default:"info"`
		InteractionLog string `yaml:"interaction_log" env:"TRIPPLANNER_INTERACTION_LOG" env-default:"system_interaction.log"`
		RedactPII      bool   `yaml:"redact_pii" env:"TRIPPLANNER_REDACT_PII" env-default:"false"`
	} `yaml:"log"`

	Prompts struct {
		Path string `yaml:"path" env:"TRIPPLANNER_PROMPTS"`
	} `yaml:"prompts"`

	MaxInputSize int `yaml:"max_input_size" env:"TRIPPLANNER_MAX_INPUT_SIZE" env-default:"4096"`
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate rejects unknown backends and providers.
func (c *Config) Validate() error {
	switch c.Users.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("unknown users backend %q (want json or sqlite)", c.Users.Backend)
	}
	switch c.Sessions.Backend {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("unknown sessions backend %q (want memory, file or redis)", c.Sessions.Backend)
	}
	switch c.LLM.Provider {
	case "groq", "gemini":
	default:
		return fmt.Errorf("unknown llm provider %q (want groq or gemini)", c.LLM.Provider)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files without overriding
// variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads path (if non-empty, or $TRIPPLANNER_CONFIG) and then the environment.
// A path that does not exist is an error; no path means environment and defaults only.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
