package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		if strings.TrimSpace(u) == "" {
			d.Duration = 0
			return nil
		}
		dd, err := time.ParseDuration(u)
		if err != nil {
			return err
		}
		d.Duration = dd
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   4 << 20,
		},
		Engine: EngineConfig{
			BaseURL:         "https://api.openai.com",
			Model:           "gpt-4o-mini",
			Temperature:     0.3,
			MaxOutputTokens: 700,
			Timeout:         Duration{Duration: 60 * time.Second},
		},
		Batch: BatchConfig{
			Delay: Duration{Duration: 2 * time.Second},
		},
	}
}

// Load builds the config from defaults, an optional JSON file, and env
// overrides. The upstream API key only ever comes from the environment and is
// read once here, at startup.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("SGB_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.json")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}

	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		var loaded Config
		if err := json.Unmarshal(b, &loaded); err != nil {
			return nil, err
		}
		*cfg = loaded
	}

	if v := strings.TrimSpace(os.Getenv("LOG_MODE")); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("SGB_HTTP_ADDR")); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("GENERATION_BASE_URL")); v != "" {
		cfg.Engine.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("GENERATION_MODEL")); v != "" {
		cfg.Engine.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("SGB_BATCH_DELAY")); v != "" {
		dd, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SGB_BATCH_DELAY: %w", err)
		}
		cfg.Batch.Delay = Duration{Duration: dd}
	}
	cfg.Engine.APIKey = strings.TrimSpace(os.Getenv("GENERATION_API_KEY"))

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 4 << 20
	}
	if cfg.HTTP.ReadHeaderTimeout.Duration <= 0 {
		cfg.HTTP.ReadHeaderTimeout = Duration{Duration: 5 * time.Second}
	}
	if cfg.HTTP.IdleTimeout.Duration <= 0 {
		cfg.HTTP.IdleTimeout = Duration{Duration: 2 * time.Minute}
	}
	if cfg.HTTP.ShutdownTimeout.Duration <= 0 {
		cfg.HTTP.ShutdownTimeout = Duration{Duration: 15 * time.Second}
	}
	if strings.TrimSpace(cfg.Engine.BaseURL) == "" {
		return nil, errors.New("engine base_url is required")
	}
	if strings.TrimSpace(cfg.Engine.Model) == "" {
		return nil, errors.New("engine model is required")
	}
	if cfg.Engine.MaxOutputTokens <= 0 {
		cfg.Engine.MaxOutputTokens = 700
	}
	if cfg.Engine.Timeout.Duration <= 0 {
		cfg.Engine.Timeout = Duration{Duration: 60 * time.Second}
	}
	if cfg.Batch.Delay.Duration < 0 {
		cfg.Batch.Delay = Duration{Duration: 0}
	}

	return cfg, nil
}
