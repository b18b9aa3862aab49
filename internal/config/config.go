package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout"`
	IdleTimeout       Duration `json:"idle_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout"`
	MaxRequestBytes   int64    `json:"max_request_bytes"`
}

// EngineConfig points at the upstream OpenAI-compatible generation service.
// Temperature and MaxOutputTokens are fixed per deployment so generated
// records come back at a predictable length.
type EngineConfig struct {
	BaseURL             string   `json:"base_url"`
	APIKey              string   `json:"-"`
	Model               string   `json:"model"`
	ChatCompletionsPath string   `json:"chat_completions_path,omitempty"`
	Temperature         float64  `json:"temperature"`
	MaxOutputTokens     int      `json:"max_output_tokens"`
	Timeout             Duration `json:"timeout,omitempty"`
}

// BatchConfig holds the fixed inter-student delay the batch orchestrator
// enforces against the upstream rate limit.
type BatchConfig struct {
	Delay Duration `json:"delay"`
}

type Config struct {
	Env    string       `json:"env"`
	HTTP   HTTPConfig   `json:"http"`
	Engine EngineConfig `json:"engine"`
	Batch  BatchConfig  `json:"batch"`
}
