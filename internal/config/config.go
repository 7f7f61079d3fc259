// Package config collects every environment-driven knob in one place.
// Values come from the process environment, optionally seeded from a .env
// file. Every getter has a documented default so the agent runs with an
// empty environment (minus API keys).
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BaseDir string

	// Feature toggles
	SemanticEnabled bool
	ClarifyEnabled  bool
	IntentAliases   bool

	// Semantic fallback thresholds
	SemanticMinScore  float64
	SemanticMinMargin float64

	// Audio bus
	AudioSock  string
	AudioTries int
	AudioRetry time.Duration

	// LLM
	APIKey         string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeout     time.Duration

	// TTS
	TTSModel string
	TTSVoice string

	// Embeddings (model comes from the centroid store meta, this is a fallback)
	EmbedModel string

	// Studio / soundscape
	StudioStreamURL string
	StudioPomodoro  bool

	// Optional SOCKS5 proxy for OpenAI traffic
	SocksProxy string
}

// Load builds a Config from the current environment.
func Load() Config {
	return Config{
		BaseDir: baseDir(),

		SemanticEnabled: envBool("VOXIE_FEATURE_SEMANTIC", false),
		ClarifyEnabled:  envBool("VOXIE_FEATURE_CLARIFY", false),
		IntentAliases:   envBool("VOXIE_SEMANTIC_INTENT_ALIASES", false),

		SemanticMinScore:  envFloat("VOXIE_SEMANTIC_MIN_SCORE", 0.55),
		SemanticMinMargin: envFloat("VOXIE_SEMANTIC_MIN_MARGIN", 0.04),

		AudioSock:  envStr("AUDIO_SOCK", "/tmp/voxie_audio.sock"),
		AudioTries: envInt("AUDIO_TRIES", 3),
		AudioRetry: time.Duration(envInt("AUDIO_RETRY_MS", 120)) * time.Millisecond,

		APIKey:         firstEnv("OPENAI_API_KEY", "LLM_API_KEY"),
		LLMModel:       envStr("LLM_MODEL", "gpt-4o-mini"),
		LLMMaxTokens:   envInt("LLM_MAX_TOKENS", 120),
		LLMTemperature: envFloat("LLM_TEMPERATURE", 0.4),
		LLMTimeout:     time.Duration(envInt("LLM_TIMEOUT", 15)) * time.Second,

		TTSModel: envStr("OPENAI_TTS_MODEL", "gpt-4o-mini-tts"),
		TTSVoice: envStr("OPENAI_TTS_VOICE", "alloy"),

		EmbedModel: envStr("VOXIE_EMBED_MODEL", "text-embedding-3-small"),

		StudioStreamURL: envStr("STUDIO_STREAM_URL", ""),
		StudioPomodoro:  envBool("STUDIO_ENABLE_POMODORO", true),

		SocksProxy: envStr("VOXIE_SOCKS_PROXY", ""),
	}
}

func (c Config) DataDir() string   { return filepath.Join(c.BaseDir, "data") }
func (c Config) CacheDir() string  { return filepath.Join(c.DataDir(), "cache") }
func (c Config) StateDir() string  { return filepath.Join(c.DataDir(), "state") }
func (c Config) AssetsDir() string { return filepath.Join(c.BaseDir, "assets") }
func (c Config) VecStore() string {
	return filepath.Join(c.DataDir(), "vec", "intents_vectors.json")
}

func baseDir() string {
	if root := strings.TrimSpace(os.Getenv("VOXIE_ROOT")); root != "" {
		if st, err := os.Stat(root); err == nil && st.IsDir() {
			return root
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func envStr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.Trim(strings.TrimSpace(os.Getenv(k)), `"'`); v != "" {
			return v
		}
	}
	return ""
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
