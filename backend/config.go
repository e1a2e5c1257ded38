package main

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/exp/constraints"

	"github.com/yoavweinshall/pa2-connect/engine"
)

const maxAIDepth = 8

type Config struct {
	ListenAddr       string `json:"listen_addr"`
	LogLevel         string `json:"log_level"`
	TickMs           int    `json:"tick_ms"`
	AiDepth          int    `json:"ai_depth"`
	AiUseAlphaBeta   bool   `json:"ai_use_alpha_beta"`
	AiEvaluator      string `json:"ai_evaluator"`
	AiLogSearchStats bool   `json:"ai_log_search_stats"`
	HintMode         bool   `json:"hint_mode"`
	HintDepth        int    `json:"hint_depth"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		LogLevel:   "info",
		TickMs:     50,

		AiDepth:          engine.DefaultDepth,
		AiUseAlphaBeta:   true,
		AiEvaluator:      engine.EvaluatorStandard,
		AiLogSearchStats: false,

		// Hints search a little deeper than the opponent by default.
		HintMode:  false,
		HintDepth: 4,
	}
}

// Normalize clamps numeric knobs and falls back to defaults for unknown
// names.
func (c Config) Normalize() Config {
	defaults := DefaultConfig()
	c.AiDepth = clamp(c.AiDepth, 0, maxAIDepth)
	c.HintDepth = clamp(c.HintDepth, 1, maxAIDepth)
	c.TickMs = clamp(c.TickMs, 5, 1000)
	if _, err := engine.EvaluatorByName(c.AiEvaluator); err != nil {
		c.AiEvaluator = defaults.AiEvaluator
	}
	if c.ListenAddr == "" {
		c.ListenAddr = defaults.ListenAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	return c
}

func clamp[T constraints.Ordered](value, lo, hi T) T {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// LoadConfigFromEnv overlays CONNECTX_* environment variables on base.
func LoadConfigFromEnv(base Config) Config {
	cfg := base
	cfg.ListenAddr = getenv("CONNECTX_LISTEN_ADDR", cfg.ListenAddr)
	cfg.LogLevel = getenv("CONNECTX_LOG_LEVEL", cfg.LogLevel)
	cfg.TickMs = getenvInt("CONNECTX_TICK_MS", cfg.TickMs)
	cfg.AiDepth = getenvInt("CONNECTX_AI_DEPTH", cfg.AiDepth)
	cfg.AiUseAlphaBeta = getenvBool("CONNECTX_AI_ALPHA_BETA", cfg.AiUseAlphaBeta)
	cfg.AiEvaluator = getenv("CONNECTX_AI_EVALUATOR", cfg.AiEvaluator)
	cfg.AiLogSearchStats = getenvBool("CONNECTX_AI_LOG_SEARCH_STATS", cfg.AiLogSearchStats)
	cfg.HintMode = getenvBool("CONNECTX_HINT_MODE", cfg.HintMode)
	cfg.HintDepth = getenvInt("CONNECTX_HINT_DEPTH", cfg.HintDepth)
	return cfg.Normalize()
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig.Normalize()
	c.mu.Unlock()
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
