package config

import (
	"os"
	"strconv"
	"time"

	"github.com/kipps-ai/scorecard/internal/analysis"
)

type Config struct {
	Port        int
	NatsURL     string
	NatsToken   string
	DatabaseURL string
	LogLevel    string
	APIToken    string

	// Batch sweep over conversations that have no scorecard yet.
	SweepInterval  time.Duration
	SweepBatchSize int

	// Engine tuning. The decision-policy thresholds are heuristics and
	// deployments are expected to adjust them.
	ClarityWeight             float64
	RelevanceWeight           float64
	AccuracyWeight            float64
	CompletenessWeight        float64
	EmpathyWeight             float64
	FallbackNegativeThreshold int
	FallbackAbsoluteThreshold int
	ResolutionWindowFraction  float64
}

func Load() Config {
	return Config{
		Port:        envInt("SCORECARD_PORT", 8460),
		NatsURL:     envStr("NATS_URL", "nats://localhost:4222"),
		NatsToken:   envStr("NATS_TOKEN", ""),
		DatabaseURL: envStr("DATABASE_URL", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		APIToken:    envStr("SCORECARD_API_TOKEN", ""),

		SweepInterval:  envDur("SWEEP_INTERVAL", 24*time.Hour),
		SweepBatchSize: envInt("SWEEP_BATCH_SIZE", 100),

		ClarityWeight:             envFloat("WEIGHT_CLARITY", 0.2),
		RelevanceWeight:           envFloat("WEIGHT_RELEVANCE", 0.2),
		AccuracyWeight:            envFloat("WEIGHT_ACCURACY", 0.2),
		CompletenessWeight:        envFloat("WEIGHT_COMPLETENESS", 0.2),
		EmpathyWeight:             envFloat("WEIGHT_EMPATHY", 0.2),
		FallbackNegativeThreshold: envInt("FALLBACK_NEGATIVE_THRESHOLD", 2),
		FallbackAbsoluteThreshold: envInt("FALLBACK_ABSOLUTE_THRESHOLD", 4),
		ResolutionWindowFraction:  envFloat("RESOLUTION_WINDOW_FRACTION", 0.25),
	}
}

// Engine maps the service configuration onto the analyzer's config, keeping
// the engine's own defaults for everything not exposed as an env var.
func (c Config) Engine() analysis.Config {
	ec := analysis.DefaultConfig()
	ec.Weights = analysis.Weights{
		Clarity:      c.ClarityWeight,
		Relevance:    c.RelevanceWeight,
		Accuracy:     c.AccuracyWeight,
		Completeness: c.CompletenessWeight,
		Empathy:      c.EmpathyWeight,
	}
	ec.FallbackNegativeThreshold = c.FallbackNegativeThreshold
	ec.FallbackAbsoluteThreshold = c.FallbackAbsoluteThreshold
	ec.ResolutionWindowFraction = c.ResolutionWindowFraction
	return ec
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
