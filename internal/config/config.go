// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"realtime-transcriber/internal/transcriber"
)

// Config holds the full service configuration.
type Config struct {
	STT           STTConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// STTConfig holds the transcription session parameters.
type STTConfig struct {
	Encoding      string // linear16, mulaw
	SampleRateHz  int
	Downsampling  int
	Language      string
	Model         string
	Tier          string
	Version       string
	Keywords      []string
	Endpointing   string // "", time, punctuation
	CutoffSeconds float64
}

// KafkaConfig holds the downstream event publishing configuration.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	TopicPartial string
	TopicFinal   string
}

// ObservabilityConfig holds logging and metrics configuration.
type ObservabilityConfig struct {
	LogLevel    string
	LogFormat   string
	MetricsPort string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		STT: STTConfig{
			Encoding:      envOrDefault("STT_AUDIO_ENCODING", "linear16"),
			SampleRateHz:  envInt("STT_SAMPLE_RATE_HZ", 16000),
			Downsampling:  envInt("STT_DOWNSAMPLING", 0),
			Language:      os.Getenv("STT_LANGUAGE"),
			Model:         os.Getenv("STT_MODEL"),
			Tier:          os.Getenv("STT_TIER"),
			Version:       os.Getenv("STT_VERSION"),
			Keywords:      envList("STT_KEYWORDS"),
			Endpointing:   os.Getenv("STT_ENDPOINTING"),
			CutoffSeconds: envFloat("STT_ENDPOINTING_CUTOFF_SECONDS", 1.0),
		},
		Kafka: KafkaConfig{
			Enabled:      envBool("KAFKA_ENABLED", false),
			Brokers:      envList("KAFKA_BROKERS"),
			TopicPartial: envOrDefault("KAFKA_TOPIC_PARTIAL", "transcript.partial"),
			TopicFinal:   envOrDefault("KAFKA_TOPIC_FINAL", "transcript.final"),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "json"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
	}
}

// TranscriberConfig maps the STT configuration onto the session config,
// rejecting unknown encoding or endpointing names.
func (c *Config) TranscriberConfig() (transcriber.Config, error) {
	cfg := transcriber.Config{
		SampleRate:   c.STT.SampleRateHz,
		Downsampling: c.STT.Downsampling,
		Language:     c.STT.Language,
		Model:        c.STT.Model,
		Tier:         c.STT.Tier,
		Version:      c.STT.Version,
		Keywords:     c.STT.Keywords,
	}

	switch strings.ToLower(c.STT.Encoding) {
	case "linear16":
		cfg.Encoding = transcriber.EncodingLinear16
	case "mulaw":
		cfg.Encoding = transcriber.EncodingMulaw
	default:
		return transcriber.Config{}, fmt.Errorf("config: unknown audio encoding %q", c.STT.Encoding)
	}

	switch strings.ToLower(c.STT.Endpointing) {
	case "":
	case "time":
		cfg.Endpointing = &transcriber.EndpointingConfig{
			Type:              transcriber.EndpointingTimeBased,
			TimeCutoffSeconds: c.STT.CutoffSeconds,
		}
	case "punctuation":
		cfg.Endpointing = &transcriber.EndpointingConfig{
			Type:              transcriber.EndpointingPunctuationBased,
			TimeCutoffSeconds: c.STT.CutoffSeconds,
		}
	default:
		return transcriber.Config{}, fmt.Errorf("config: unknown endpointing %q", c.STT.Endpointing)
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
