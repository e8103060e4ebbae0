package config

import (
	"os"
	"testing"

	"realtime-transcriber/internal/transcriber"
)

var configEnvVars = []string{
	"STT_AUDIO_ENCODING", "STT_SAMPLE_RATE_HZ", "STT_DOWNSAMPLING",
	"STT_LANGUAGE", "STT_MODEL", "STT_TIER", "STT_VERSION", "STT_KEYWORDS",
	"STT_ENDPOINTING", "STT_ENDPOINTING_CUTOFF_SECONDS",
	"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_PARTIAL", "KAFKA_TOPIC_FINAL",
	"LOG_LEVEL", "LOG_FORMAT", "METRICS_PORT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range configEnvVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.STT.Encoding != "linear16" {
		t.Errorf("expected default encoding 'linear16', got %s", cfg.STT.Encoding)
	}
	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.STT.Downsampling != 0 {
		t.Errorf("expected default downsampling 0, got %d", cfg.STT.Downsampling)
	}
	if cfg.STT.Endpointing != "" {
		t.Errorf("expected default endpointing '', got %s", cfg.STT.Endpointing)
	}
	if cfg.STT.CutoffSeconds != 1.0 {
		t.Errorf("expected default cutoff 1.0, got %v", cfg.STT.CutoffSeconds)
	}

	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Kafka.TopicPartial != "transcript.partial" {
		t.Errorf("expected default partial topic, got %s", cfg.Kafka.TopicPartial)
	}
	if cfg.Kafka.TopicFinal != "transcript.final" {
		t.Errorf("expected default final topic, got %s", cfg.Kafka.TopicFinal)
	}

	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
	if cfg.Observability.MetricsPort != "9090" {
		t.Errorf("expected default metrics port '9090', got %s", cfg.Observability.MetricsPort)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_AUDIO_ENCODING", "mulaw")
	t.Setenv("STT_SAMPLE_RATE_HZ", "8000")
	t.Setenv("STT_DOWNSAMPLING", "2")
	t.Setenv("STT_LANGUAGE", "en-US")
	t.Setenv("STT_KEYWORDS", "alpha, beta ,gamma")
	t.Setenv("STT_ENDPOINTING", "punctuation")
	t.Setenv("STT_ENDPOINTING_CUTOFF_SECONDS", "2.5")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg := Load()

	if cfg.STT.Encoding != "mulaw" {
		t.Errorf("expected encoding 'mulaw', got %s", cfg.STT.Encoding)
	}
	if cfg.STT.SampleRateHz != 8000 {
		t.Errorf("expected sample rate 8000, got %d", cfg.STT.SampleRateHz)
	}
	if len(cfg.STT.Keywords) != 3 || cfg.STT.Keywords[1] != "beta" {
		t.Errorf("expected trimmed keywords, got %v", cfg.STT.Keywords)
	}
	if cfg.STT.CutoffSeconds != 2.5 {
		t.Errorf("expected cutoff 2.5, got %v", cfg.STT.CutoffSeconds)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("expected 2 brokers, got %v", cfg.Kafka.Brokers)
	}
}

func TestTranscriberConfig_Mapping(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_AUDIO_ENCODING", "mulaw")
	t.Setenv("STT_ENDPOINTING", "time")
	t.Setenv("STT_ENDPOINTING_CUTOFF_SECONDS", "1.5")

	cfg, err := Load().TranscriberConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Encoding != transcriber.EncodingMulaw {
		t.Errorf("expected mulaw encoding, got %v", cfg.Encoding)
	}
	if cfg.Endpointing == nil {
		t.Fatal("expected endpointing config")
	}
	if cfg.Endpointing.Type != transcriber.EndpointingTimeBased {
		t.Errorf("expected time-based endpointing, got %v", cfg.Endpointing.Type)
	}
	if cfg.Endpointing.TimeCutoffSeconds != 1.5 {
		t.Errorf("expected cutoff 1.5, got %v", cfg.Endpointing.TimeCutoffSeconds)
	}
}

func TestTranscriberConfig_DefaultEndpointing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load().TranscriberConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpointing != nil {
		t.Errorf("expected nil endpointing for default policy, got %+v", cfg.Endpointing)
	}
}

func TestTranscriberConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown encoding", "STT_AUDIO_ENCODING", "opus"},
		{"unknown endpointing", "STT_ENDPOINTING", "vad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load().TranscriberConfig(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
