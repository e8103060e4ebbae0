package events

import (
	"context"
	"testing"

	"realtime-transcriber/internal/transcriber"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writerPartial != nil {
				t.Error("expected nil partial writer when disabled")
			}
			if p.writerFinal != nil {
				t.Error("expected nil final writer when disabled")
			}
		})
	}
}

func TestPublish_DisabledModeIsNoopSuccess(t *testing.T) {
	p := New(nil)

	partial := transcriber.Transcription{Message: " hello", Confidence: 0.8, IsFinal: false}
	if err := p.Publish(context.Background(), "sess-1", partial); err != nil {
		t.Errorf("expected nil error publishing partial in disabled mode, got %v", err)
	}

	final := transcriber.Transcription{Message: " hello world", Confidence: 0.9, IsFinal: true}
	if err := p.Publish(context.Background(), "sess-1", final); err != nil {
		t.Errorf("expected nil error publishing final in disabled mode, got %v", err)
	}
}

func TestClose_DisabledMode(t *testing.T) {
	p := New(nil)
	if err := p.Close(); err != nil {
		t.Errorf("expected nil error closing disabled publisher, got %v", err)
	}
}
