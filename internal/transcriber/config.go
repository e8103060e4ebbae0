// Package transcriber implements a streaming speech-to-text client against a
// Deepgram-style websocket endpoint. It owns the connection lifecycle with
// bounded automatic restarts, the concurrent send/receive duplex protocol,
// and the endpointing logic that turns noisy partial recognitions into
// discrete finalized utterances.
package transcriber

import (
	"errors"
	"fmt"
)

// AudioEncoding identifies the wire encoding of outbound audio chunks.
type AudioEncoding int

const (
	EncodingLinear16 AudioEncoding = iota
	EncodingMulaw
)

// String returns the encoding name used in connection parameters.
func (e AudioEncoding) String() string {
	switch e {
	case EncodingLinear16:
		return "linear16"
	case EncodingMulaw:
		return "mulaw"
	default:
		return fmt.Sprintf("unknown(%d)", int(e))
	}
}

// EndpointingType selects how utterance boundaries are decided.
type EndpointingType int

const (
	// EndpointingTimeBased finalizes purely on accumulated silence duration.
	EndpointingTimeBased EndpointingType = iota
	// EndpointingPunctuationBased finalizes on server-reported finality when
	// the transcript ends in a sentence terminator, or on accumulated silence.
	EndpointingPunctuationBased
)

// EndpointingConfig configures utterance boundary detection. A nil
// EndpointingConfig on Config means the default policy: finalize only when
// the service itself reports speech as final.
type EndpointingConfig struct {
	Type              EndpointingType
	TimeCutoffSeconds float64
}

// Config holds the immutable per-session transcription parameters.
type Config struct {
	Encoding   AudioEncoding
	SampleRate int

	// Downsampling, when greater than 1, declares that inbound linear16
	// chunks arrive at SampleRate*Downsampling and must be reduced to
	// SampleRate before being sent. Mulaw chunks are never resampled.
	Downsampling int

	Language string
	Model    string
	Tier     string
	Version  string
	Keywords []string

	Endpointing *EndpointingConfig
}

var (
	ErrMissingAPIKey = errors.New("transcriber: missing API key: set DEEPGRAM_API_KEY or pass WithAPIKey")
)

// validate rejects configuration defects before any connection attempt, so an
// unsupported variant never reaches the endpointing policy mid-stream.
func (c Config) validate() error {
	switch c.Encoding {
	case EncodingLinear16, EncodingMulaw:
	default:
		return fmt.Errorf("transcriber: unsupported audio encoding %d", int(c.Encoding))
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("transcriber: invalid sample rate %d", c.SampleRate)
	}
	if c.Endpointing != nil {
		switch c.Endpointing.Type {
		case EndpointingTimeBased, EndpointingPunctuationBased:
		default:
			return fmt.Errorf("transcriber: unsupported endpointing type %d", int(c.Endpointing.Type))
		}
	}
	return nil
}
