// Command transcriber streams a PCM/WAV audio file through the streaming
// speech-to-text client in real-time sized chunks and prints the resulting
// transcription events. Final transcripts can optionally be published to
// Kafka for downstream consumers.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"realtime-transcriber/internal/config"
	"realtime-transcriber/internal/events"
	"realtime-transcriber/internal/observability"
	"realtime-transcriber/internal/observability/logging"
	"realtime-transcriber/internal/transcriber"
)

// WAV header is 44 bytes for standard PCM files.
const wavHeaderSize = 44

func main() {
	audioFile := flag.String("audio", "", "Path to audio file (WAV or raw PCM)")
	chunkMs := flag.Int("chunk-ms", 100, "Audio chunk size in milliseconds")
	tapFile := flag.String("tap", "", "Optional path to copy outbound audio chunks to")
	flag.Parse()

	// Best effort; the environment may carry everything already.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})
	logger := logging.WithComponent("main")

	sttCfg, err := cfg.TranscriberConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid STT configuration")
	}

	obs := observability.NewServer(":" + cfg.Observability.MetricsPort)
	obs.Start()
	defer obs.Shutdown(context.Background())

	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicPartial: cfg.Kafka.TopicPartial,
		TopicFinal:   cfg.Kafka.TopicFinal,
	})
	defer publisher.Close()

	sessionID := uuid.NewString()
	sessionLogger := logging.WithSession(sessionID)

	opts := []transcriber.Option{
		transcriber.WithLogger(sessionLogger),
	}
	if *tapFile != "" {
		tap, err := os.Create(*tapFile)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *tapFile).Msg("failed to create audio tap")
		}
		defer tap.Close()
		opts = append(opts, transcriber.WithAudioObserver(func(chunk []byte) {
			// Side-channel only; write errors never reach the stream.
			_, _ = tap.Write(chunk)
		}))
	}

	t, err := transcriber.New(sttCfg, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to construct transcriber")
	}

	t.Start()

	// Consume transcription events.
	go func() {
		for tr := range t.Output() {
			sessionLogger.Info().
				Str("message", tr.Message).
				Float64("confidence", tr.Confidence).
				Bool("isFinal", tr.IsFinal).
				Msg("transcription")
			if err := publisher.Publish(context.Background(), sessionID, tr); err != nil {
				sessionLogger.Error().Err(err).Msg("failed to publish transcription")
			}
		}
	}()

	if *audioFile != "" {
		go func() {
			if err := streamFile(t, *audioFile, cfg.STT.SampleRateHz, *chunkMs); err != nil {
				sessionLogger.Error().Err(err).Msg("audio streaming failed")
			}
			// Let the sender drain, then end the session.
			t.Terminate()
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sig:
		logger.Info().Msg("shutting down")
		t.Terminate()
		<-t.Done()
	case <-t.Done():
	}

	logger.Info().
		Str("state", t.State().String()).
		Int("restarts", t.Restarts()).
		Msg("session ended")
}

// streamFile pushes the audio file to the transcriber in real-time sized
// chunks. WAV files have their 44-byte header stripped and validated; any
// other file is treated as raw PCM at the configured rate.
func streamFile(t *transcriber.Transcriber, path string, sampleRate, chunkMs int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, wavHeaderSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return err
	}
	if string(header[0:4]) == "RIFF" && string(header[8:12]) == "WAVE" {
		rate := binary.LittleEndian.Uint32(header[24:28])
		if int(rate) != sampleRate {
			logger := logging.WithComponent("audioclient")
			logger.Warn().
				Uint32("fileRate", rate).
				Int("configuredRate", sampleRate).
				Msg("WAV sample rate differs from configured rate")
		}
	} else if n > 0 {
		// Not a WAV file; the bytes read are raw audio.
		t.SendAudio(header[:n])
	}

	// 16-bit mono: 2 bytes per sample.
	chunkSize := sampleRate * 2 * chunkMs / 1000
	ticker := time.NewTicker(time.Duration(chunkMs) * time.Millisecond)
	defer ticker.Stop()

	buf := make([]byte, chunkSize)
	for range ticker.C {
		n, err := io.ReadFull(f, buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			t.SendAudio(chunk)
		}
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return err
		}
	}
	return nil
}
