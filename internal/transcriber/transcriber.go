package transcriber

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"realtime-transcriber/internal/observability/metrics"
)

const (
	// numRestarts bounds the number of full connection attempts per session.
	numRestarts = 5

	// senderIdleTimeout is how long the sender waits for the next audio
	// chunk before treating the stream as drained.
	senderIdleTimeout = 5 * time.Second

	closeStreamMessage = `{"type":"CloseStream"}`

	inputQueueSize  = 256
	outputQueueSize = 256
)

// Transcription is a single transcription event emitted to the consumer.
// Partial results carry the utterance buffer so far with the latest frame's
// confidence; final results carry the full utterance with its accumulated
// weighted confidence.
type Transcription struct {
	Message    string
	Confidence float64
	IsFinal    bool
}

// AudioObserver receives a copy of every outbound audio chunk after
// resampling. Observers are optional side-channels and must not block; the
// streaming logic never depends on them.
type AudioObserver func(chunk []byte)

// Transcriber is a streaming speech-to-text session against a Deepgram-style
// websocket endpoint. Audio pushed via SendAudio is forwarded on the active
// connection while recognition frames are folded into transcription events on
// the Output channel. Connection failures are retried up to a fixed budget.
type Transcriber struct {
	cfg      Config
	apiKey   string
	endpoint string
	dialer   *websocket.Dialer

	input  chan []byte
	output chan Transcription

	ended atomic.Bool
	ready atomic.Bool
	done  chan struct{}

	// terminated is closed by Terminate so queue hand-offs unblock even
	// when the other side is gone.
	terminated chan struct{}

	idleTimeout time.Duration

	terminateOnce sync.Once

	// writeMu serializes sender writes with the termination control frame.
	writeMu sync.Mutex

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	restarts int

	audioCursor atomicFloat64

	logger   zerolog.Logger
	metrics  *metrics.Metrics
	observer AudioObserver
}

// Option configures a Transcriber.
type Option func(*Transcriber)

// WithAPIKey supplies the API key explicitly instead of reading the
// DEEPGRAM_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(t *Transcriber) { t.apiKey = key }
}

// WithEndpoint overrides the websocket endpoint. Used for testing and
// self-hosted deployments.
func WithEndpoint(endpoint string) Option {
	return func(t *Transcriber) { t.endpoint = endpoint }
}

// WithDialer overrides the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(t *Transcriber) { t.dialer = d }
}

// WithLogger attaches a session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Transcriber) { t.logger = l }
}

// WithMetrics overrides the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Transcriber) { t.metrics = m }
}

// WithAudioObserver attaches an optional audio side-channel observer.
func WithAudioObserver(obs AudioObserver) Option {
	return func(t *Transcriber) { t.observer = obs }
}

// New validates the configuration and resolves the API key. It fails before
// any connection attempt when no key is available or the config names an
// unsupported encoding or endpointing variant.
func New(cfg Config, opts ...Option) (*Transcriber, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	t := &Transcriber{
		cfg:      cfg,
		endpoint: defaultEndpoint,
		dialer:   websocket.DefaultDialer,
		input:    make(chan []byte, inputQueueSize),
		output:   make(chan Transcription, outputQueueSize),
		done:     make(chan struct{}),

		terminated:  make(chan struct{}),
		idleTimeout: senderIdleTimeout,

		state:   StateIdle,
		logger:  zerolog.Nop(),
		metrics: metrics.DefaultMetrics,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.apiKey == "" {
		t.apiKey = os.Getenv("DEEPGRAM_API_KEY")
	}
	if t.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if _, err := buildURL(t.endpoint, cfg); err != nil {
		return nil, err
	}
	return t, nil
}

// Start launches the session run loop. It returns immediately; completion is
// signaled on Done.
func (t *Transcriber) Start() {
	go t.run()
}

// SendAudio enqueues a raw audio chunk for the sender. The caller owns the
// production rate; the input queue is the only hand-off point. Once the
// session is terminating or done the chunk is dropped so producers never
// block on a dead consumer.
func (t *Transcriber) SendAudio(chunk []byte) {
	select {
	case t.input <- chunk:
	case <-t.terminated:
	case <-t.done:
	}
}

// Output returns the transcription event channel. Events are emitted in
// decision order, never batched.
func (t *Transcriber) Output() <-chan Transcription {
	return t.output
}

// Done is closed when the session reaches a terminal state: explicit
// termination, server end-of-stream, or an exhausted restart budget.
func (t *Transcriber) Done() <-chan struct{} {
	return t.done
}

// IsReady reports whether a connection attempt has reached the streaming
// state at least once.
func (t *Transcriber) IsReady() bool {
	return t.ready.Load()
}

// State returns the current session state.
func (t *Transcriber) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Restarts returns the number of completed connection attempts.
func (t *Transcriber) Restarts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.restarts
}

// AudioCursor returns the seconds of audio handed to the transport within the
// current connection attempt.
func (t *Transcriber) AudioCursor() float64 {
	return t.audioCursor.Load()
}

// Terminate requests graceful session shutdown: the CloseStream control frame
// is sent exactly once, the termination flag is set, and the active
// connection is closed so the receiver unblocks. Safe to call more than once;
// every call after the first is a no-op.
func (t *Transcriber) Terminate() {
	t.terminateOnce.Do(func() {
		t.mu.Lock()
		conn := t.conn
		t.mu.Unlock()

		if conn != nil {
			t.writeMu.Lock()
			err := conn.WriteMessage(websocket.TextMessage, []byte(closeStreamMessage))
			t.writeMu.Unlock()
			if err != nil {
				t.logger.Debug().Err(err).Msg("failed to send close stream message")
			}
		}

		t.ended.Store(true)
		close(t.terminated)

		if conn != nil {
			conn.Close()
		}
	})
}

// run is the session supervisor: sequential connection attempts until the
// termination flag is set or the restart budget is exhausted. Exhaustion ends
// the session without surfacing an error.
func (t *Transcriber) run() {
	defer close(t.done)
	t.metrics.RecordSessionStart()
	defer t.metrics.RecordSessionEnd()

	restarts := 0
	for !t.ended.Load() && restarts < numRestarts {
		if err := t.process(); err != nil {
			t.logger.Debug().Err(err).Msg("connection attempt failed")
		}
		restarts++
		t.mu.Lock()
		t.restarts = restarts
		t.mu.Unlock()
		t.metrics.RecordRestart()
		t.logger.Debug().Int("restarts", restarts).Msg("connection died, restarting")
	}

	t.mu.Lock()
	if t.ended.Load() {
		t.state = StateClosed
	} else {
		t.state = StateFailed
	}
	t.mu.Unlock()
}

// process runs one full connection attempt: reset the cursors, open the
// transport, then run the duplex pair to joint completion. The pair is
// atomic: whichever loop exits first closes the connection so the other
// cannot outlive it.
func (t *Transcriber) process() error {
	t.setState(StateConnecting)
	t.audioCursor.Store(0)

	u, err := buildURL(t.endpoint, t.cfg)
	if err != nil {
		return err
	}

	conn, resp, err := t.dialer.Dial(u, authHeader(t.apiKey))
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial %s: %w (status %s)", t.endpoint, err, resp.Status)
		}
		return fmt.Errorf("dial %s: %w", t.endpoint, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.state = StateStreaming
	t.mu.Unlock()
	t.ready.Store(true)

	defer func() {
		t.mu.Lock()
		t.conn = nil
		t.mu.Unlock()
		conn.Close()
	}()

	// attemptStop ends the attempt for both loops as soon as either exits:
	// the connection close unblocks the receiver, the channel unblocks a
	// sender waiting on the input queue.
	attemptStop := make(chan struct{})
	var closeOnce sync.Once
	stop := func() {
		closeOnce.Do(func() {
			close(attemptStop)
			conn.Close()
		})
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer stop()
		t.sender(conn, attemptStop)
	}()
	go func() {
		defer wg.Done()
		defer stop()
		t.receiver(conn)
	}()
	wg.Wait()
	return nil
}

// sender forwards audio chunks from the input queue to the connection,
// advancing the audio cursor. An idle input queue for idleTimeout is a clean
// "nothing more to send" exit, not an error.
func (t *Transcriber) sender(conn *websocket.Conn, stop <-chan struct{}) {
	idle := time.NewTimer(t.idleTimeout)
	defer idle.Stop()

	for !t.ended.Load() {
		if !idle.Stop() {
			select {
			case <-idle.C:
			default:
			}
		}
		idle.Reset(t.idleTimeout)

		var chunk []byte
		select {
		case chunk = <-t.input:
		case <-idle.C:
			t.logger.Debug().Dur("idle", t.idleTimeout).Msg("no audio, terminating sender")
			return
		case <-stop:
			return
		case <-t.terminated:
			return
		}

		if t.cfg.Encoding == EncodingLinear16 && t.cfg.Downsampling > 1 {
			chunk = downsample(chunk, t.cfg.Downsampling)
		}
		if t.observer != nil {
			t.observer(chunk)
		}

		const numChannels = 1
		const sampleWidth = 2
		t.audioCursor.Store(t.audioCursor.Load() +
			float64(len(chunk))/float64(t.cfg.SampleRate*numChannels*sampleWidth))

		t.writeMu.Lock()
		err := conn.WriteMessage(websocket.BinaryMessage, chunk)
		t.writeMu.Unlock()
		if err != nil {
			t.logger.Debug().Err(err).Msg("sender write error")
			return
		}
		t.metrics.RecordAudioSent(len(chunk))
	}
	t.logger.Debug().Msg("terminating transcriber sender")
}

// receiver consumes recognition frames, maintains the transcript cursor and
// the utterance buffer, and emits transcription events. It exits on transport
// error, on a malformed frame, or on the end-of-stream sentinel; the
// termination flag unblocks it indirectly through connection closure.
func (t *Transcriber) receiver(conn *websocket.Conn) {
	buf := newUtteranceBuffer()
	timeSilent := 0.0
	transcriptCursor := 0.0

	for !t.ended.Load() {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.logger.Debug().Err(err).Msg("receiver read error")
			break
		}

		var frame recognitionFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			// Protocol-fatal for this attempt, same as a transport error.
			t.logger.Debug().Err(err).Msg("malformed recognition frame")
			break
		}
		if frame.isSentinel() {
			// The service will send no further recognition frames.
			break
		}

		audioCursor := t.audioCursor.Load()
		curMax, curMin, newCursor := latencyBounds(audioCursor, transcriptCursor, frame)
		transcriptCursor = newCursor
		t.metrics.RecordFrame(
			(curMin+curMax)/2*frame.Duration,
			frame.Duration,
			curMax,
			math.Max(curMin, 0),
		)

		isFinal := *frame.IsFinal
		finalize, err := speechFinal(t.cfg.Endpointing, buf.text, frame, timeSilent)
		if err != nil {
			t.logger.Error().Err(err).Msg("endpointing configuration defect")
			break
		}

		top := frame.topAlternative()
		if top.Transcript != "" && top.Confidence > 0 && isFinal {
			buf.append(top.Transcript, top.Confidence)
		}

		switch {
		case finalize:
			t.emit(Transcription{
				Message:    buf.text,
				Confidence: buf.avgConfidence,
				IsFinal:    true,
			})
			buf.reset()
			timeSilent = 0
		case top.Transcript != "" && top.Confidence > 0:
			t.emit(Transcription{
				Message:    buf.text,
				Confidence: top.Confidence,
				IsFinal:    false,
			})
			timeSilent = timeSilentAfter(frame)
		default:
			timeSilent += frame.Duration
		}
	}
	t.logger.Debug().Msg("terminating transcriber receiver")
}

// emit hands a transcription event to the consumer. A session that is
// terminating drops the event instead of parking the receiver on a channel
// the consumer may never drain again.
func (t *Transcriber) emit(tr Transcription) {
	select {
	case t.output <- tr:
		t.metrics.RecordTranscription(tr.IsFinal)
	case <-t.terminated:
	}
}

func (t *Transcriber) setState(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}
