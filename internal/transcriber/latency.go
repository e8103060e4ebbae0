package transcriber

import (
	"math"
	"sync/atomic"
)

// The session tracks two clocks: the audio cursor (seconds of audio handed to
// the transport) and the transcript cursor (end time of the most recently
// received recognition frame). Their difference bounds the pipeline latency
// for each frame.

// atomicFloat64 holds a float64 written by the sender and read by the
// receiver. Single writer, so a plain load/store pair is sufficient.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (f *atomicFloat64) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat64) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// latencyBounds computes the per-frame latency window. curMax uses the
// transcript cursor from before this frame, curMin the cursor after it.
// curMin may be negative when the recognizer runs ahead of the audio clock;
// callers clamp only for the minimum-latency metric.
func latencyBounds(audioCursor, transcriptCursor float64, frame recognitionFrame) (curMax, curMin, newCursor float64) {
	curMax = audioCursor - transcriptCursor
	newCursor = frame.Start + frame.Duration
	curMin = audioCursor - newCursor
	return curMax, curMin, newCursor
}
