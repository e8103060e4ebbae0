package transcriber

import "testing"

func TestLatencyBounds(t *testing.T) {
	// 2.0s of audio sent, previous frame acknowledged through 1.5s. The new
	// frame covers 1.5s..1.8s.
	frame := makeFrame("hello", 0.9, 1.5, 0.3, true, false)
	curMax, curMin, newCursor := latencyBounds(2.0, 1.5, frame)

	if !almostEqual(curMax, 0.5) {
		t.Errorf("expected max latency 0.5, got %v", curMax)
	}
	if !almostEqual(curMin, 0.2) {
		t.Errorf("expected min latency 0.2, got %v", curMin)
	}
	if !almostEqual(newCursor, 1.8) {
		t.Errorf("expected transcript cursor 1.8, got %v", newCursor)
	}
}

func TestLatencyBounds_RecognizerAhead(t *testing.T) {
	// The recognizer can run ahead of the audio clock; the raw minimum is
	// negative and only the metric is clamped.
	frame := makeFrame("hello", 0.9, 0.0, 1.0, true, false)
	_, curMin, _ := latencyBounds(0.5, 0.0, frame)
	if !almostEqual(curMin, -0.5) {
		t.Errorf("expected raw min latency -0.5, got %v", curMin)
	}
}

func TestLatencyBounds_CursorSetNotAccumulated(t *testing.T) {
	// The transcript cursor is set to frame end, not advanced by duration.
	first := makeFrame("a", 0.9, 0.0, 1.0, true, false)
	_, _, cursor := latencyBounds(1.0, 0.0, first)

	second := makeFrame("b", 0.9, 0.5, 1.0, true, false)
	_, _, cursor = latencyBounds(2.0, cursor, second)
	if !almostEqual(cursor, 1.5) {
		t.Errorf("expected cursor 1.5 from overlapping frame, got %v", cursor)
	}
}

func TestAtomicFloat64(t *testing.T) {
	var f atomicFloat64
	if f.Load() != 0 {
		t.Errorf("expected zero value 0, got %v", f.Load())
	}
	f.Store(0.25)
	if f.Load() != 0.25 {
		t.Errorf("expected 0.25, got %v", f.Load())
	}
}
