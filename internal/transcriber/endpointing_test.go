package transcriber

import "testing"

func makeFrame(transcript string, confidence, start, duration float64, isFinal, speechFinal bool, wordEnds ...float64) recognitionFrame {
	f := recognitionFrame{
		Start:       start,
		Duration:    duration,
		IsFinal:     &isFinal,
		SpeechFinal: speechFinal,
	}
	alt := alternative{Transcript: transcript, Confidence: confidence}
	for _, end := range wordEnds {
		alt.Words = append(alt.Words, wordInfo{End: end})
	}
	f.Channel.Alternatives = []alternative{alt}
	return f
}

func TestSpeechFinal_DefaultPolicy(t *testing.T) {
	tests := []struct {
		name        string
		transcript  string
		speechFinal bool
		want        bool
	}{
		{"transcript and speech final", "hello world", true, true},
		{"transcript without speech final", "hello world", false, false},
		{"speech final without transcript", "", true, false},
		{"neither", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := makeFrame(tt.transcript, 0.9, 0, 0.5, true, tt.speechFinal)
			got, err := speechFinal(nil, "", frame, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSpeechFinal_TimeBased(t *testing.T) {
	ep := &EndpointingConfig{Type: EndpointingTimeBased, TimeCutoffSeconds: 1.0}

	tests := []struct {
		name       string
		transcript string
		buffer     string
		timeSilent float64
		duration   float64
		want       bool
	}{
		{"silence exceeds cutoff", "", "so far", 0.6, 0.6, true},
		{"silence equals cutoff", "", "so far", 0.4, 0.6, false},
		{"silence below cutoff", "", "so far", 0.0, 0.6, false},
		{"empty buffer", "", "", 2.0, 0.6, false},
		{"transcript present", "more words", "so far", 2.0, 0.6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := makeFrame(tt.transcript, 0.9, 0, tt.duration, true, true)
			got, err := speechFinal(ep, tt.buffer, frame, tt.timeSilent)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSpeechFinal_PunctuationBased(t *testing.T) {
	ep := &EndpointingConfig{Type: EndpointingPunctuationBased, TimeCutoffSeconds: 1.0}

	tests := []struct {
		name        string
		transcript  string
		buffer      string
		speechFinal bool
		timeSilent  float64
		duration    float64
		want        bool
	}{
		{"period terminator", "hello there.", "", true, 0, 0.5, true},
		{"question terminator", "are you sure?", "", true, 0, 0.5, true},
		{"exclamation terminator", "stop!", "", true, 0, 0.5, true},
		{"trailing space after terminator", "done. ", "", true, 0, 0.5, true},
		{"no terminator", "hello there", "", true, 0, 0.5, false},
		{"terminator without speech final", "hello there.", "", false, 0, 0.5, false},
		{"silence fallback", "", "so far", false, 0.8, 0.6, true},
		{"silence fallback below cutoff", "", "so far", false, 0.2, 0.6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := makeFrame(tt.transcript, 0.9, 0, tt.duration, true, tt.speechFinal)
			got, err := speechFinal(ep, tt.buffer, frame, tt.timeSilent)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSpeechFinal_UnknownVariant(t *testing.T) {
	ep := &EndpointingConfig{Type: EndpointingType(42)}
	frame := makeFrame("hello", 0.9, 0, 0.5, true, true)
	if _, err := speechFinal(ep, "", frame, 0); err == nil {
		t.Error("expected error for unknown endpointing type")
	}
}

func TestTimeSilentAfter(t *testing.T) {
	// Frame ends at 2.0s, last word ends at 1.7s.
	frame := makeFrame("hello", 0.9, 1.0, 1.0, true, false, 1.3, 1.7)
	if got := timeSilentAfter(frame); !almostEqual(got, 0.3) {
		t.Errorf("expected ~0.3, got %v", got)
	}

	// No word records: whole frame duration is silence.
	noWords := makeFrame("hello", 0.9, 1.0, 1.0, true, false)
	if got := timeSilentAfter(noWords); got != 1.0 {
		t.Errorf("expected 1.0, got %v", got)
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
