package transcriber

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const punctuationTerminators = ".!?"

// speechFinal is the endpointing policy: a pure decision over the current
// utterance buffer, the newly received frame, and the silence accumulated so
// far. It reports whether the buffer should be finalized into an utterance.
//
// ep is the session's endpointing configuration; nil selects the default
// policy, which defers entirely to the service's own speech_final flag.
func speechFinal(ep *EndpointingConfig, buffer string, frame recognitionFrame, timeSilent float64) (bool, error) {
	transcript := frame.topAlternative().Transcript

	if ep == nil {
		return transcript != "" && frame.SpeechFinal, nil
	}

	silenceExceeded := transcript == "" && buffer != "" &&
		timeSilent+frame.Duration > ep.TimeCutoffSeconds

	switch ep.Type {
	case EndpointingTimeBased:
		return silenceExceeded, nil
	case EndpointingPunctuationBased:
		punctuated := frame.SpeechFinal && transcript != "" && endsWithTerminator(transcript)
		return punctuated || silenceExceeded, nil
	default:
		// Unreachable for configs that passed validate; kept for truly
		// unknown wire data.
		return false, fmt.Errorf("transcriber: unsupported endpointing type %d", int(ep.Type))
	}
}

// endsWithTerminator reports whether the last non-space character of s is a
// sentence terminator.
func endsWithTerminator(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(trimmed)
	return strings.ContainsRune(punctuationTerminators, last)
}

// timeSilentAfter computes the silence trailing a frame that carried speech:
// the gap between the frame's end time and the last recognized word, or the
// whole frame duration when no word-level records exist.
func timeSilentAfter(frame recognitionFrame) float64 {
	end := frame.Start + frame.Duration
	words := frame.topAlternative().Words
	if len(words) > 0 {
		return end - words[len(words)-1].End
	}
	return frame.Duration
}
