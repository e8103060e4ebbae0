// Package models defines the data structures for transcript events.
package models

// TranscriptPartial represents an interim transcript preview for an
// utterance still in progress.
type TranscriptPartial struct {
	EventType  string  `json:"eventType"`
	SessionID  string  `json:"sessionId"`
	Timestamp  int64   `json:"timestamp"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TranscriptFinal represents a finalized utterance with its accumulated
// weighted confidence.
type TranscriptFinal struct {
	EventType  string  `json:"eventType"`
	SessionID  string  `json:"sessionId"`
	Timestamp  int64   `json:"timestamp"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
