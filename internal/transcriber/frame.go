package transcriber

// recognitionFrame mirrors one inbound message from the recognition service.
// A message without an is_final field is the end-of-stream sentinel: the
// service will send no further recognition frames on this connection.
type recognitionFrame struct {
	Start       float64 `json:"start"`
	Duration    float64 `json:"duration"`
	IsFinal     *bool   `json:"is_final"`
	SpeechFinal bool    `json:"speech_final"`
	Channel     struct {
		Alternatives []alternative `json:"alternatives"`
	} `json:"channel"`
}

type alternative struct {
	Transcript string     `json:"transcript"`
	Confidence float64    `json:"confidence"`
	Words      []wordInfo `json:"words"`
}

type wordInfo struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// isSentinel reports whether the frame is the end-of-stream marker.
func (f *recognitionFrame) isSentinel() bool {
	return f.IsFinal == nil
}

// topAlternative returns the highest-ranked hypothesis, or a zero value when
// the service sent none.
func (f *recognitionFrame) topAlternative() alternative {
	if len(f.Channel.Alternatives) == 0 {
		return alternative{}
	}
	return f.Channel.Alternatives[0]
}
