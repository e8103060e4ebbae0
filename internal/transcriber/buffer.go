package transcriber

// utteranceBuffer accumulates final transcript fragments between utterance
// boundaries, together with a weighted confidence estimate.
//
// The confidence update (old + c/n) * (n/(n+1)) is not a standard running
// mean. It is kept bit-for-bit as a pinned behavioral contract: downstream
// consumers calibrate against the values it produces.
type utteranceBuffer struct {
	text          string
	avgConfidence float64
	numUtterances int
}

func newUtteranceBuffer() *utteranceBuffer {
	return &utteranceBuffer{numUtterances: 1}
}

// append joins a finalized fragment onto the buffer and folds its confidence
// into the weighted estimate. The first non-zero contribution sets the
// estimate directly.
func (b *utteranceBuffer) append(transcript string, confidence float64) {
	b.text = b.text + " " + transcript
	if b.avgConfidence == 0 {
		b.avgConfidence = confidence
	} else {
		n := float64(b.numUtterances)
		b.avgConfidence = (b.avgConfidence + confidence/n) * (n / (n + 1))
	}
	b.numUtterances++
}

// reset clears the buffer after a finalize decision.
func (b *utteranceBuffer) reset() {
	b.text = ""
	b.avgConfidence = 0
	b.numUtterances = 1
}
