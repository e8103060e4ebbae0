package transcriber

import "fmt"

// State represents the lifecycle state of a transcription session.
type State int

const (
	// StateIdle - session created, Start not yet called.
	StateIdle State = iota
	// StateConnecting - a connection attempt is in progress.
	StateConnecting
	// StateStreaming - the duplex pair is running on an open connection.
	StateStreaming
	// StateClosed - session ended by explicit termination or server
	// end-of-stream. Terminal.
	StateClosed
	// StateFailed - session ended by exhausting the restart budget. Terminal.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateStreaming:
		return "STREAMING"
	case StateClosed:
		return "CLOSED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// IsTerminal returns true if no further connection attempts will be made.
func (s State) IsTerminal() bool {
	return s == StateClosed || s == StateFailed
}
