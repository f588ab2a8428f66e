package orchestrator

// SessionState is the single mode the conversation is in. Exactly one
// state is active at any instant; Listening, Thinking and Speaking never
// overlap, which is what arbitrates the microphone and audio output
// without locks.
type SessionState int

const (
	// StateClosed is both the initial and the terminal state.
	StateClosed SessionState = iota
	// StateAwaitingWelcome covers the welcome utterance and every
	// open-but-idle pause (mic toggled off, hard capture error).
	StateAwaitingWelcome
	// StateListening means one microphone capture session is active.
	StateListening
	// StateThinking means one intent resolution is in flight.
	StateThinking
	// StateSpeaking means one utterance is playing.
	StateSpeaking
)

func (s SessionState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateAwaitingWelcome:
		return "awaiting-welcome"
	case StateListening:
		return "listening"
	case StateThinking:
		return "thinking"
	case StateSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}
