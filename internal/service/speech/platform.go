// Package speech hosts the two controllers that arbitrate the session's
// speech resources: one microphone capture session and one spoken
// utterance at a time. The physical devices live in the connected client;
// the controllers drive them through an attachable Platform.
package speech

import "errors"

// ErrUnsupported is returned when the attached platform lacks the
// capability, or no platform is attached at all.
var ErrUnsupported = errors.New("speech capability unsupported")

// ErrorClass classifies why a capture session terminated.
type ErrorClass string

const (
	ClassNone                ErrorClass = ""
	ClassNoSpeech            ErrorClass = "no-speech"
	ClassPermissionDenied    ErrorClass = "permission-denied"
	ClassDeviceUnavailable   ErrorClass = "device-unavailable"
	ClassNetwork             ErrorClass = "network"
	ClassUnsupportedLanguage ErrorClass = "unsupported-language"
	ClassGeneric             ErrorClass = "generic"
	ClassUnsupported         ErrorClass = "unsupported"
)

// Soft reports whether the caller should retry capture instead of
// abandoning the turn.
func (c ErrorClass) Soft() bool {
	return c == ClassNoSpeech
}

// ClassifyError maps a platform error code (Web Speech API vocabulary) to
// an ErrorClass.
func ClassifyError(code string) ErrorClass {
	switch code {
	case "":
		return ClassNone
	case "no-speech":
		return ClassNoSpeech
	case "not-allowed", "service-not-allowed", "permission-denied":
		return ClassPermissionDenied
	case "audio-capture", "device-unavailable":
		return ClassDeviceUnavailable
	case "network":
		return ClassNetwork
	case "language-not-supported", "unsupported-language":
		return ClassUnsupportedLanguage
	default:
		return ClassGeneric
	}
}

// CapturePlatform is the microphone side of the attached client.
type CapturePlatform interface {
	StartCapture() error
	StopCapture()
}

// PlaybackPlatform is the audio-output side of the attached client.
type PlaybackPlatform interface {
	Speak(utteranceID, text string) error
	CancelSpeech()
}
