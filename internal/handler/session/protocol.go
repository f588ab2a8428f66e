package session

import "encoding/json"

// Message types exchanged with the browser client.
const (
	// client -> server
	typeHello        = "hello"
	typeOpen         = "open"
	typeClose        = "close"
	typeToggleMic    = "toggle_mic"
	typeSegment      = "segment"
	typeCaptureEnded = "capture_ended"
	typeSpeechDone   = "speech_done"
	typeText         = "text"

	// server -> client
	typeCaptureStart = "capture_start"
	typeCaptureStop  = "capture_stop"
	typeSpeak        = "speak"
	typeCancelSpeech = "cancel_speech"
	typeMessage      = "message"
	typeState        = "state"
	typeNavigate     = "navigate"
	typeCart         = "cart"
	typeError        = "error"
)

type inboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// helloPayload declares the capabilities of the client's speech engine.
type helloPayload struct {
	SpeechInput  bool `json:"speechInput"`
	SpeechOutput bool `json:"speechOutput"`
}

// segmentPayload carries one recognition result. Final segments
// accumulate; interim ones overwrite each other.
type segmentPayload struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"isFinal"`
}

// captureEndedPayload reports that recognition stopped. Error is the Web
// Speech error code, empty for a normal stop.
type captureEndedPayload struct {
	Error string `json:"error"`
}

// speechDonePayload reports that an utterance finished playing.
type speechDonePayload struct {
	UtteranceID string `json:"utteranceId"`
	Error       string `json:"error"`
}

type textPayload struct {
	Text string `json:"text"`
}

type speakPayload struct {
	UtteranceID string `json:"utteranceId"`
	Text        string `json:"text"`
}

type statePayload struct {
	State string `json:"state"`
}

type navigatePayload struct {
	Path string `json:"path"`
}

type cartPayload struct {
	Count int `json:"count"`
}

func decodeHello(raw []byte) (helloPayload, error) {
	var p helloPayload
	err := json.Unmarshal(raw, &p)
	return p, err
}

func decodeSegment(raw []byte) (segmentPayload, error) {
	var p segmentPayload
	err := json.Unmarshal(raw, &p)
	return p, err
}

func decodeCaptureEnded(raw []byte) (captureEndedPayload, error) {
	// A bare capture_ended with no data means a clean stop.
	if len(raw) == 0 {
		return captureEndedPayload{}, nil
	}
	var p captureEndedPayload
	err := json.Unmarshal(raw, &p)
	return p, err
}

func decodeSpeechDone(raw []byte) (speechDonePayload, error) {
	var p speechDonePayload
	err := json.Unmarshal(raw, &p)
	return p, err
}

func decodeText(raw []byte) (textPayload, error) {
	var p textPayload
	err := json.Unmarshal(raw, &p)
	return p, err
}
