package speech

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Output owns the audio-output resource: one utterance plays at a time,
// and its completion callback fires at most once.
type Output struct {
	mu        sync.Mutex
	platform  PlaybackPlatform
	supported bool
	activeID  string
	onDone    func()
}

// NewOutput returns a controller with no platform attached.
func NewOutput() *Output {
	return &Output{}
}

// Attach binds the connected client as the playback platform.
func (c *Output) Attach(platform PlaybackPlatform, supported bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.platform = platform
	c.supported = supported && platform != nil
	c.activeID = ""
	c.onDone = nil
}

// Detach removes the platform; the controller reverts to unsupported.
func (c *Output) Detach() {
	c.Attach(nil, false)
}

// Supported reports whether speech playback is currently available.
func (c *Output) Supported() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.supported
}

// Speaking reports whether an utterance is in flight.
func (c *Output) Speaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID != ""
}

// Speak starts a new utterance, cancelling any active one first. onDone
// fires exactly once when the utterance finishes, whether by natural
// completion or playback error. Returns the utterance ID.
func (c *Output) Speak(text string, onDone func()) (string, error) {
	c.mu.Lock()
	if !c.supported {
		c.mu.Unlock()
		return "", ErrUnsupported
	}
	if c.activeID != "" {
		// Exactly one active utterance system-wide: the superseded
		// utterance's completion is dropped, not fired.
		c.platform.CancelSpeech()
	}
	id := uuid.NewString()
	c.activeID = id
	c.onDone = onDone
	platform := c.platform
	c.mu.Unlock()

	if err := platform.Speak(id, text); err != nil {
		log.Printf("[speech] speak failed utterance=%s: %v", id, err)
		// A playback error must never leave the turn loop stalled.
		c.HandleDone(id, "playback-error")
		return id, nil
	}
	return id, nil
}

// Cancel immediately silences the active utterance. The pending
// completion is dropped; callers must not depend on it after Cancel.
func (c *Output) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeID == "" {
		return
	}
	c.platform.CancelSpeech()
	c.activeID = ""
	c.onDone = nil
}

// HandleDone ingests the platform's completion event for an utterance.
// Events for superseded or cancelled utterances are ignored.
func (c *Output) HandleDone(utteranceID, playbackError string) {
	c.mu.Lock()
	if utteranceID != c.activeID {
		c.mu.Unlock()
		return
	}
	done := c.onDone
	c.activeID = ""
	c.onDone = nil
	c.mu.Unlock()

	if playbackError != "" {
		log.Printf("[speech] utterance %s ended with playback error: %s", utteranceID, playbackError)
	}
	if done != nil {
		done()
	}
}
