package speech

import (
	"log"
	"strings"
	"sync"
)

// Input owns the microphone capture resource. Final segments accumulate
// into the session transcript; an interim segment is a preview of the
// unfinished segment and overwrites the previous one.
type Input struct {
	mu         sync.Mutex
	platform   CapturePlatform
	supported  bool
	active     bool
	transcript strings.Builder
	interim    string

	onEnd     func(transcript string, class ErrorClass)
	onInterim func(text string)
}

// NewInput returns a controller with no platform attached; all operations
// are unsupported no-ops until Attach.
func NewInput() *Input {
	return &Input{}
}

// SetHandlers registers the termination and interim callbacks. The
// orchestrator subscribes exactly once per process.
func (c *Input) SetHandlers(onEnd func(transcript string, class ErrorClass), onInterim func(text string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEnd = onEnd
	c.onInterim = onInterim
}

// Attach binds the connected client as the capture platform.
func (c *Input) Attach(platform CapturePlatform, supported bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.platform = platform
	c.supported = supported && platform != nil
	c.active = false
	c.transcript.Reset()
	c.interim = ""
}

// Detach removes the platform; the controller reverts to unsupported.
func (c *Input) Detach() {
	c.Attach(nil, false)
}

// Supported reports whether speech capture is currently available.
func (c *Input) Supported() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.supported
}

// Active reports whether a capture session is in flight.
func (c *Input) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Start begins one capture session, resetting the transcript buffers. It
// fails silently when unsupported or already capturing.
func (c *Input) Start() {
	c.mu.Lock()
	if !c.supported {
		c.mu.Unlock()
		log.Printf("[speech] capture start ignored: unsupported")
		return
	}
	if c.active {
		c.mu.Unlock()
		log.Printf("[speech] capture start ignored: session already active")
		return
	}
	c.transcript.Reset()
	c.interim = ""
	c.active = true
	platform := c.platform
	c.mu.Unlock()

	if err := platform.StartCapture(); err != nil {
		log.Printf("[speech] capture start failed: %v", err)
		c.HandleEnded(ClassGeneric)
	}
}

// Stop requests graceful termination. The session stays active until the
// platform delivers the termination event via HandleEnded.
func (c *Input) Stop() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	platform := c.platform
	c.mu.Unlock()
	platform.StopCapture()
}

// Abort terminates immediately and discards the session; no end callback
// fires.
func (c *Input) Abort() {
	c.mu.Lock()
	platform := c.platform
	wasActive := c.active
	c.active = false
	c.transcript.Reset()
	c.interim = ""
	c.mu.Unlock()

	if wasActive && platform != nil {
		platform.StopCapture()
	}
}

// Reset clears the transcript buffers without touching an active session.
func (c *Input) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript.Reset()
	c.interim = ""
}

// Transcript returns the accumulated final transcript of the session.
func (c *Input) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.String()
}

// Interim returns the current interim preview.
func (c *Input) Interim() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interim
}

// HandleSegment ingests one recognized segment from the platform.
func (c *Input) HandleSegment(text string, final bool) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	if final {
		c.transcript.WriteString(text)
		c.interim = ""
	} else {
		c.interim = text
	}
	onInterim := c.onInterim
	interim := c.interim
	c.mu.Unlock()

	if !final && onInterim != nil {
		onInterim(interim)
	}
}

// HandleEnded ingests the platform's termination event and fires the end
// callback with the accumulated transcript.
func (c *Input) HandleEnded(class ErrorClass) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	transcript := c.transcript.String()
	c.interim = ""
	onEnd := c.onEnd
	c.mu.Unlock()

	if onEnd != nil {
		onEnd(transcript, class)
	}
}
