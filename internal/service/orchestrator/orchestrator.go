package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veronavoice/concierge/backend/internal/model/catalog"
	"github.com/veronavoice/concierge/backend/internal/model/chat"
	"github.com/veronavoice/concierge/backend/internal/model/intent"
	"github.com/veronavoice/concierge/backend/internal/service/resolver"
	"github.com/veronavoice/concierge/backend/internal/service/speech"
)

// Fixed spoken lines. The welcome line is derived from the configured
// store and agent names.
const (
	apologyText    = "I didn't catch that. Could you please speak again?"
	noCaptureText  = "Sorry, voice input is not supported on your current browser. Please try Chrome or Edge."
	noPlaybackText = "Sorry, speech output is not supported on your current browser. Please try Chrome or Edge."
)

// Persistent status lines for hard capture failures. These are reported
// once and the capture controls stay disabled; no automatic retry.
const (
	permissionDeniedText  = "Microphone access denied. Please enable microphone permissions in browser settings."
	deviceUnavailableText = "Microphone not available. Ensure it's connected and not in use by another app."
	captureFailedText     = "Something went wrong with voice capture. Please try again."
)

// resolveTimeout bounds one language-model resolution.
const resolveTimeout = 30 * time.Second

// Resolver turns an utterance plus cross-turn context into an intent.
// Implementations never fail; bad outcomes are the Error variant.
type Resolver interface {
	Resolve(ctx context.Context, utterance string, conv resolver.Context) intent.Response
}

// Dispatcher executes a resolved intent and returns the line to speak.
type Dispatcher interface {
	Dispatch(resp intent.Response) string
}

// Deps collects the orchestrator's collaborators.
type Deps struct {
	Input      *speech.Input
	Output     *speech.Output
	Resolver   Resolver
	Dispatcher Dispatcher
	Catalog    *catalog.Store
	Notifier   *Notifier
	CartCount  func() int
	AgentName  string
	StoreName  string
}

// Orchestrator is the turn-taking state machine. It exclusively owns the
// session state, the conversation history and the cross-turn context;
// every stimulus is serialized through one event channel consumed by one
// goroutine, so no turn's events interleave with another's.
type Orchestrator struct {
	input      *speech.Input
	output     *speech.Output
	resolver   Resolver
	dispatcher Dispatcher
	catalog    *catalog.Store
	notifier   *Notifier
	cartCount  func() int

	welcomeText string
	events      chan event

	// Guards the fields the rendering layer reads while the loop writes.
	mu              sync.RWMutex
	state           SessionState
	history         []chat.Message
	lastRecommended []string
	lastTimestamp   time.Time

	// Loop-owned, never read outside the loop goroutine.
	turn               uint64
	welcomeSpoken      bool
	welcomeLogged      bool
	capabilityNotified bool
}

// New wires an orchestrator and subscribes it to the input controller's
// termination events. Call Run to start the turn loop.
func New(deps Deps) *Orchestrator {
	o := &Orchestrator{
		input:      deps.Input,
		output:     deps.Output,
		resolver:   deps.Resolver,
		dispatcher: deps.Dispatcher,
		catalog:    deps.Catalog,
		notifier:   deps.Notifier,
		cartCount:  deps.CartCount,
		welcomeText: fmt.Sprintf(
			"Welcome to %s. I'm %s, your concierge for effortless shopping. How may I assist you?",
			deps.StoreName, deps.AgentName,
		),
		events: make(chan event, 64),
		state:  StateClosed,
	}

	o.input.SetHandlers(func(transcript string, class speech.ErrorClass) {
		o.post(captureEndedEvent{transcript: transcript, class: class})
	}, nil)

	return o
}

// Run consumes the event channel until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-o.events:
			o.handle(ctx, ev)
		}
	}
}

// Open starts (or resumes) the conversational session.
func (o *Orchestrator) Open() { o.post(openEvent{}) }

// Close ends the session. Idempotent; history is retained for reopen.
func (o *Orchestrator) Close() { o.post(closeEvent{}) }

// ToggleCapture flips the microphone: stop when listening, start when
// idle or while the agent is speaking (cancelling the speech).
func (o *Orchestrator) ToggleCapture() { o.post(toggleMicEvent{}) }

// SubmitText feeds a typed utterance into the turn loop, bypassing
// capture.
func (o *Orchestrator) SubmitText(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	o.post(textEvent{text: text})
}

// ClearHistory discards the retained transcript.
func (o *Orchestrator) ClearHistory() { o.post(clearHistoryEvent{}) }

// State returns the current session state.
func (o *Orchestrator) State() SessionState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// History returns a copy of the conversation transcript.
func (o *Orchestrator) History() []chat.Message {
	o.mu.RLock()
	defer o.mu.RUnlock()
	copied := make([]chat.Message, len(o.history))
	copy(copied, o.history)
	return copied
}

// LastRecommendedProductIDs returns a copy of the cross-turn context.
func (o *Orchestrator) LastRecommendedProductIDs() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]string(nil), o.lastRecommended...)
}

func (o *Orchestrator) post(ev event) {
	select {
	case o.events <- ev:
	default:
		log.Printf("[orchestrator] event channel full, dropping %T", ev)
	}
}

func (o *Orchestrator) handle(ctx context.Context, ev event) {
	switch ev := ev.(type) {
	case openEvent:
		o.handleOpen()
	case closeEvent:
		o.handleClose()
	case toggleMicEvent:
		o.handleToggleMic()
	case textEvent:
		o.handleText(ctx, ev.text)
	case captureEndedEvent:
		o.handleCaptureEnded(ctx, ev)
	case speechDoneEvent:
		o.handleSpeechDone(ev.purpose)
	case resolvedEvent:
		o.handleResolved(ev)
	case clearHistoryEvent:
		o.mu.Lock()
		o.history = nil
		o.mu.Unlock()
		o.welcomeLogged = false
	}
}

func (o *Orchestrator) handleOpen() {
	if o.State() != StateClosed {
		log.Printf("[orchestrator] open ignored in state %s", o.State())
		return
	}

	if !o.input.Supported() || !o.output.Supported() {
		if !o.capabilityNotified {
			o.capabilityNotified = true
			text := noCaptureText
			if o.input.Supported() {
				text = noPlaybackText
			}
			o.appendMessage(chat.SenderAgent, text)
		}
		return
	}

	o.setState(StateAwaitingWelcome)
	if !o.welcomeLogged {
		o.welcomeLogged = true
		o.appendMessage(chat.SenderAgent, o.welcomeText)
	}
	o.speak(o.welcomeText, purposeWelcome)
}

func (o *Orchestrator) handleClose() {
	if o.State() == StateClosed {
		return
	}

	o.input.Abort()
	o.output.Cancel()
	o.turn++ // invalidates any in-flight resolution

	o.mu.Lock()
	o.lastRecommended = nil
	o.mu.Unlock()
	o.welcomeSpoken = false
	o.capabilityNotified = false

	o.setState(StateClosed)
}

func (o *Orchestrator) handleToggleMic() {
	switch o.State() {
	case StateClosed, StateThinking:
		// Capture controls are disabled while closed or resolving.
		return
	case StateListening:
		o.output.Cancel()
		o.input.Stop()
		// The termination event decides the next state: a non-empty
		// transcript still becomes a turn.
	default:
		o.output.Cancel()
		if !o.input.Supported() {
			if !o.capabilityNotified {
				o.capabilityNotified = true
				o.appendMessage(chat.SenderAgent, noCaptureText)
			}
			return
		}
		o.input.Reset()
		o.startListening()
	}
}

func (o *Orchestrator) handleText(ctx context.Context, text string) {
	switch o.State() {
	case StateClosed, StateThinking:
		return
	}
	o.output.Cancel()
	o.input.Abort()
	o.beginTurn(ctx, strings.TrimSpace(text))
}

func (o *Orchestrator) handleCaptureEnded(ctx context.Context, ev captureEndedEvent) {
	if o.State() != StateListening {
		log.Printf("[orchestrator] capture end ignored in state %s", o.State())
		return
	}

	transcript := strings.TrimSpace(ev.transcript)
	switch {
	case transcript != "":
		o.beginTurn(ctx, transcript)
	case ev.class.Soft():
		o.appendMessage(chat.SenderAgent, apologyText)
		o.setState(StateSpeaking)
		o.speak(apologyText, purposeApology)
	case ev.class == speech.ClassNone:
		// Nothing said, mic toggled off: open-but-idle pause.
		o.setState(StateAwaitingWelcome)
	default:
		o.appendMessage(chat.SenderAgent, captureStatusText(ev.class))
		o.setState(StateAwaitingWelcome)
	}
}

// beginTurn appends the user message and enters Thinking with a fresh
// turn token; the resolver runs off-loop and posts its result back.
func (o *Orchestrator) beginTurn(ctx context.Context, utterance string) {
	o.appendMessage(chat.SenderUser, utterance)
	o.setState(StateThinking)

	o.turn++
	turn := o.turn
	conv := resolver.Context{LastRecommendedProductIDs: o.LastRecommendedProductIDs()}

	go func() {
		resp := intent.Fallback()
		if o.resolver != nil {
			resolveCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
			defer cancel()
			resp = o.resolver.Resolve(resolveCtx, utterance, conv)
		} else {
			log.Printf("[orchestrator] resolver unavailable, falling back")
		}
		o.post(resolvedEvent{turn: turn, resp: resp})
	}()
}

func (o *Orchestrator) handleResolved(ev resolvedEvent) {
	if o.State() != StateThinking || ev.turn != o.turn {
		log.Printf("[orchestrator] discarding stale resolution turn=%d current=%d state=%s", ev.turn, o.turn, o.State())
		return
	}

	// Context is updated strictly before the Speaking transition so the
	// spoken text and the stored context stay mutually consistent.
	o.updateContext(ev.resp)

	spoken := intent.FallbackMessage
	if o.dispatcher != nil {
		spoken = o.dispatcher.Dispatch(ev.resp)
	}
	o.appendMessage(chat.SenderAgent, spoken)

	if o.cartCount != nil {
		o.publish(Event{Type: EventCart, CartCount: o.cartCount()})
	}

	o.setState(StateSpeaking)
	o.speak(spoken, purposeTurn)
}

func (o *Orchestrator) handleSpeechDone(purpose utterancePurpose) {
	switch purpose {
	case purposeWelcome:
		if o.State() != StateAwaitingWelcome {
			return
		}
		o.welcomeSpoken = true
		o.startListening()
	case purposeApology, purposeTurn:
		if o.State() != StateSpeaking {
			return
		}
		o.startListening()
	}
}

// updateContext overwrites (never merges) the cross-turn reference list
// when a recommendation turn yields at least one id present in the
// catalog. Otherwise the previous context persists for the next turn.
func (o *Orchestrator) updateContext(resp intent.Response) {
	if resp.Intent != intent.GetProductRecommendation {
		return
	}
	for _, id := range resp.SuggestedProductIDs {
		if o.catalog != nil && o.catalog.HasProduct(id) {
			o.mu.Lock()
			o.lastRecommended = append([]string(nil), resp.SuggestedProductIDs...)
			o.mu.Unlock()
			return
		}
	}
}

func (o *Orchestrator) startListening() {
	o.setState(StateListening)
	o.input.Start()
}

func (o *Orchestrator) speak(text string, purpose utterancePurpose) {
	_, err := o.output.Speak(text, func() {
		o.post(speechDoneEvent{purpose: purpose})
	})
	if err != nil {
		// Playback is gone; complete the turn anyway so the loop never
		// stalls.
		log.Printf("[orchestrator] speak failed: %v", err)
		o.post(speechDoneEvent{purpose: purpose})
	}
}

// appendMessage adds one message to the append-only history with a
// strictly increasing timestamp.
func (o *Orchestrator) appendMessage(sender, text string) {
	o.mu.Lock()
	now := time.Now().UTC()
	if !now.After(o.lastTimestamp) {
		now = o.lastTimestamp.Add(time.Microsecond)
	}
	o.lastTimestamp = now
	msg := chat.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: now,
	}
	o.history = append(o.history, msg)
	o.mu.Unlock()

	o.publish(Event{Type: EventMessage, Message: &msg})
}

func (o *Orchestrator) setState(next SessionState) {
	o.mu.Lock()
	prev := o.state
	o.state = next
	o.mu.Unlock()

	if prev != next {
		log.Printf("[orchestrator] state %s -> %s", prev, next)
		o.publish(Event{Type: EventState, State: next.String()})
	}
}

func (o *Orchestrator) publish(ev Event) {
	if o.notifier != nil {
		o.notifier.Publish(ev)
	}
}

func captureStatusText(class speech.ErrorClass) string {
	switch class {
	case speech.ClassPermissionDenied:
		return permissionDeniedText
	case speech.ClassDeviceUnavailable:
		return deviceUnavailableText
	default:
		return captureFailedText
	}
}
