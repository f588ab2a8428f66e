package orchestrator

import (
	"github.com/veronavoice/concierge/backend/internal/model/intent"
	"github.com/veronavoice/concierge/backend/internal/service/speech"
)

// utterancePurpose records which spoken line a completion event belongs
// to, since each purpose resumes the turn loop differently.
type utterancePurpose int

const (
	purposeWelcome utterancePurpose = iota
	purposeApology
	purposeTurn
)

// Every piece of work reaches the turn loop as one of these events,
// delivered on a single ordered channel and handled by one goroutine.
type event interface{ isEvent() }

type openEvent struct{}

type closeEvent struct{}

type toggleMicEvent struct{}

type clearHistoryEvent struct{}

// textEvent is a typed utterance from the host UI, bypassing capture.
type textEvent struct {
	text string
}

// captureEndedEvent is the microphone session's termination.
type captureEndedEvent struct {
	transcript string
	class      speech.ErrorClass
}

// speechDoneEvent is an utterance completion (natural or by playback
// error; never after an explicit cancel).
type speechDoneEvent struct {
	purpose utterancePurpose
}

// resolvedEvent carries the resolver's outcome for the turn it was issued
// for. Results whose turn token is stale are discarded.
type resolvedEvent struct {
	turn uint64
	resp intent.Response
}

func (openEvent) isEvent()         {}
func (closeEvent) isEvent()        {}
func (toggleMicEvent) isEvent()    {}
func (clearHistoryEvent) isEvent() {}
func (textEvent) isEvent()         {}
func (captureEndedEvent) isEvent() {}
func (speechDoneEvent) isEvent()   {}
func (resolvedEvent) isEvent()     {}
