package speech_test

import (
	"errors"
	"testing"

	"github.com/veronavoice/concierge/backend/internal/service/speech"
)

type fakePlayback struct {
	spoken   []string
	ids      []string
	cancels  int
	speakErr error
}

func (f *fakePlayback) Speak(utteranceID, text string) error {
	f.ids = append(f.ids, utteranceID)
	f.spoken = append(f.spoken, text)
	return f.speakErr
}

func (f *fakePlayback) CancelSpeech() { f.cancels++ }

func TestOutputCompletionFiresOnce(t *testing.T) {
	playback := &fakePlayback{}
	out := speech.NewOutput()
	out.Attach(playback, true)

	done := 0
	id, err := out.Speak("Welcome!", func() { done++ })
	if err != nil {
		t.Fatalf("Speak err: %v", err)
	}

	out.HandleDone(id, "")
	out.HandleDone(id, "")

	if done != 1 {
		t.Fatalf("completion should fire exactly once, got %d", done)
	}
	if out.Speaking() {
		t.Fatal("utterance should no longer be active")
	}
}

func TestOutputPlaybackErrorStillCompletes(t *testing.T) {
	playback := &fakePlayback{}
	out := speech.NewOutput()
	out.Attach(playback, true)

	done := 0
	id, _ := out.Speak("Hello", func() { done++ })
	out.HandleDone(id, "synthesis-failed")

	if done != 1 {
		t.Fatalf("playback error must still complete, got %d", done)
	}
}

func TestOutputSpeakCancelsPreviousUtterance(t *testing.T) {
	playback := &fakePlayback{}
	out := speech.NewOutput()
	out.Attach(playback, true)

	firstDone := 0
	firstID, _ := out.Speak("first", func() { firstDone++ })
	secondDone := 0
	secondID, _ := out.Speak("second", func() { secondDone++ })

	if playback.cancels != 1 {
		t.Fatalf("expected one cancel, got %d", playback.cancels)
	}

	// A late completion for the superseded utterance is ignored.
	out.HandleDone(firstID, "")
	if firstDone != 0 {
		t.Fatal("superseded utterance completion must be dropped")
	}

	out.HandleDone(secondID, "")
	if secondDone != 1 {
		t.Fatalf("active utterance should complete, got %d", secondDone)
	}
}

func TestOutputCancelDropsCompletion(t *testing.T) {
	playback := &fakePlayback{}
	out := speech.NewOutput()
	out.Attach(playback, true)

	done := 0
	id, _ := out.Speak("cancel me", func() { done++ })
	out.Cancel()
	out.HandleDone(id, "")

	if done != 0 {
		t.Fatalf("completion after explicit cancel must not fire, got %d", done)
	}
	if playback.cancels != 1 {
		t.Fatalf("expected one platform cancel, got %d", playback.cancels)
	}
}

func TestOutputUnsupported(t *testing.T) {
	out := speech.NewOutput()
	if _, err := out.Speak("hi", nil); !errors.Is(err, speech.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestOutputSendFailureCompletesImmediately(t *testing.T) {
	playback := &fakePlayback{speakErr: errors.New("conn gone")}
	out := speech.NewOutput()
	out.Attach(playback, true)

	done := 0
	if _, err := out.Speak("hi", func() { done++ }); err != nil {
		t.Fatalf("Speak err: %v", err)
	}
	if done != 1 {
		t.Fatalf("send failure must complete the utterance, got %d", done)
	}
}
