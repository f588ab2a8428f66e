package speech_test

import (
	"errors"
	"testing"

	"github.com/veronavoice/concierge/backend/internal/service/speech"
)

type fakeCapture struct {
	starts   int
	stops    int
	startErr error
}

func (f *fakeCapture) StartCapture() error { f.starts++; return f.startErr }
func (f *fakeCapture) StopCapture()        { f.stops++ }

func TestInputAccumulatesFinalOverwritesInterim(t *testing.T) {
	capture := &fakeCapture{}
	in := speech.NewInput()
	in.Attach(capture, true)
	in.Start()

	in.HandleSegment("add the ", false)
	in.HandleSegment("add the black", false)
	if in.Interim() != "add the black" {
		t.Fatalf("interim should overwrite, got %q", in.Interim())
	}

	in.HandleSegment("add the black dress ", true)
	in.HandleSegment("to my cart", true)
	if in.Transcript() != "add the black dress to my cart" {
		t.Fatalf("final segments should accumulate, got %q", in.Transcript())
	}
	if in.Interim() != "" {
		t.Fatalf("final segment should clear interim, got %q", in.Interim())
	}
}

func TestInputStartWhileActiveIsSilentNoop(t *testing.T) {
	capture := &fakeCapture{}
	in := speech.NewInput()
	in.Attach(capture, true)

	in.Start()
	in.HandleSegment("hello", true)
	in.Start()

	if capture.starts != 1 {
		t.Fatalf("expected one capture start, got %d", capture.starts)
	}
	if in.Transcript() != "hello" {
		t.Fatalf("second start must not reset an active session, got %q", in.Transcript())
	}
}

func TestInputEndDeliversTranscriptAndClass(t *testing.T) {
	capture := &fakeCapture{}
	in := speech.NewInput()
	in.Attach(capture, true)

	var gotText string
	var gotClass speech.ErrorClass
	ends := 0
	in.SetHandlers(func(text string, class speech.ErrorClass) {
		ends++
		gotText = text
		gotClass = class
	}, nil)

	in.Start()
	in.HandleSegment("show me dresses", true)
	in.Stop()
	in.HandleEnded(speech.ClassNone)
	in.HandleEnded(speech.ClassNone) // duplicate termination is ignored

	if ends != 1 {
		t.Fatalf("expected exactly one end callback, got %d", ends)
	}
	if gotText != "show me dresses" || gotClass != speech.ClassNone {
		t.Fatalf("unexpected end payload: %q %q", gotText, gotClass)
	}
	if capture.stops != 1 {
		t.Fatalf("expected one platform stop, got %d", capture.stops)
	}
}

func TestInputUnsupportedStartIsNoop(t *testing.T) {
	in := speech.NewInput()
	in.Start()
	if in.Active() {
		t.Fatal("unsupported controller must not activate")
	}
}

func TestInputStartFailureEndsSession(t *testing.T) {
	capture := &fakeCapture{startErr: errors.New("mic busy")}
	in := speech.NewInput()
	in.Attach(capture, true)

	var gotClass speech.ErrorClass
	in.SetHandlers(func(_ string, class speech.ErrorClass) { gotClass = class }, nil)

	in.Start()
	if in.Active() {
		t.Fatal("failed start must not stay active")
	}
	if gotClass != speech.ClassGeneric {
		t.Fatalf("expected generic class, got %q", gotClass)
	}
}

func TestInputAbortDiscardsWithoutCallback(t *testing.T) {
	capture := &fakeCapture{}
	in := speech.NewInput()
	in.Attach(capture, true)

	ends := 0
	in.SetHandlers(func(string, speech.ErrorClass) { ends++ }, nil)

	in.Start()
	in.HandleSegment("half a thought", true)
	in.Abort()

	if ends != 0 {
		t.Fatalf("abort must not fire the end callback, got %d", ends)
	}
	if in.Transcript() != "" {
		t.Fatalf("abort must discard the transcript, got %q", in.Transcript())
	}
}

func TestClassifyError(t *testing.T) {
	cases := map[string]speech.ErrorClass{
		"":                       speech.ClassNone,
		"no-speech":              speech.ClassNoSpeech,
		"not-allowed":            speech.ClassPermissionDenied,
		"service-not-allowed":    speech.ClassPermissionDenied,
		"audio-capture":          speech.ClassDeviceUnavailable,
		"network":                speech.ClassNetwork,
		"language-not-supported": speech.ClassUnsupportedLanguage,
		"something-else":         speech.ClassGeneric,
	}
	for code, want := range cases {
		if got := speech.ClassifyError(code); got != want {
			t.Fatalf("ClassifyError(%q) = %q, want %q", code, got, want)
		}
	}
	if !speech.ClassNoSpeech.Soft() {
		t.Fatal("no-speech must be soft")
	}
	if speech.ClassNetwork.Soft() {
		t.Fatal("network must not be soft")
	}
}
