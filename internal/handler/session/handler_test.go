package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	catalogModel "github.com/veronavoice/concierge/backend/internal/model/catalog"
	"github.com/veronavoice/concierge/backend/internal/model/intent"
	cartService "github.com/veronavoice/concierge/backend/internal/service/cart"
	"github.com/veronavoice/concierge/backend/internal/service/dispatch"
	"github.com/veronavoice/concierge/backend/internal/service/orchestrator"
	"github.com/veronavoice/concierge/backend/internal/service/speech"
)

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	products, faqs := catalogModel.Seed()
	store := catalogModel.NewStore(products, faqs)
	cartSvc := cartService.NewService(store)

	input := speech.NewInput()
	output := speech.NewOutput()
	notifier := orchestrator.NewNotifier()
	dispatcher := dispatch.New(store, cartSvc, func(path string) {
		notifier.Publish(orchestrator.Event{Type: orchestrator.EventNavigate, Path: path})
	})

	// No resolver configured: every turn resolves to the fallback reply,
	// which is enough to exercise the transport.
	orch := orchestrator.New(orchestrator.Deps{
		Input:      input,
		Output:     output,
		Resolver:   nil,
		Dispatcher: dispatcher,
		Catalog:    store,
		Notifier:   notifier,
		CartCount:  cartSvc.Count,
		AgentName:  "Luca",
		StoreName:  "Verona Voice",
	})

	ctx, cancel := context.WithCancel(context.Background())
	go orch.Run(ctx)
	t.Cleanup(cancel)

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		New(orch, input, output, notifier).RegisterRoutes(api)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/concierge/ws"
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEnvelope(t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()
	msg := map[string]any{"type": msgType, "timestamp": time.Now().Unix()}
	if data != nil {
		msg["data"] = data
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readUntil reads envelopes until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) envelope {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read while waiting for %s: %v", msgType, err)
		}
		if env.Type == msgType {
			return env
		}
	}
	t.Fatalf("timed out waiting for %s", msgType)
	return envelope{}
}

func TestSecondConnectionRejected(t *testing.T) {
	srv := setupServer(t)
	dial(t, srv)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err == nil {
		t.Fatal("second dial succeeded, want rejection")
	}
	if resp == nil || resp.StatusCode != http.StatusConflict {
		t.Fatalf("second dial response = %+v, want 409", resp)
	}
}

func TestHelloReportsClosedState(t *testing.T) {
	srv := setupServer(t)
	conn := dial(t, srv)

	sendEnvelope(t, conn, "hello", map[string]bool{"speechInput": true, "speechOutput": true})

	env := readUntil(t, conn, "state")
	var state statePayload
	if err := json.Unmarshal(env.Data, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.State != "closed" {
		t.Fatalf("state = %q, want closed", state.State)
	}
}

func TestOpenThroughFallbackTurn(t *testing.T) {
	srv := setupServer(t)
	conn := dial(t, srv)

	sendEnvelope(t, conn, "hello", map[string]bool{"speechInput": true, "speechOutput": true})
	readUntil(t, conn, "state")

	sendEnvelope(t, conn, "open", nil)

	env := readUntil(t, conn, "speak")
	var speak speakPayload
	if err := json.Unmarshal(env.Data, &speak); err != nil {
		t.Fatalf("decode speak: %v", err)
	}
	if !strings.HasPrefix(speak.Text, "Welcome to Verona Voice") {
		t.Fatalf("welcome = %q", speak.Text)
	}

	sendEnvelope(t, conn, "speech_done", map[string]string{"utteranceId": speak.UtteranceID})
	readUntil(t, conn, "capture_start")

	sendEnvelope(t, conn, "segment", map[string]any{"text": "do you ship internationally", "isFinal": true})
	sendEnvelope(t, conn, "capture_ended", map[string]string{"error": ""})

	env = readUntil(t, conn, "speak")
	if err := json.Unmarshal(env.Data, &speak); err != nil {
		t.Fatalf("decode speak: %v", err)
	}
	if speak.Text != intent.FallbackMessage {
		t.Fatalf("turn reply = %q, want fallback", speak.Text)
	}
}

func TestUnsupportedEnvelopeType(t *testing.T) {
	srv := setupServer(t)
	conn := dial(t, srv)

	sendEnvelope(t, conn, "bogus", nil)

	env := readUntil(t, conn, "error")
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if !strings.Contains(payload.Message, "bogus") {
		t.Fatalf("error message = %q", payload.Message)
	}
}

func TestDecodeCaptureEndedEmptyData(t *testing.T) {
	payload, err := decodeCaptureEnded(nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error != "" {
		t.Fatalf("error = %q, want empty", payload.Error)
	}
}
