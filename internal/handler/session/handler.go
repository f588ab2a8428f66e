package session

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/veronavoice/concierge/backend/internal/service/orchestrator"
	"github.com/veronavoice/concierge/backend/internal/service/speech"
	"github.com/veronavoice/concierge/backend/pkg/utils"
)

// Handler owns the single concierge WebSocket connection. The browser is
// the speech platform: it captures and plays audio with its own engine
// and exchanges transcripts and utterance commands with the turn loop
// over this connection.
type Handler struct {
	orch     *orchestrator.Orchestrator
	input    *speech.Input
	output   *speech.Output
	notifier *orchestrator.Notifier
	upgrader websocket.Upgrader

	mu     sync.Mutex
	active bool
}

// New creates the session handler.
func New(orch *orchestrator.Orchestrator, input *speech.Input, output *speech.Output, notifier *orchestrator.Notifier) *Handler {
	return &Handler{
		orch:     orch,
		input:    input,
		output:   output,
		notifier: notifier,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the concierge WebSocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/concierge/ws", h.handleWebSocket)
}

func (h *Handler) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active {
		return false
	}
	h.active = true
	return true
}

func (h *Handler) release() {
	h.mu.Lock()
	h.active = false
	h.mu.Unlock()
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// One client at a time: the turn loop has exactly one microphone and
	// one voice.
	if !h.acquire() {
		utils.RespondError(w, http.StatusConflict, "concierge session already connected")
		return
	}
	defer h.release()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[session] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[session] client connected from %s", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := newClient(conn)
	defer func() {
		// The platform is gone: stop the session and detach so the
		// controllers report unsupported until the next client arrives.
		h.orch.Close()
		h.input.Detach()
		h.output.Detach()
		log.Printf("[session] client disconnected")
	}()

	events, cancelSub := h.notifier.Subscribe()
	defer cancelSub()
	go h.forwardEvents(ctx, client, events)
	go h.pingLoop(ctx, client)

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[session] read error: %v", err)
				}
				return
			}
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			h.handleMessage(client, &msg)
		}
	}
}

func (h *Handler) handleMessage(client *client, msg *inboundMessage) {
	switch msg.Type {
	case typeHello:
		h.handleHello(client, msg.Data)
	case typeOpen:
		h.orch.Open()
	case typeClose:
		h.orch.Close()
	case typeToggleMic:
		h.orch.ToggleCapture()
	case typeSegment:
		payload, err := decodeSegment(msg.Data)
		if err != nil {
			client.sendError("invalid segment payload")
			return
		}
		h.input.HandleSegment(payload.Text, payload.IsFinal)
	case typeCaptureEnded:
		payload, err := decodeCaptureEnded(msg.Data)
		if err != nil {
			client.sendError("invalid capture_ended payload")
			return
		}
		h.input.HandleEnded(speech.ClassifyError(payload.Error))
	case typeSpeechDone:
		payload, err := decodeSpeechDone(msg.Data)
		if err != nil {
			client.sendError("invalid speech_done payload")
			return
		}
		h.output.HandleDone(payload.UtteranceID, payload.Error)
	case typeText:
		payload, err := decodeText(msg.Data)
		if err != nil {
			client.sendError("invalid text payload")
			return
		}
		h.orch.SubmitText(payload.Text)
	default:
		client.sendError("unsupported message type: " + msg.Type)
	}
}

// handleHello attaches the client's speech capabilities and replays the
// retained transcript so a reconnecting client sees the conversation.
func (h *Handler) handleHello(client *client, raw []byte) {
	payload, err := decodeHello(raw)
	if err != nil {
		client.sendError("invalid hello payload")
		return
	}

	h.input.Attach(client, payload.SpeechInput)
	h.output.Attach(client, payload.SpeechOutput)
	log.Printf("[session] hello input=%t output=%t", payload.SpeechInput, payload.SpeechOutput)

	for _, msg := range h.orch.History() {
		client.send(typeMessage, msg)
	}
	client.send(typeState, statePayload{State: h.orch.State().String()})
}

func (h *Handler) forwardEvents(ctx context.Context, client *client, events <-chan orchestrator.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case orchestrator.EventMessage:
				client.send(typeMessage, ev.Message)
			case orchestrator.EventState:
				client.send(typeState, statePayload{State: ev.State})
			case orchestrator.EventNavigate:
				client.send(typeNavigate, navigatePayload{Path: ev.Path})
			case orchestrator.EventCart:
				client.send(typeCart, cartPayload{Count: ev.CartCount})
			}
		}
	}
}

func (h *Handler) pingLoop(ctx context.Context, client *client) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.ping(); err != nil {
				return
			}
		}
	}
}
