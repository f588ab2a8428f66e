package session

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// client wraps the WebSocket connection and implements the speech
// platform: capture and playback commands become envelopes the browser
// executes with its own speech engine. gorilla/websocket allows one
// concurrent writer, so every write serializes through mu.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn}
}

// StartCapture asks the browser to start speech recognition.
func (c *client) StartCapture() error {
	return c.send(typeCaptureStart, nil)
}

// StopCapture asks the browser to stop recognition gracefully; the
// client answers with capture_ended once the final transcript is in.
func (c *client) StopCapture() {
	_ = c.send(typeCaptureStop, nil)
}

// Speak asks the browser to play an utterance; the client answers with
// speech_done carrying the same utterance ID.
func (c *client) Speak(utteranceID, text string) error {
	return c.send(typeSpeak, speakPayload{UtteranceID: utteranceID, Text: text})
}

// CancelSpeech silences the browser immediately. No speech_done follows.
func (c *client) CancelSpeech() {
	_ = c.send(typeCancelSpeech, nil)
}

func (c *client) send(msgType string, data interface{}) error {
	msg := outgoingMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Printf("[session] write %s failed: %v", msgType, err)
		return err
	}
	return nil
}

func (c *client) sendError(message string) {
	_ = c.send(typeError, map[string]string{"message": message})
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}
