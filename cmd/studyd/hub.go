package main

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gofiber/contrib/websocket"
)

type event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// hub fans engine events out to connected dashboard clients. A client that
// fails a write is dropped; it reconnects and resyncs from a snapshot.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	l     log.Logger
}

func newHub(logger log.Logger) *hub {
	return &hub{
		conns: make(map[*websocket.Conn]struct{}),
		l:     logger,
	}
}

func (h *hub) Handle(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	h.l.Debug("ui client connected", "remote", c.RemoteAddr().String())

	defer func() {
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
		_ = c.Close()
		h.l.Debug("ui client disconnected", "remote", c.RemoteAddr().String())
	}()

	// clients only listen; drain incoming frames until disconnect
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *hub) broadcast(ev event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteJSON(ev); err != nil {
			h.l.Debug("dropping ui client", "err", err)
			_ = c.Close()
			delete(h.conns, c)
		}
	}
}

func (h *hub) Toast(message, kind string) {
	h.broadcast(event{Type: "toast", Payload: map[string]string{"message": message, "kind": kind}})
}

func (h *hub) SoundCue(soundID string) {
	h.broadcast(event{Type: "sound", Payload: map[string]string{"soundId": soundID}})
}

func (h *hub) PushSnapshot(s snapshot) {
	h.broadcast(event{Type: "snapshot", Payload: s})
}
