package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// SDP offers run to a few KB.
	maxMessageSize = 16 * 1024
)

// Peer represents a single WebSocket connection inside a room
type Peer struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	id     string
	roomID string
}

// NewPeer creates a new signaling peer
func NewPeer(hub *Hub, conn *websocket.Conn, id, roomID string) *Peer {
	return &Peer{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		id:     id,
		roomID: roomID,
	}
}

// ID returns the peer's relay id
func (p *Peer) ID() string { return p.id }

// ReadPump reads client frames and hands them to the hub for relay
func (p *Peer) ReadPump() {
	defer func() {
		p.hub.Unregister(p)
		p.conn.Close()
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			break
		}
		p.hub.Relay(p, data)
	}
}

// WritePump sends relayed messages to the WebSocket
func (p *Peer) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case message, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}

			w, err := p.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message) //nolint:errcheck
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
