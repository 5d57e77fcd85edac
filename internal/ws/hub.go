package ws

import (
	"context"
	"encoding/json"
)

// SignalMessage is the relay envelope. Payload is opaque: the relay never
// inspects SDP or ICE contents, it only stamps the sender and forwards.
type SignalMessage struct {
	Type    string          `json:"type"`
	From    string          `json:"from"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Relay event types emitted by the hub itself.
const (
	TypePeerJoined = "peer-joined"
	TypePeerLeft   = "peer-left"
)

type relayRequest struct {
	sender *Peer
	data   []byte
}

// Hub relays signaling messages between the peers of a room.
// Delivery is best effort: if a peer's send buffer is full the message is
// dropped and the peer disconnected, there is no queueing or retry.
type Hub struct {
	registry RoomRegistry

	register   chan *Peer
	unregister chan *Peer
	relay      chan *relayRequest

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a new Hub over the given room registry
func NewHub(registry RoomRegistry) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		registry:   registry,
		register:   make(chan *Peer),
		unregister: make(chan *Peer),
		relay:      make(chan *relayRequest, 256),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Register adds a peer to the hub
func (h *Hub) Register(peer *Peer) {
	h.register <- peer
}

// Unregister removes a peer from the hub
func (h *Hub) Unregister(peer *Peer) {
	h.unregister <- peer
}

// Relay forwards a raw client message to the sender's room
func (h *Hub) Relay(sender *Peer, data []byte) {
	select {
	case h.relay <- &relayRequest{sender: sender, data: data}:
	default:
		// Relay backlog full: drop, same policy as a slow peer.
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case peer := <-h.register:
			h.registry.Join(peer.roomID, peer)
			h.announce(peer, TypePeerJoined)

		case peer := <-h.unregister:
			if _, ok := h.registry.Leave(peer); ok {
				close(peer.send)
				h.announce(peer, TypePeerLeft)
			}

		case req := <-h.relay:
			h.dispatch(req.sender, req.data)

		case <-h.ctx.Done():
			return
		}
	}
}

// Shutdown stops the hub loop
func (h *Hub) Shutdown() {
	h.cancel()
}

// announce tells the other members of a peer's room that it came or went.
func (h *Hub) announce(peer *Peer, eventType string) {
	data, err := json.Marshal(&SignalMessage{Type: eventType, From: peer.id})
	if err != nil {
		return
	}
	h.send(peer, data)
}

// dispatch re-stamps a client message with the sender id and forwards it to
// every other peer in the sender's room.
func (h *Hub) dispatch(sender *Peer, data []byte) {
	var msg SignalMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return // malformed frames are dropped silently
	}
	msg.From = sender.id

	stamped, err := json.Marshal(&msg)
	if err != nil {
		return
	}
	h.send(sender, stamped)
}

// send delivers data to every peer in sender's room except the sender.
func (h *Hub) send(sender *Peer, data []byte) {
	for _, peer := range h.registry.Peers(sender.roomID) {
		if peer == sender {
			continue
		}
		select {
		case peer.send <- data:
		default:
			// Slow consumer: drop it rather than block the room.
			h.registry.Leave(peer)
			close(peer.send)
		}
	}
}
