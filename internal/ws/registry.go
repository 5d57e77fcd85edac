package ws

import "sync"

// RoomRegistry tracks which room each connected peer belongs to.
// It is an explicit dependency of the Hub, not package state, so the relay
// can be tested in isolation and the registry swapped out if room state ever
// needs to live elsewhere.
type RoomRegistry interface {
	// Join adds a peer to a room
	Join(roomID string, peer *Peer)

	// Leave removes a peer; returns the room it was in
	Leave(peer *Peer) (roomID string, ok bool)

	// Peers returns the current members of a room
	Peers(roomID string) []*Peer

	// Rooms returns the number of non-empty rooms
	Rooms() int
}

type memoryRegistry struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Peer]bool
	byPeer map[*Peer]string
}

// NewMemoryRegistry creates an in-memory RoomRegistry
func NewMemoryRegistry() RoomRegistry {
	return &memoryRegistry{
		rooms:  make(map[string]map[*Peer]bool),
		byPeer: make(map[*Peer]string),
	}
}

func (r *memoryRegistry) Join(roomID string, peer *Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[*Peer]bool)
	}
	r.rooms[roomID][peer] = true
	r.byPeer[peer] = roomID
}

func (r *memoryRegistry) Leave(peer *Peer) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.byPeer[peer]
	if !ok {
		return "", false
	}
	delete(r.byPeer, peer)

	if peers, ok := r.rooms[roomID]; ok {
		delete(peers, peer)
		if len(peers) == 0 {
			delete(r.rooms, roomID)
		}
	}
	return roomID, true
}

func (r *memoryRegistry) Peers(roomID string) []*Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[roomID]
	peers := make([]*Peer, 0, len(members))
	for peer := range members {
		peers = append(peers, peer)
	}
	return peers
}

func (r *memoryRegistry) Rooms() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
