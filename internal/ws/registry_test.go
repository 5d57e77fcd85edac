package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryJoinAndPeers(t *testing.T) {
	r := NewMemoryRegistry()

	a := &Peer{id: "a"}
	b := &Peer{id: "b"}
	c := &Peer{id: "c"}

	r.Join("room-1", a)
	r.Join("room-1", b)
	r.Join("room-2", c)

	assert.Len(t, r.Peers("room-1"), 2)
	assert.Len(t, r.Peers("room-2"), 1)
	assert.Empty(t, r.Peers("room-3"))
	assert.Equal(t, 2, r.Rooms())
}

func TestRegistryLeave(t *testing.T) {
	r := NewMemoryRegistry()

	a := &Peer{id: "a"}
	b := &Peer{id: "b"}
	r.Join("room-1", a)
	r.Join("room-1", b)

	roomID, ok := r.Leave(a)
	assert.True(t, ok)
	assert.Equal(t, "room-1", roomID)
	assert.Len(t, r.Peers("room-1"), 1)

	// Leaving twice is a no-op.
	_, ok = r.Leave(a)
	assert.False(t, ok)
}

func TestRegistryEmptyRoomIsDropped(t *testing.T) {
	r := NewMemoryRegistry()

	a := &Peer{id: "a"}
	r.Join("room-1", a)
	assert.Equal(t, 1, r.Rooms())

	r.Leave(a)
	assert.Equal(t, 0, r.Rooms())
}

func TestRegistryUnknownPeerLeave(t *testing.T) {
	r := NewMemoryRegistry()
	_, ok := r.Leave(&Peer{id: "ghost"})
	assert.False(t, ok)
}
