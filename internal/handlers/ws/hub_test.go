package ws

import (
	"encoding/json"
	"testing"

	"github.com/KirkDiggler/zombeers/internal/services/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_NotifyEncodesOnceForEachSession(t *testing.T) {
	hub := NewHub(&HubConfig{SendBuffer: 4})
	a := newClient("a", nil, 4)
	b := newClient("b", nil, 4)
	hub.register(a)
	hub.register(b)

	hub.Notify([]string{"a", "b", "missing"}, &room.Event{
		Type:    room.EventActionError,
		Payload: &room.ActionErrorPayload{Message: "nope"},
	})

	for _, c := range []*client{a, b} {
		require.Len(t, c.send, 1)

		var frame struct {
			Type    string `json:"type"`
			Payload struct {
				Message string `json:"message"`
			} `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(<-c.send, &frame))
		assert.Equal(t, "actionError", frame.Type)
		assert.Equal(t, "nope", frame.Payload.Message)
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub(&HubConfig{SendBuffer: 1})
	slow := newClient("slow", nil, 1)
	fast := newClient("fast", nil, 2)
	hub.register(slow)
	hub.register(fast)

	event := &room.Event{Type: room.EventShowScreen, Payload: room.ScreenSetup}
	hub.Notify([]string{"slow", "fast"}, event)
	hub.Notify([]string{"slow", "fast"}, event)

	assert.True(t, slow.closed())
	assert.False(t, fast.closed())
	assert.Len(t, fast.send, 2)

	// A closed client takes no more frames
	assert.False(t, slow.enqueue([]byte("{}")))
}

func TestHub_UnregisterOnlyRemovesSameClient(t *testing.T) {
	hub := NewHub(nil)
	first := newClient("a", nil, 1)
	second := newClient("a", nil, 1)

	hub.register(first)
	hub.register(second)
	hub.unregister(first)
	assert.Equal(t, 1, hub.Count())

	hub.unregister(second)
	assert.Equal(t, 0, hub.Count())
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub(nil)
	a := newClient("a", nil, 1)
	hub.register(a)

	hub.CloseAll()
	assert.True(t, a.closed())

	// Closing twice is fine
	a.close()
}

func TestDecodeRoomCode(t *testing.T) {
	code, ok := decodeRoomCode(json.RawMessage(`"ab12"`))
	assert.True(t, ok)
	assert.Equal(t, "ab12", code)

	code, ok = decodeRoomCode(json.RawMessage(`{"roomCode":"AB12"}`))
	assert.True(t, ok)
	assert.Equal(t, "AB12", code)

	_, ok = decodeRoomCode(json.RawMessage(`{}`))
	assert.False(t, ok)

	_, ok = decodeRoomCode(nil)
	assert.False(t, ok)

	_, ok = decodeRoomCode(json.RawMessage(`42`))
	assert.False(t, ok)
}
