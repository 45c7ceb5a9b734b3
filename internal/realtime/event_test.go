package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventEnvelope(t *testing.T) {
	ev := MustEvent(TypeTyping, Typing{From: "alice", IsTyping: true})

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"typing","payload":{"from":"alice","isTyping":true}}`, string(b))

	var back Event
	require.NoError(t, json.Unmarshal(b, &back))
	var p Typing
	require.NoError(t, back.Decode(&p))
	assert.Equal(t, "alice", p.From)
	assert.True(t, p.IsTyping)
}

func TestEventWithoutPayload(t *testing.T) {
	ev, err := NewEvent("ping", nil)
	require.NoError(t, err)
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ping"}`, string(b))

	var v struct{}
	assert.NoError(t, ev.Decode(&v))
}
