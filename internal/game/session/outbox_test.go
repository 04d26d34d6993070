package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arsenal/internal/game/session"
)

func TestOutbox_PushDrain(t *testing.T) {
	o := session.NewOutbox(3, 4)
	assert.Equal(t, 3, o.Player())
	require.NoError(t, o.Push([]byte{1}))
	require.NoError(t, o.Push([]byte{2}))
	assert.Equal(t, 2, o.Len())

	assert.Equal(t, [][]byte{{1}, {2}}, o.Drain())
	assert.Empty(t, o.Drain())
}

func TestOutbox_PushFull(t *testing.T) {
	o := session.NewOutbox(0, 1)
	require.NoError(t, o.Push([]byte{1}))
	err := o.Push([]byte{2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full")
}

func TestOutbox_Close(t *testing.T) {
	o := session.NewOutbox(0, 4)
	require.NoError(t, o.Push([]byte{1}))
	require.NoError(t, o.Close())
	require.NoError(t, o.Close())
	assert.True(t, o.IsClosed())
	assert.Error(t, o.Push([]byte{2}))
	assert.Equal(t, [][]byte{{1}}, o.Drain(), "queued packets survive Close")
	assert.Empty(t, o.Drain())
}

func TestProperty_OutboxPreservesOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		packets := rapid.SliceOfN(rapid.SliceOfN(rapid.Byte(), 1, 8), 0, session.DefaultOutboxSize).Draw(rt, "packets")
		o := session.NewOutbox(0, 0)
		for _, p := range packets {
			if err := o.Push(p); err != nil {
				rt.Fatalf("Push: %v", err)
			}
		}
		got := o.Drain()
		if len(got) != len(packets) {
			rt.Fatalf("drained %d packets, want %d", len(got), len(packets))
		}
		for i := range packets {
			if string(got[i]) != string(packets[i]) {
				rt.Fatalf("packet %d = %v, want %v", i, got[i], packets[i])
			}
		}
	})
}
