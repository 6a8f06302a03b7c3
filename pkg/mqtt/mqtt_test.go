package mqtt

import (
	"os"
	"testing"
	"time"

	"pdm/pkg/pdm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/womat/debug"
)

func TestMain(m *testing.M) {
	debug.SetDebug(os.Stderr, debug.Standard)
	os.Exit(m.Run())
}

func TestPublisherWords(t *testing.T) {
	h := New()
	p := NewPublisher(h, "/ir/remote")
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return at }

	p.Put(pdm.Annotation{Start: 5000, End: 7000, Kind: pdm.Leader, Text: "leadin"})
	p.Put(pdm.Annotation{Start: 7000, End: 21400, Kind: pdm.Word, Text: "0x5"})

	require.Len(t, h.C, 1)
	msg := <-h.C
	assert.Equal(t, "/ir/remote", msg.Topic)
	assert.True(t, msg.Retained)
	assert.JSONEq(t, `{"time":"2026-10-19T12:00:00Z","start":7000,"end":21400,"word":"0x5"}`, string(msg.Payload))
}

func TestPublisherWithoutTopic(t *testing.T) {
	h := New()
	NewPublisher(h, "").Put(pdm.Annotation{Kind: pdm.Word, Text: "0x1"})
	assert.Empty(t, h.C)
}

func TestPublisherQueueFull(t *testing.T) {
	h := New()
	p := NewPublisher(h, "t")
	for i := 0; i < queue+5; i++ {
		p.Put(pdm.Annotation{Kind: pdm.Word, Text: "0x1"})
	}
	assert.Len(t, h.C, queue)
}

func TestServiceWithoutBroker(t *testing.T) {
	h := New()
	require.NoError(t, h.Connect("", ""))

	done := make(chan struct{})
	go func() {
		h.Service()
		close(done)
	}()

	h.C <- Message{Topic: "t", Payload: []byte("x")}
	close(h.C)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Service did not return after close")
	}
	assert.NoError(t, h.Disconnect())
}
