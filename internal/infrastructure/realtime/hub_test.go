package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversPublishedEvents(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	go hub.Run()
	defer hub.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	id := uuid.New()
	hub.Publish(Event{Type: EventBatchCreated, TransactionID: id, Payload: map[string]string{"batch_number": "DEL-20240301-001"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type          string            `json:"type"`
		TransactionID uuid.UUID         `json:"transactionId"`
		Payload       map[string]string `json:"payload"`
		At            time.Time         `json:"at"`
	}
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, EventBatchCreated, got.Type)
	assert.Equal(t, id, got.TransactionID)
	assert.Equal(t, "DEL-20240301-001", got.Payload["batch_number"])
	assert.False(t, got.At.IsZero())
}

func TestHubRejectsUnknownOrigin(t *testing.T) {
	hub := NewHub(zerolog.Nop(), []string{"http://pos.local"})
	go hub.Run()
	defer hub.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r)
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPublishAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	hub.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer+10; i++ {
			hub.Publish(Event{Type: EventTransactionPaid})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after Stop")
	}
}
