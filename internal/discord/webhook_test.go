package discord

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastPostsJSONPayload(t *testing.T) {
	var received Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	b := NewBroadcaster(time.Second)
	msg := BuildOrderMessage(sampleOrder(), nil)
	b.Broadcast(context.Background(), []string{srv.URL}, msg)

	assert.Equal(t, msg.Content, received.Content)
	require.Len(t, received.Embeds, 1)
	assert.Equal(t, msg.Embeds[0].Title, received.Embeds[0].Title)
}

func TestBroadcastContinuesAfterFailure(t *testing.T) {
	var okCalls atomic.Int32
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer failing.Close()

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		okCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	b := NewBroadcaster(time.Second)
	b.Broadcast(context.Background(), []string{failing.URL, ok.URL}, Message{Content: "hi"})

	// The failing URL does not abort the rest of the list.
	assert.Equal(t, int32(1), okCalls.Load())
}

func TestBroadcastSkipsBlankURLs(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	b := NewBroadcaster(time.Second)
	b.Broadcast(context.Background(), []string{"", "   ", srv.URL}, Message{Content: "hi"})

	assert.Equal(t, int32(1), calls.Load())
}

func TestPostRejectsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	b := NewBroadcaster(time.Second)
	err := b.post(context.Background(), srv.URL, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestPostAcceptsOKAndNoContent(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		b := NewBroadcaster(time.Second)
		assert.NoError(t, b.post(context.Background(), srv.URL, []byte(`{}`)))
		srv.Close()
	}
}

func TestTruncateURL(t *testing.T) {
	long := "https://discord.com/api/webhooks/1234567890/secret-token-abcdefghijklmnop"
	assert.Len(t, truncateURL(long), 50)
	assert.Equal(t, "short", truncateURL("short"))
}
