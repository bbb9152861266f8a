package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Send(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.Send(context.Background(), Notification{
		Recipient: "trainer1",
		Subject:   "Upcoming appointment",
		Body:      "Leg day at 10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "trainer1", got.Recipient)
	assert.Equal(t, "Upcoming appointment", got.Subject)
}

func TestClient_Send_NoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	assert.NoError(t, c.Send(context.Background(), Notification{Recipient: "x"}))
}

func TestClient_Send_ErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "downstream unavailable"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	err := c.Send(context.Background(), Notification{Recipient: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "downstream unavailable")
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Send_PlainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	err := c.Send(context.Background(), Notification{Recipient: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Send(context.Background(), Notification{}))
}
