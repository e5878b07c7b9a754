package identity

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventspark/auth-service/internal/common"
	"github.com/eventspark/auth-service/internal/logging"
	"github.com/eventspark/auth-service/internal/server/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClientGetByEmail_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/by-email/a@x.com", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result": models.Profile{
				ID: "u1", Email: "a@x.com", FirstName: "Ada",
				LastName: "Lovelace", Role: 2, CustomerID: "c1",
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())

	p, err := c.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, 2, p.Role)
	assert.Equal(t, "c1", p.CustomerID)
}

func TestClientGetByEmail_NotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())

	_, err := c.GetByEmail(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClientGetByEmail_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())

	_, err := c.GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClientGetByEmail_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())

	_, err := c.GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClientGetByEmail_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	c := NewClient(srv.URL, testLogger())

	_, err := c.GetByEmail(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound,
		"transport failures must stay infrastructure errors")
}
