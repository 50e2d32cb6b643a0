package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPGatewaySendMessage(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "api-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"id":["80367170"],"process":"pending"}`))
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL, "api-key", "6281100000000", time.Second)
	id, err := gw.SendMessage(context.Background(), "6281234567890", "Halo")
	require.NoError(t, err)
	require.Equal(t, "80367170", id)
	require.Equal(t, "6281234567890", got["target"])
	require.Equal(t, "Halo", got["message"])
	require.Equal(t, "6281100000000", got["sender"])
}

func TestHTTPGatewayMessageIDShapes(t *testing.T) {
	bodies := map[string]string{
		`{"message_id":"abc"}`:          "abc",
		`{"data":{"id":"xyz"}}`:         "xyz",
		`{"status":true,"id":"single"}`: "single",
		`{"status":true}`:               "",
	}
	for body, want := range bodies {
		body := body
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		id, err := NewHTTPGateway(srv.URL, "k", "", time.Second).SendMessage(context.Background(), "62812", "m")
		srv.Close()
		require.NoError(t, err, body)
		require.Equal(t, want, id, body)
	}
}

func TestHTTPGatewayRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":false,"reason":"invalid token"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPGateway(srv.URL, "k", "", time.Second).SendMessage(context.Background(), "62812", "m")
	require.ErrorIs(t, err, ErrRejected)
	require.Contains(t, err.Error(), "invalid token")
}

func TestHTTPGatewayStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`down`))
	}))
	defer srv.Close()

	_, err := NewHTTPGateway(srv.URL, "k", "", time.Second).SendMessage(context.Background(), "62812", "m")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	require.True(t, statusErr.Temporary())

	require.False(t, (&StatusError{StatusCode: http.StatusBadRequest}).Temporary())
}

func TestMockGateway(t *testing.T) {
	gw := NewMockGateway("wa")
	id1, err := gw.SendMessage(context.Background(), "62812", "m")
	require.NoError(t, err)
	id2, err := gw.SendMessage(context.Background(), "62812", "m")
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)
	require.Equal(t, "wa", gw.Name())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gw.SendMessage(ctx, "62812", "m")
	require.ErrorIs(t, err, context.Canceled)
}
