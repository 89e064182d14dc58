package push_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/http/push"
	"github.com/MrJamesThe3rd/tally/internal/notify"
)

type staticValidator map[string]string

func (v staticValidator) ValidateToken(_ context.Context, token string) (string, error) {
	if identity, ok := v[token]; ok {
		return identity, nil
	}

	return "", errors.New("invalid")
}

func newServer(t *testing.T) (*httptest.Server, *notify.Dispatcher) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := notify.NewDispatcher(log)

	h := push.NewHandler(log, staticValidator{"alice-token": "Alice"}, dispatcher, domain.NewGuard(true), push.Options{
		Buffer:       4,
		WriteTimeout: time.Second,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return srv, dispatcher
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + query
}

func TestHandler_DeliversToIdentity(t *testing.T) {
	srv, dispatcher := newServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(srv, "?token=alice-token"), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	// identity folding applies to the registered session
	require.Eventually(t, func() bool { return dispatcher.Count("alice") == 1 }, 2*time.Second, 10*time.Millisecond)

	dispatcher.Notify(ctx, "alice", []byte(`{"type":"invoice.changed"}`))

	typ, msg, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	assert.JSONEq(t, `{"type":"invoice.changed"}`, string(msg))
}

func TestHandler_UnregistersOnClose(t *testing.T) {
	srv, dispatcher := newServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(srv, "?token=alice-token"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return dispatcher.Count("alice") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))

	assert.Eventually(t, func() bool { return dispatcher.Count("alice") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_RejectsBadToken(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "Missing", query: ""},
		{name: "Invalid", query: "?token=nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, dispatcher := newServer(t)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			conn, _, err := websocket.Dial(ctx, wsURL(srv, tt.query), nil)
			require.NoError(t, err)
			defer conn.CloseNow()

			_, _, err = conn.Read(ctx)
			assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
			assert.Zero(t, dispatcher.Count("alice"))
		})
	}
}
