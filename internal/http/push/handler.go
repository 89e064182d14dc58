// Package push streams invoice change events to authenticated websocket sessions.
package push

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/http/middleware"
	"github.com/MrJamesThe3rd/tally/internal/notify"
)

type Registry interface {
	Register(identity string, ch notify.Channel)
	Unregister(ch notify.Channel)
}

type Options struct {
	// Buffer is the number of undelivered messages kept per session before
	// new ones are dropped.
	Buffer       int
	WriteTimeout time.Duration
	// OriginPatterns lists extra hosts allowed to open a socket cross-origin.
	OriginPatterns []string
}

type Handler struct {
	validator middleware.TokenValidator
	registry  Registry
	guard     *domain.Guard
	opts      Options
	log       *slog.Logger
}

func NewHandler(log *slog.Logger, validator middleware.TokenValidator, registry Registry, guard *domain.Guard, opts Options) *Handler {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	return &Handler{
		validator: validator,
		registry:  registry,
		guard:     guard,
		opts:      opts,
		log:       log.With("component", "push"),
	}
}

// token reads the bearer token from the header or, for browsers that cannot
// set headers on a websocket handshake, the "token" query parameter.
func token(r *http.Request) string {
	if t := middleware.BearerToken(r); t != "" {
		return t
	}

	return r.URL.Query().Get("token")
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.opts.OriginPatterns,
	})
	if err != nil {
		h.log.WarnContext(r.Context(), "websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	identity, err := h.validator.ValidateToken(r.Context(), token(r))
	if err != nil {
		conn.Close(websocket.StatusPolicyViolation, "invalid token")
		return
	}

	identity = h.guard.Normalize(identity)

	queue := notify.NewQueue(h.opts.Buffer)
	h.registry.Register(identity, queue)

	defer func() {
		h.registry.Unregister(queue)
		queue.Close()
	}()

	log := h.log.With("identity", identity, "session", queue.ID())
	log.DebugContext(r.Context(), "session opened")

	// The client never sends anything; CloseRead handles control frames and
	// cancels ctx once the peer goes away.
	ctx := conn.CloseRead(r.Context())

	if err := h.pump(ctx, conn, queue); err != nil {
		log.DebugContext(r.Context(), "session closed", "error", err)
		return
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Handler) pump(ctx context.Context, conn *websocket.Conn, queue *notify.Queue) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-queue.C():
			if !ok {
				return nil
			}

			if err := h.write(ctx, conn, msg); err != nil {
				return err
			}
		}
	}
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, h.opts.WriteTimeout)
	defer cancel()

	return conn.Write(ctx, websocket.MessageText, msg)
}
