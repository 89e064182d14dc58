package ctxutil

import (
	"context"
	"strings"
)

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity stores the verified acting identity in the context.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromCtx extracts the acting identity from the context.
// Returns "" and false if the value is missing, blank, or of the wrong type.
func IdentityFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey).(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}

	return id, true
}
