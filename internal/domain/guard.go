package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/pkg/ctxutil"
)

// Guard gates access to owned records (clients, time entries, invoices).
//
// A record owned by someone else is reported exactly like a missing record,
// so callers can never learn that another user's id exists.
type Guard struct {
	fold bool
}

// NewGuard returns a Guard. With foldCase set, identities are compared after
// trimming whitespace and lower-casing; otherwise comparison is exact.
func NewGuard(foldCase bool) *Guard {
	return &Guard{fold: foldCase}
}

// Normalize returns the canonical form of an identity as it is stored on records.
func (g *Guard) Normalize(identity string) string {
	if !g.fold {
		return identity
	}

	return strings.ToLower(strings.TrimSpace(identity))
}

// Owns reports whether acting is the owner.
func (g *Guard) Owns(owner, acting string) bool {
	if acting == "" {
		return false
	}

	return g.Normalize(owner) == g.Normalize(acting)
}

// Authorize returns nil if acting owns the record of the given kind and id.
func (g *Guard) Authorize(kind string, id uuid.UUID, owner, acting string) error {
	if acting == "" {
		return ErrUnauthorized
	}

	if !g.Owns(owner, acting) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}

	return nil
}

// Actor returns the normalized acting identity carried by ctx.
func (g *Guard) Actor(ctx context.Context) (string, error) {
	identity, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return "", ErrUnauthorized
	}

	return g.Normalize(identity), nil
}
