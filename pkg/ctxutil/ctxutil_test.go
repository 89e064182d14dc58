package ctxutil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/pkg/ctxutil"
)

func TestIdentityFromCtx(t *testing.T) {
	_, ok := ctxutil.IdentityFromCtx(context.Background())
	assert.False(t, ok)

	_, ok = ctxutil.IdentityFromCtx(ctxutil.WithIdentity(context.Background(), "   "))
	assert.False(t, ok)

	id, ok := ctxutil.IdentityFromCtx(ctxutil.WithIdentity(context.Background(), "user1"))
	assert.True(t, ok)
	assert.Equal(t, "user1", id)
}
