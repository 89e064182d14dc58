package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/domain"
)

func TestMapError(t *testing.T) {
	type testCase struct {
		name string
		err  error
		want error
	}

	tests := []testCase{
		{name: "NoRows", err: sql.ErrNoRows, want: domain.ErrNotFound},
		{name: "Unique", err: &pgconn.PgError{Code: "23505", ConstraintName: "invoices_invoice_number_key"}, want: domain.ErrConflict},
		{name: "ForeignKey", err: &pgconn.PgError{Code: "23503"}, want: domain.ErrNotFound},
		{name: "Check", err: &pgconn.PgError{Code: "23514"}, want: domain.ErrValidation},
		{name: "Canceled", err: context.Canceled, want: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err, "invoice", "42")
			assert.ErrorIs(t, got, tt.want)
			assert.Contains(t, got.Error(), "invoice 42")
		})
	}

	assert.NoError(t, MapError(nil, "invoice", "42"))

	other := errors.New("boom")
	assert.ErrorIs(t, MapError(other, "invoice", "42"), other)
}

func TestLockID_Stable(t *testing.T) {
	a := lockID("autogen:client:user1")
	assert.Equal(t, a, lockID("autogen:client:user1"))
	assert.NotEqual(t, a, lockID("autogen:client:user2"))
}
