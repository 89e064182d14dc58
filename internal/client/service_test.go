package client_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/client"
	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/pkg/ctxutil"
)

func newService(t *testing.T, fold bool) (*client.Service, *client.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := client.NewMockRepository(ctrl)

	return client.NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, domain.NewGuard(fold)), repo
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		fold      bool
		identity  string
		params    client.CreateParams
		setupMock func(m *client.MockRepository)
		wantOwner string
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			identity: "alice",
			params: client.CreateParams{
				Name:     " Klant A ",
				Email:    "info@klant-a.nl",
				Postcode: "1234 ab",
			},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().
					CreateClient(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *client.Client) error {
						assert.Equal(t, "Klant A", c.Name)
						assert.Equal(t, "1234AB", c.Postcode)

						c.ID = uuid.New()
						c.CreatedAt = time.Now()

						return nil
					})
			},
			wantOwner: "alice",
		},
		{
			name:     "OwnerIsNormalizedWhenFolding",
			fold:     true,
			identity: " Alice ",
			params:   client.CreateParams{Name: "Klant A", Email: "info@klant-a.nl"},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().CreateClient(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantOwner: "alice",
		},
		{
			name:     "MissingName",
			identity: "alice",
			params:   client.CreateParams{Email: "info@klant-a.nl"},
			wantErr:  domain.ErrValidation,
		},
		{
			name:     "BadEmail",
			identity: "alice",
			params:   client.CreateParams{Name: "Klant A", Email: "not-an-address"},
			wantErr:  domain.ErrValidation,
		},
		{
			name:    "Unauthenticated",
			params:  client.CreateParams{Name: "Klant A", Email: "info@klant-a.nl"},
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:     "RepoError",
			identity: "alice",
			params:   client.CreateParams{Name: "Klant A", Email: "info@klant-a.nl"},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().CreateClient(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("create client: db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t, tt.fold)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			ctx := context.Background()
			if tt.identity != "" {
				ctx = ctxutil.WithIdentity(ctx, tt.identity)
			}

			got, err := svc.Create(ctx, tt.params)
			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, domain.ErrValidation) || errors.Is(tt.wantErr, domain.ErrUnauthorized) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}

				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, got.Owner)
		})
	}
}

func TestService_Get(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		setupMock func(m *client.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Owner",
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().GetClient(gomock.Any(), id).Return(&client.Client{ID: id, Owner: "alice"}, nil)
			},
		},
		{
			name: "OtherOwner",
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().GetClient(gomock.Any(), id).Return(&client.Client{ID: id, Owner: "bob"}, nil)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "Missing",
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().GetClient(gomock.Any(), id).Return(nil, domain.ErrNotFound)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t, false)
			tt.setupMock(repo)

			got, err := svc.Get(ctxutil.WithIdentity(context.Background(), "alice"), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
		})
	}
}

func TestService_List_ScopesToActor(t *testing.T) {
	svc, repo := newService(t, false)

	repo.EXPECT().ListClients(gomock.Any(), "alice").Return([]*client.Client{{Name: "Klant A"}}, nil)

	got, err := svc.List(ctxutil.WithIdentity(context.Background(), "alice"))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
