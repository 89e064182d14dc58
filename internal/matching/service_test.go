package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	"github.com/MrJamesThe3rd/tally/pkg/ctxutil"
)

func as(identity string) context.Context {
	return ctxutil.WithIdentity(context.Background(), identity)
}

func newService(t *testing.T) (*matching.Service, *matching.MockRepository) {
	t.Helper()

	repo := matching.NewMockRepository(gomock.NewController(t))

	return matching.NewService(repo, domain.NewGuard(true)), repo
}

func TestService_Suggest(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m *matching.MockRepository)
		want      string
		wantErr   bool
	}{
		{
			name: "Match",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().
					FindMatch(gomock.Any(), "alice", "JIRA-12 backend").
					Return(&matching.Mapping{PreferredDescription: "Development"}, nil)
			},
			want: "Development",
		},
		{
			name: "NoMatch",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), "alice", "JIRA-12 backend").Return(nil, nil)
			},
		},
		{
			name: "StoreError",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			tt.setupMock(repo)

			got, err := svc.Suggest(as(" Alice "), "JIRA-12 backend")
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Suggest_NoIdentity(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Suggest(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_Learn(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			CreateMapping(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m *matching.Mapping) error {
				assert.Equal(t, "jira", m.RawPattern)
				assert.Equal(t, "Development", m.PreferredDescription)
				assert.Equal(t, "alice", m.Owner)

				m.ID = uuid.New()

				return nil
			})

		m, err := svc.Learn(as("alice"), "  jira ", "Development ")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, m.ID)
	})

	t.Run("Validation", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Learn(as("alice"), " ", "")

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Errors, 2)
	})
}

func TestService_Forget(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		setupMock func(m *matching.MockRepository)
		wantErr   error
	}{
		{
			name: "Owner",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().GetMapping(gomock.Any(), id).Return(&matching.Mapping{ID: id, Owner: "alice"}, nil)
				m.EXPECT().DeleteMapping(gomock.Any(), id).Return(nil)
			},
		},
		{
			name: "OtherOwner",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().GetMapping(gomock.Any(), id).Return(&matching.Mapping{ID: id, Owner: "bob"}, nil)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "Missing",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().GetMapping(gomock.Any(), id).Return(nil, domain.ErrNotFound)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			tt.setupMock(repo)

			err := svc.Forget(as("alice"), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}
