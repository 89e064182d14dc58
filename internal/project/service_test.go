package project_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/client"
	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/project"
	"github.com/MrJamesThe3rd/tally/pkg/ctxutil"
)

func intPtr(v int) *int { return &v }

func TestService_OverHours(t *testing.T) {
	projectID := uuid.New()
	clientID := uuid.New()

	type testCase struct {
		name      string
		limit     *int
		total     int
		wantOver  bool
		clientErr error
		wantErr   error
	}

	tests := []testCase{
		{name: "NoLimit", total: 500, wantOver: false},
		{name: "UnderLimit", limit: intPtr(40), total: 39, wantOver: false},
		{name: "AtLimit", limit: intPtr(40), total: 40, wantOver: false},
		{name: "OverLimit", limit: intPtr(40), total: 41, wantOver: true},
		{name: "ZeroLimit", limit: intPtr(0), total: 1, wantOver: true},
		{name: "ClientNotOwned", limit: intPtr(40), clientErr: domain.ErrNotFound, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := project.NewMockRepository(ctrl)
			clients := project.NewMockClientReader(ctrl)

			repo.EXPECT().
				GetProject(gomock.Any(), projectID).
				Return(&project.Project{ID: projectID, ClientID: clientID, AgreedHoursLimit: tt.limit}, nil)

			if tt.clientErr != nil {
				clients.EXPECT().Get(gomock.Any(), clientID).Return(nil, tt.clientErr)
			} else {
				clients.EXPECT().Get(gomock.Any(), clientID).Return(&client.Client{ID: clientID}, nil)
				repo.EXPECT().SumProjectHours(gomock.Any(), projectID).Return(tt.total, nil)
			}

			svc := project.NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, clients)

			got, err := svc.OverHours(ctxutil.WithIdentity(context.Background(), "alice"), projectID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "project "+projectID.String())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.total, got.TotalHours)
			assert.Equal(t, tt.wantOver, got.OverHours)
		})
	}
}

func TestService_Create_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := project.NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		project.NewMockRepository(ctrl),
		project.NewMockClientReader(ctrl),
	)

	_, err := svc.Create(ctxutil.WithIdentity(context.Background(), "alice"), project.CreateParams{
		ClientID:         uuid.New(),
		AgreedHoursLimit: intPtr(-1),
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2)
}
