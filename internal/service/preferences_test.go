//go:build !integration

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/famroot-client/internal/mocks"
	"github.com/guttosm/famroot-client/internal/repository"
)

func TestNewPreferenceService(t *testing.T) {
	assert.Equal(t, DefaultOwner, NewPreferenceService(nil, "").Owner())
	assert.Equal(t, "alice", NewPreferenceService(nil, "alice").Owner())
}

func TestPreferenceService_Save(t *testing.T) {
	ctx := context.Background()
	values := map[string]interface{}{"theme": "dark"}
	errDown := errors.New("down")

	tests := []struct {
		name      string
		setupMock func(*mocks.MockPreferencesRepositoryInterface)
		wantErr   error
	}{
		{
			name: "upserts the owner's bag",
			setupMock: func(m *mocks.MockPreferencesRepositoryInterface) {
				m.On("Upsert", ctx, "alice", values).Return(nil).Once()
			},
		},
		{
			name: "store error",
			setupMock: func(m *mocks.MockPreferencesRepositoryInterface) {
				m.On("Upsert", ctx, "alice", values).Return(errDown).Once()
			},
			wantErr: errDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockPreferencesRepositoryInterface)
			tt.setupMock(repo)

			err := NewPreferenceService(repo, "alice").Save(ctx, values)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestPreferenceService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing saved", func(t *testing.T) {
		repo := new(mocks.MockPreferencesRepositoryInterface)
		repo.On("Select", ctx, DefaultOwner).Return(nil, nil).Once()

		values, err := NewPreferenceService(repo, "").Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, values)
	})

	t.Run("returns saved values", func(t *testing.T) {
		repo := new(mocks.MockPreferencesRepositoryInterface)
		repo.On("Select", ctx, DefaultOwner).Return(&repository.PreferencesDocument{
			Owner:  DefaultOwner,
			Values: map[string]interface{}{"lang": "pt"},
		}, nil).Once()

		values, err := NewPreferenceService(repo, "").Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"lang": "pt"}, values)
	})

	t.Run("get carries timestamps", func(t *testing.T) {
		repo := new(mocks.MockPreferencesRepositoryInterface)
		updated := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
		repo.On("Select", ctx, DefaultOwner).Return(&repository.PreferencesDocument{
			Owner:     DefaultOwner,
			Values:    map[string]interface{}{},
			UpdatedAt: updated,
		}, nil).Once()

		prefs, err := NewPreferenceService(repo, "").Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, prefs)
		assert.Equal(t, updated, prefs.UpdatedAt)
	})

	t.Run("error", func(t *testing.T) {
		repo := new(mocks.MockPreferencesRepositoryInterface)
		repo.On("Select", ctx, DefaultOwner).Return(nil, errors.New("down")).Once()

		_, err := NewPreferenceService(repo, "").Load(ctx)
		assert.Error(t, err)
	})
}
