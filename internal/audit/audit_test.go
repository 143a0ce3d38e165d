package audit_test

import (
	"context"
	"errors"
	"testing"

	"brgyalert/backend/internal/apperr"
	"brgyalert/backend/internal/audit"
	"brgyalert/backend/internal/models"
	"brgyalert/backend/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAppend(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStorage)

	store.On("AppendLog", ctx, mock.MatchedBy(func(e *models.SystemLog) bool {
		return e.Action == audit.ActionReportCreate && e.UserID != nil && *e.UserID == "u-1" &&
			e.Details != nil && *e.Details == "Report submitted: flood"
	})).Return(nil).Once()

	err := audit.Append(ctx, store, audit.ActionReportCreate, "u-1", " Report submitted: flood ")

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestAppend_SystemActorAndNoDetails(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStorage)

	store.On("AppendLog", ctx, mock.MatchedBy(func(e *models.SystemLog) bool {
		return e.UserID == nil && e.Details == nil
	})).Return(nil).Once()

	require.NoError(t, audit.Append(ctx, store, audit.ActionUserCreated, "", ""))
	store.AssertExpectations(t)
}

func TestAppend_PropagatesFailure(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStorage)
	store.On("AppendLog", ctx, mock.Anything).Return(errors.New("disk full"))

	assert.Error(t, audit.Append(ctx, store, audit.ActionAlertDelete, "u-1", "x"))
}

func TestList_ClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, 100},
		{"negative", -5, 1},
		{"within", 250, 250},
		{"above max", 10000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := new(mocks.MockStorage)
			store.On("ListLogs", ctx, tt.want).Return([]models.SystemLog{}, nil).Once()

			logs, err := audit.NewService(store).List(ctx, tt.limit)

			require.NoError(t, err)
			assert.Empty(t, logs)
			store.AssertExpectations(t)
			store.AssertNotCalled(t, "UserNames", mock.Anything, mock.Anything)
		})
	}
}

func TestList_ResolvesNamesInOneBatch(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := new(mocks.MockStorage)
	rows := []models.SystemLog{
		{ID: 3, Action: audit.ActionUserLogin, UserID: strPtr("u-1")},
		{ID: 2, Action: audit.ActionUserCreated},
		{ID: 1, Action: audit.ActionReportCreate, UserID: strPtr("u-1")},
		{ID: 0, Action: audit.ActionAlertCreate, UserID: strPtr("u-gone")},
	}
	store.On("ListLogs", ctx, 100).Return(rows, nil)
	store.On("UserNames", ctx, []string{"u-1", "u-gone"}).Return(map[string]string{"u-1": "Maria Santos"}, nil).Once()

	// Act
	logs, err := audit.NewService(store).List(ctx, 0)

	// Assert
	require.NoError(t, err)
	require.Len(t, logs, 4)
	assert.Equal(t, "Maria Santos", logs[0].UserName)
	assert.Empty(t, logs[1].UserName)
	assert.Equal(t, "Maria Santos", logs[2].UserName)
	assert.Empty(t, logs[3].UserName)
	store.AssertNumberOfCalls(t, "UserNames", 1)
}

func TestList_StoreFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.MockStorage)
	store.On("ListLogs", ctx, 100).Return(nil, errors.New("connection refused"))

	_, err := audit.NewService(store).List(ctx, 0)

	assert.True(t, apperr.Is(err, apperr.KindInternal))
}
