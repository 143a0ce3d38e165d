package main

import (
	"bytes"
	"context"
	"testing"

	"brgyalert/backend/internal/account"
	"brgyalert/backend/internal/audit"
	"brgyalert/backend/internal/models"
	"brgyalert/backend/internal/storage"
	"brgyalert/backend/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func systemLog(action string) interface{} {
	return mock.MatchedBy(func(e *models.SystemLog) bool { return e.Action == action && e.UserID == nil })
}

func TestRun_CreateAdmin(t *testing.T) {
	// Arrange
	store := new(mocks.MockStorage)
	store.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "kapitan@brgy.gov.ph" && u.Role == models.RoleAdmin
	})).Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = "u1" }).Return(nil)
	store.On("AppendLog", mock.Anything, systemLog(audit.ActionUserCreated)).Return(nil)
	var out bytes.Buffer

	// Act
	err := run(context.Background(), account.NewService(store, nil, nil),
		[]string{"create-admin", "Kapitan@brgy.gov.ph", "Kapitan Juan", "Admin12345"}, &out)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "created with role ADMIN")
	store.AssertExpectations(t)
}

func TestRun_CreateOfficial(t *testing.T) {
	store := new(mocks.MockStorage)
	store.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleOfficial
	})).Return(nil)
	store.On("AppendLog", mock.Anything, mock.Anything).Return(nil)

	err := run(context.Background(), account.NewService(store, nil, nil),
		[]string{"create-admin", "kagawad@brgy.gov.ph", "Kagawad Ana", "Official123", "official"}, &bytes.Buffer{})

	require.NoError(t, err)
}

func TestRun_Deactivate(t *testing.T) {
	store := new(mocks.MockStorage)
	user := &models.User{ID: "u1", Email: "pedro@gmail.com", Status: models.UserActive}
	store.On("GetUserByEmail", mock.Anything, "pedro@gmail.com").Return(user, nil)
	store.On("GetUserByID", mock.Anything, "u1").Return(user, nil)
	store.On("UpdateUserStatus", mock.Anything, "u1", models.UserInactive).Return(nil)
	store.On("AppendLog", mock.Anything, systemLog(audit.ActionUserStatusUpdate)).Return(nil)
	var out bytes.Buffer

	err := run(context.Background(), account.NewService(store, nil, nil), []string{"deactivate", "pedro@gmail.com"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "User pedro@gmail.com is now inactive.\n", out.String())
	store.AssertExpectations(t)
}

func TestRun_UnknownUser(t *testing.T) {
	store := new(mocks.MockStorage)
	store.On("GetUserByEmail", mock.Anything, "ghost@gmail.com").Return(nil, storage.ErrNotFound)

	err := run(context.Background(), account.NewService(store, nil, nil), []string{"set-role", "ghost@gmail.com", "official"}, &bytes.Buffer{})

	assert.ErrorContains(t, err, "user not found")
}

func TestRun_Usage(t *testing.T) {
	svc := account.NewService(new(mocks.MockStorage), nil, nil)

	assert.ErrorContains(t, run(context.Background(), svc, nil, &bytes.Buffer{}), "Usage")
	assert.ErrorContains(t, run(context.Background(), svc, []string{"ban", "u1"}, &bytes.Buffer{}), "unknown command")
	assert.ErrorContains(t, run(context.Background(), svc, []string{"activate"}, &bytes.Buffer{}), "usage: admin activate")
}
