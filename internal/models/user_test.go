package models_test

import (
	"reflect"
	"testing"

	"brgyalert/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	// Arrange
	user := &models.User{Email: "juan@example.com", Name: "Juan"}
	assert.Empty(t, user.ID)

	// Act
	err := user.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	parsed, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
}

func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	// Arrange
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Email: "maria@example.com"}

	// Act
	err := user.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
}

// TestUserBeforeCreate_Defaults checks the email normalization and role/status defaults.
func TestUserBeforeCreate_Defaults(t *testing.T) {
	// Arrange
	user := &models.User{Email: "  Pedro@Example.COM "}

	// Act
	err := user.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "pedro@example.com", user.Email)
	assert.Equal(t, models.RoleResident, user.Role)
	assert.Equal(t, models.UserActive, user.Status)
	assert.True(t, user.Active())
}

func TestUserBeforeCreate_KeepsExplicitRole(t *testing.T) {
	user := &models.User{Email: "kap@example.com", Role: models.RoleAdmin, Status: models.UserInactive}

	assert.NoError(t, user.BeforeCreate(nil))

	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, models.UserInactive, user.Status)
	assert.False(t, user.Active())
}

func TestUserBeforeCreate_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		u := &models.User{}
		assert.NoError(t, u.BeforeCreate(nil))
		assert.NotContains(t, seen, u.ID)
		seen[u.ID] = true
	}
}

// TestUserStructTags guards against accidental tag removal; the hash must never be serialized.
func TestUserStructTags(t *testing.T) {
	userType := reflect.TypeOf(models.User{})

	idField, found := userType.FieldByName("ID")
	assert.True(t, found)
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey")

	emailField, found := userType.FieldByName("Email")
	assert.True(t, found)
	assert.Contains(t, emailField.Tag.Get("gorm"), "uniqueIndex")

	hashField, found := userType.FieldByName("PasswordHash")
	assert.True(t, found)
	assert.Equal(t, "-", hashField.Tag.Get("json"))
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want models.Role
		ok   bool
	}{
		{"ADMIN", models.RoleAdmin, true},
		{"official", models.RoleOfficial, true},
		{" Resident ", models.RoleResident, true},
		{"superuser", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := models.ParseRole(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUserStatus(t *testing.T) {
	got, ok := models.ParseUserStatus("Active")
	assert.True(t, ok)
	assert.Equal(t, models.UserActive, got)

	got, ok = models.ParseUserStatus("deactivated")
	assert.True(t, ok)
	assert.Equal(t, models.UserInactive, got)

	_, ok = models.ParseUserStatus("banned")
	assert.False(t, ok)
}

func TestRoleIsStaff(t *testing.T) {
	assert.True(t, models.RoleAdmin.IsStaff())
	assert.True(t, models.RoleOfficial.IsStaff())
	assert.False(t, models.RoleResident.IsStaff())
}

func BenchmarkUserBeforeCreate(b *testing.B) {
	user := &models.User{Email: "bench@example.com"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		user.ID = ""
		_ = user.BeforeCreate(nil)
	}
}
