package credentials_test

import (
	"strings"
	"testing"

	"brgyalert/backend/internal/apperr"
	"brgyalert/backend/internal/credentials"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := credentials.Hash("Resident123")
	require.NoError(t, err)

	assert.True(t, credentials.Verify("Resident123", hash))
	assert.False(t, credentials.Verify("Resident124", hash))
	assert.False(t, credentials.Verify("resident123", hash))
}

func TestHash_IsSalted(t *testing.T) {
	a, err := credentials.Hash("Resident123")
	require.NoError(t, err)
	b, err := credentials.Hash("Resident123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "same plaintext must hash differently")
	assert.True(t, credentials.Verify("Resident123", a))
	assert.True(t, credentials.Verify("Resident123", b))
}

func TestVerify_MalformedHash(t *testing.T) {
	assert.False(t, credentials.Verify("Resident123", ""))
	assert.False(t, credentials.Verify("Resident123", "not-a-bcrypt-hash"))
	assert.False(t, credentials.Verify("Resident123", "$2a$10$short"))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantRule string
	}{
		{name: "valid", password: "Resident123"},
		{name: "too short", password: "Ab1", wantRule: "at least 8"},
		{name: "too long", password: "Aa1" + strings.Repeat("x", 126), wantRule: "at most 128"},
		{name: "no upper", password: "resident123", wantRule: "uppercase"},
		{name: "no lower", password: "RESIDENT123", wantRule: "lowercase"},
		{name: "no digit", password: "ResidentABC", wantRule: "number"},
		{name: "exactly 128", password: "Aa1" + strings.Repeat("x", 125)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := credentials.ValidatePassword(tt.password)
			if tt.wantRule == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Contains(t, err.Error(), tt.wantRule)
		})
	}
}

func TestHashAndVerify_LongPassword(t *testing.T) {
	long := "Aa1" + strings.Repeat("x", 120)
	require.NoError(t, credentials.ValidatePassword(long))

	hash, err := credentials.Hash(long)
	require.NoError(t, err)

	assert.True(t, credentials.Verify(long, hash))
	assert.False(t, credentials.Verify(long[:len(long)-1]+"y", hash))
}
