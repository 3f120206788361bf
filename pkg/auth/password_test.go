package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("Password1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Password1!", hash)

	assert.NoError(t, ComparePassword(hash, "Password1!"))
	assert.Error(t, ComparePassword(hash, "Password2!"))
}

func TestHashPassword_EmptyRejected(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("Password1!")
	require.NoError(t, err)
	b, err := HashPassword("Password1!")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Password1!", false},
		{"valid without lowercase", "PASSWORD1!", false},
		{"too short", "Pa1!", true},
		{"too long", strings.Repeat("Aa1!", 40), true},
		{"missing uppercase", "password1!", true},
		{"missing digit", "Password!", true},
		{"missing special", "Password1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				var verr *PasswordValidationError
				assert.ErrorAs(t, err, &verr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
