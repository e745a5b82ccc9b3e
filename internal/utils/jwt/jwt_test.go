package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Generate(t *testing.T) {
	tests := []struct {
		name      string
		secretKey string
		tokenTTL  time.Duration
		userID    int64
		role      string
		wantErr   bool
	}{
		{
			name:      "Valid token generation",
			secretKey: "test-secret-key",
			tokenTTL:  time.Hour,
			userID:    12345,
			role:      "regular",
			wantErr:   false,
		},
		{
			name:      "Courier role",
			secretKey: "another-secret",
			tokenTTL:  time.Minute * 30,
			userID:    99999,
			role:      "courier",
			wantErr:   false,
		},
		{
			name:      "Admin role",
			secretKey: "secret",
			tokenTTL:  time.Hour,
			userID:    1,
			role:      "admin",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.secretKey, tt.tokenTTL)
			token, err := m.Generate(tt.userID, tt.role)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
			}
		})
	}
}

func TestManager_Validate(t *testing.T) {
	secretKey := "test-secret-key"
	tokenTTL := time.Hour

	t.Run("Valid token", func(t *testing.T) {
		m := NewManager(secretKey, tokenTTL)
		token, err := m.Generate(12345, "regular")
		require.NoError(t, err)

		userID, role, err := m.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, int64(12345), userID)
		assert.Equal(t, "regular", role)
	})

	t.Run("Role round trip", func(t *testing.T) {
		m := NewManager(secretKey, tokenTTL)

		for _, role := range []string{"regular", "courier", "admin"} {
			token, err := m.Generate(7, role)
			require.NoError(t, err)

			_, parsedRole, err := m.Validate(token)
			require.NoError(t, err)
			assert.Equal(t, role, parsedRole)
		}
	})

	t.Run("Invalid token - wrong secret", func(t *testing.T) {
		m1 := NewManager(secretKey, tokenTTL)
		token, err := m1.Generate(12345, "regular")
		require.NoError(t, err)

		m2 := NewManager("wrong-secret", tokenTTL)
		_, _, err = m2.Validate(token)
		assert.Error(t, err)
	})

	t.Run("Invalid token - malformed", func(t *testing.T) {
		m := NewManager(secretKey, tokenTTL)
		_, _, err := m.Validate("invalid.token.string")
		assert.Error(t, err)
	})

	t.Run("Invalid token - empty", func(t *testing.T) {
		m := NewManager(secretKey, tokenTTL)
		_, _, err := m.Validate("")
		assert.Error(t, err)
	})

	t.Run("Expired token", func(t *testing.T) {
		m := NewManager(secretKey, time.Nanosecond)
		token, err := m.Generate(12345, "regular")
		require.NoError(t, err)

		// Ждем, чтобы токен истек
		time.Sleep(time.Millisecond * 10)

		_, _, err = m.Validate(token)
		assert.Error(t, err)
	})
}

func TestManager_ValidateWithInvalidSigningMethod(t *testing.T) {
	m := NewManager("secret", time.Hour)

	// Токен с alg=none не принимается
	_, _, err := m.Validate("eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJ1c2VyX2lkIjoxMjM0NX0.")
	assert.Error(t, err)
}
