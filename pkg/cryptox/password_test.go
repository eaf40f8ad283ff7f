package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Set up a temporary pepper file for testing
	tmpDir := os.TempDir()
	pepperPath := filepath.Join(tmpDir, "lantern-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.Contains(t, parts[3], "m=")
			require.Contains(t, parts[3], "t=")
			require.Contains(t, parts[3], "p=")
			require.NotEmpty(t, parts[4])
			require.NotEmpty(t, parts[5])
		})
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2, "each hash should use a fresh salt")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret1")
	require.NoError(t, err)

	t.Run("correct password verifies", func(t *testing.T) {
		require.NoError(t, VerifyPassword("Secret1", hash))
	})

	t.Run("wrong password is a mismatch", func(t *testing.T) {
		require.ErrorIs(t, VerifyPassword("secret1", hash), ErrPasswordMismatch)
		require.ErrorIs(t, VerifyPassword("", hash), ErrPasswordMismatch)
	})

	t.Run("malformed hash errors", func(t *testing.T) {
		require.Error(t, VerifyPassword("Secret1", "not-a-phc-hash"))
		require.Error(t, VerifyPassword("Secret1", "$argon2id$v=19$m=19456,t=2,p=1$bad"))
	})
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for range 10 {
		pw, err := GeneratePassword()
		require.NoError(t, err)
		require.Len(t, pw, 12)
		require.False(t, seen[pw], "generated passwords should not repeat")
		seen[pw] = true
	}
}
