package authstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore("")
	_, err := s.Token()
	assert.ErrorIs(t, err, ErrNoToken)

	s.SetAuthHeader(strPtr("abc"))
	token, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	s.SetAuthHeader(nil)
	_, err = s.Token()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials")
	s := NewFileStore(path, nil)

	_, err := s.Token()
	assert.ErrorIs(t, err, ErrNoToken)

	s.SetAuthHeader(strPtr("secret"))
	token, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "secret", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A second store on the same file sees the saved session.
	other := NewFileStore(path, nil)
	token, err = other.Token()
	require.NoError(t, err)
	assert.Equal(t, "secret", token)

	s.SetAuthHeader(nil)
	_, err = other.Token()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestFileStoreKeepsOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	require.NoError(t, os.WriteFile(path, []byte("[profile]\nname = ops\n"), 0600))

	s := NewFileStore(path, nil)
	require.NoError(t, s.Save(strPtr("t1")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name")
	assert.Contains(t, string(data), "t1")
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestInspect(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"sub": "alice",
			"iss": "users-api",
			"exp": now.Add(time.Hour).Unix(),
		})
		info, err := Inspect(token, now)
		require.NoError(t, err)
		assert.Equal(t, "alice", info.Subject)
		assert.Equal(t, "users-api", info.Issuer)
		assert.False(t, info.Expired)
		assert.Equal(t, now.Add(time.Hour).Unix(), info.ExpiresAt.Unix())
	})

	t.Run("expired", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "bob", "exp": now.Add(-time.Minute).Unix()})
		info, err := Inspect(token, now)
		require.NoError(t, err)
		assert.True(t, info.Expired)
	})

	t.Run("no expiry", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "carol"})
		info, err := Inspect(token, now)
		require.NoError(t, err)
		assert.False(t, info.Expired)
		assert.True(t, info.ExpiresAt.IsZero())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Inspect("not-a-jwt", now)
		assert.Error(t, err)
	})
}
