package inkwell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSignVerify(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)
	user := User{ID: 7, Username: "alice", Role: RoleEditor}

	token, err := ts.Sign(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, RoleEditor, claims.Role)
}

func TestTokenVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Sign(User{ID: 1, Username: "a", Role: RoleUser})
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	ts := NewTokenService("test-secret", -time.Minute)
	token, err := ts.Sign(User{ID: 1, Username: "a", Role: RoleUser})
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.Error(t, err)
}

func TestTokenVerifyRejectsGarbage(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := ts.Verify(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestNewTokenServicePanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() { NewTokenService("", time.Hour) })
}
