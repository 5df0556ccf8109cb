package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

func TestGeneratePairRoundTrip(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := tm.GeneratePair("user-1", domain.RoleStudent)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := tm.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleStudent, claims.Role)

	refreshClaims, err := tm.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refreshClaims.UserID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := tm.GeneratePair("user-1", domain.RoleFaculty)
	require.NoError(t, err)

	_, err = tm.ParseAccess(pair.RefreshToken)
	assert.Error(t, err, "refresh token must not validate as access token")

	_, err = tm.ParseRefresh(pair.AccessToken)
	assert.Error(t, err, "access token must not validate as refresh token")
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	other := NewTokenManager("different", "different", 15*time.Minute, time.Hour)

	pair, err := tm.GeneratePair("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = other.ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := &TokenManager{
		accessSecret:  []byte("access-secret"),
		refreshSecret: []byte("refresh-secret"),
		accessTTL:     -time.Minute,
		refreshTTL:    time.Hour,
	}

	pair, err := tm.GeneratePair("user-1", domain.RoleStudent)
	require.NoError(t, err)

	_, err = tm.ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestNewResetToken(t *testing.T) {
	raw, hash, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 40, "20 random bytes hex encoded")
	assert.Equal(t, HashResetToken(raw), hash)
	assert.NotEqual(t, raw, hash)

	raw2, hash2, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
	assert.NotEqual(t, hash, hash2)
}
