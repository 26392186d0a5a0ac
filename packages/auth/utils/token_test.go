package utils

import (
	"testing"
	"time"

	"owl-league/packages/auth/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	resp, err := issuer.IssueAdminToken()
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(AdminTokenExpiry.Seconds()), resp.ExpiresIn)

	claims, err := issuer.Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Empty(t, claims.Week)
}

func TestWeekTokenCarriesWeek(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	resp, err := issuer.IssueWeekToken("16/10/2024", "nonce-1")
	require.NoError(t, err)
	assert.Equal(t, "16/10/2024", resp.Week)

	claims, err := issuer.Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleWeek, claims.Role)
	assert.Equal(t, "16/10/2024", claims.Week)
	assert.Equal(t, "nonce-1", claims.Lock)

	_, err = issuer.IssueWeekToken("16/10/2024", "")
	assert.Error(t, err)
}

func TestParseRejectsWeekTokenWithoutLock(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	resp, err := issuer.sign(models.RoleWeek, "16/10/2024", "", UnlockTokenExpiry)
	require.NoError(t, err)

	_, err = issuer.Parse(resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	resp, err := issuer.IssueAdminToken()
	require.NoError(t, err)

	_, err = NewTokenIssuer("other").Parse(resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(AdminTokenExpiry + time.Minute) }
	_, err = issuer.Parse(resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckAdminPassword(t *testing.T) {
	assert.True(t, CheckAdminPassword("hunter2", "hunter2", ""))
	assert.False(t, CheckAdminPassword("hunter3", "hunter2", ""))
	assert.False(t, CheckAdminPassword("", "", ""))

	hash, err := HashPassword("grudge")
	require.NoError(t, err)
	assert.True(t, CheckAdminPassword("grudge", "ignored", hash))
	assert.False(t, CheckAdminPassword("ignored", "ignored", hash))
}
