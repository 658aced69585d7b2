package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetSecret("test-secret")
	t.Cleanup(func() { SetSecret("secret") })

	token, err := GenerateToken("u1", "c1", []string{"GivingApi.Donations.Edit"}, []ApiToken{{KeyName: "GivingApi", JWT: "giving-jwt"}})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "c1", claims.ChurchID)
	assert.Equal(t, token, claims.Raw)
	assert.True(t, claims.HasPermission("GivingApi.Donations.Edit"))
	assert.False(t, claims.HasPermission("GivingApi.Donations.View"))

	jwt, ok := claims.TokenFor("GivingApi")
	assert.True(t, ok)
	assert.Equal(t, "giving-jwt", jwt)
	_, ok = claims.TokenFor("MembershipApi")
	assert.False(t, ok)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	SetSecret("one")
	token, err := GenerateToken("u1", "c1", nil, nil)
	require.NoError(t, err)

	SetSecret("two")
	t.Cleanup(func() { SetSecret("secret") })

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestNilClaims(t *testing.T) {
	var c *UserClaims
	assert.False(t, c.HasPermission("x"))
	_, ok := c.TokenFor("x")
	assert.False(t, ok)
}
