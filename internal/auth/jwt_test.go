package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// signedWithClaims issues a token with our secret but arbitrary issuer and
// audience, for exercising the claim checks.
func signedWithClaims(t *testing.T, issuer, audience string) string {
	t.Helper()
	claims := Claims{
		UserID:   "u-1",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)
	return token
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("u-1", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestGenerateToken_SessionLastsSevenDays(t *testing.T) {
	token, err := GenerateToken("u-1", "alice")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	token := signedWithClaims(t, "some-other-service", jwtAudience)
	_, err := ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_WrongAudience(t *testing.T) {
	token := signedWithClaims(t, jwtIssuer, "some-other-clients")
	_, err := ValidateToken(token)
	require.Error(t, err)
}
