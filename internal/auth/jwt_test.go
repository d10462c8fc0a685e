package auth

import (
	"strings"
	"testing"
	"time"

	"dragons-den/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func withSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{Auth: config.AuthConfig{JWTSecret: secret, TokenExpiration: time.Hour}}
	t.Cleanup(func() { config.GlobalConfig = prev })
}

func TestGenerateAndValidateJWT(t *testing.T) {
	withSecret(t, testSecret)

	token, err := GenerateJWT(User{ID: "keeper-1", Username: "ember", Email: "ember@den.test"})
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "keeper-1", claims.UserID)
	assert.Equal(t, User{ID: "keeper-1", Username: "ember", Email: "ember@den.test"}, claims.User())
}

func TestGenerateJWTRequiresUserID(t *testing.T) {
	withSecret(t, testSecret)
	_, err := GenerateJWT(User{})
	assert.Error(t, err)
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	withSecret(t, testSecret)
	token, err := GenerateJWT(User{ID: "keeper-1"})
	require.NoError(t, err)

	_, err = ValidateJWT(token[:len(token)-2] + "xx")
	assert.Error(t, err)

	_, err = ValidateJWT(strings.Repeat("a", 20))
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	withSecret(t, testSecret)
	claims := Claims{
		UserID: "keeper-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestShortSecretRefused(t *testing.T) {
	withSecret(t, "short")
	_, err := GenerateJWT(User{ID: "keeper-1"})
	assert.Error(t, err)
}
