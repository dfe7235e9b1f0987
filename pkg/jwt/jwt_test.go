package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	service := NewService("test-secret-key")

	assert.Equal(t, []byte("test-secret-key"), service.secretKey)
	assert.Equal(t, defaultTTL, service.ttl)
}

func TestNewServiceWithTTL_NonPositiveFallsBack(t *testing.T) {
	service := NewServiceWithTTL("k", -time.Minute)
	assert.Equal(t, defaultTTL, service.ttl)
}

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewService("test-secret-key")

	token, err := service.GenerateToken("42", "moderator")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, time.Now().Before(claims.ExpiresAt.Time))
}

func TestGenerateToken_UniqueIDs(t *testing.T) {
	service := NewService("test-secret-key")

	a, err := service.GenerateToken("1", "user")
	require.NoError(t, err)
	b, err := service.GenerateToken("1", "user")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestValidateToken_Invalid(t *testing.T) {
	service := NewService("test-secret-key")

	_, err := service.ValidateToken("")
	assert.Error(t, err)

	_, err = service.ValidateToken("invalid-token")
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewService("secret-key-1").GenerateToken("1", "user")
	require.NoError(t, err)

	_, err = NewService("secret-key-2").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	service := NewService("test-secret-key")
	claims := &Claims{
		UserID: "1",
		Role:   "user",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(service.secretKey)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestValidateToken_UnexpectedSigningMethod(t *testing.T) {
	service := NewService("test-secret-key")
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, &Claims{UserID: "1"}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}
