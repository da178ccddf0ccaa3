package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-market/metadata-sync/internal/api/middleware"
	"github.com/mosaic-market/metadata-sync/internal/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// newSigningKey generates an RSA key pair and returns the private key with
// the public key in PEM format
func newSigningKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(publicPEM)
}

func signedToken(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthenticate_APIKey(t *testing.T) {
	cfg := middleware.AuthConfig{APIKeys: []string{"key-one", "key-two"}}

	tests := []struct {
		name       string
		authHeader string
		success    bool
	}{
		{
			name:       "valid key",
			authHeader: "apikey key-one",
			success:    true,
		},
		{
			name:       "second configured key",
			authHeader: "APIKEY key-two",
			success:    true,
		},
		{
			name:       "unknown key",
			authHeader: "apikey nope",
			success:    false,
		},
		{
			name:       "missing header",
			authHeader: "",
			success:    false,
		},
		{
			name:       "malformed header",
			authHeader: "key-one",
			success:    false,
		},
		{
			name:       "unsupported scheme",
			authHeader: "basic dXNlcjpwYXNz",
			success:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := middleware.Authenticate(tt.authHeader, cfg)
			assert.Equal(t, tt.success, result.Success)
			if tt.success {
				assert.Equal(t, "apikey", result.AuthType)
			} else {
				assert.Error(t, result.Error)
			}
		})
	}
}

func TestAuthenticate_JWT(t *testing.T) {
	key, publicPEM := newSigningKey(t)
	cfg := middleware.AuthConfig{JWTPublicKey: publicPEM}

	t.Run("valid token", func(t *testing.T) {
		token := signedToken(t, key, jwt.RegisteredClaims{
			Subject:   "creator-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})

		result := middleware.Authenticate("Bearer "+token, cfg)
		require.True(t, result.Success)
		assert.Equal(t, "jwt", result.AuthType)
		assert.Equal(t, "creator-42", result.AuthSubject)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signedToken(t, key, jwt.RegisteredClaims{
			Subject:   "creator-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		})

		result := middleware.Authenticate("Bearer "+token, cfg)
		assert.False(t, result.Success)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		otherKey, _ := newSigningKey(t)
		token := signedToken(t, otherKey, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})

		result := middleware.Authenticate("Bearer "+token, cfg)
		assert.False(t, result.Success)
	})

	t.Run("no public key configured", func(t *testing.T) {
		token := signedToken(t, key, jwt.RegisteredClaims{})

		result := middleware.Authenticate("Bearer "+token, middleware.AuthConfig{})
		assert.False(t, result.Success)
	})
}
