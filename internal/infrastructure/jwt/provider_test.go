package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-signup-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestKeys(t *testing.T, key *rsa.PrivateKey) (privPath, pubPath string) {
	t.Helper()
	dir := t.TempDir()

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	privPath = filepath.Join(dir, "private.pem")
	pubPath = filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0o600))
	return privPath, pubPath
}

func newTestProvider(t *testing.T, expiry time.Duration) *Provider {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privPath, pubPath := writeTestKeys(t, key)

	p, err := NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiry:         expiry,
	})
	require.NoError(t, err)
	return p
}

func TestSignAndVerify(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	token, err := p.Sign("u1", "user", "sess1")
	require.NoError(t, err)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "sess1", claims.SessionID)
}

func TestVerify_ExpiredToken(t *testing.T) {
	p := newTestProvider(t, -time.Minute)

	token, err := p.Sign("u1", "user", "sess1")
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.Error(t, err)
}

func TestVerify_TamperedToken(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	token, err := p.Sign("u1", "user", "sess1")
	require.NoError(t, err)

	_, err = p.Verify(token + "x")
	assert.Error(t, err)
}

func TestVerify_TokenFromAnotherKey(t *testing.T) {
	p1 := newTestProvider(t, time.Hour)
	p2 := newTestProvider(t, time.Hour)

	token, err := p1.Sign("u1", "user", "sess1")
	require.NoError(t, err)

	_, err = p2.Verify(token)
	assert.Error(t, err)
}

func TestNewProvider_MissingKeyFiles(t *testing.T) {
	_, err := NewProvider(&config.Config{
		JWTPrivateKeyPath: "/nonexistent/private.pem",
		JWTPublicKeyPath:  "/nonexistent/public.pem",
	})
	assert.Error(t, err)
}
