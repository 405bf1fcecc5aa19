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

	"github.com/go-auth-nosql/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyPair(t *testing.T) (privPath, pubPath string) {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath = filepath.Join(dir, "private.pem")
	pubPath = filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))
	return privPath, pubPath
}

func TestProvider_HS256_RoundTrip(t *testing.T) {
	p, err := NewProvider(&config.Config{JWTSecret: "s3cret", JWTExpiry: 7 * 24 * time.Hour})
	require.NoError(t, err)

	token, err := p.Sign("u1")
	require.NoError(t, err)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID())
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestProvider_RS256_RoundTrip(t *testing.T) {
	privPath, pubPath := writeKeyPair(t)
	p, err := NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiry:         time.Hour,
	})
	require.NoError(t, err)

	token, err := p.Sign("u2")
	require.NoError(t, err)
	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u2", claims.UserID())
}

func TestProvider_NoKey(t *testing.T) {
	_, err := NewProvider(&config.Config{})
	assert.Error(t, err)
}

func TestProvider_WrongSecret(t *testing.T) {
	a, err := NewProvider(&config.Config{JWTSecret: "a", JWTExpiry: time.Hour})
	require.NoError(t, err)
	b, err := NewProvider(&config.Config{JWTSecret: "b", JWTExpiry: time.Hour})
	require.NoError(t, err)

	token, err := a.Sign("u1")
	require.NoError(t, err)
	_, err = b.Verify(token)
	assert.Error(t, err)
}

func TestProvider_Expired(t *testing.T) {
	p, err := NewProvider(&config.Config{JWTSecret: "s3cret", JWTExpiry: time.Hour})
	require.NoError(t, err)
	p.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := p.Sign("u1")
	require.NoError(t, err)

	p.now = time.Now
	_, err = p.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestProvider_RejectsAlgorithmSwitch(t *testing.T) {
	p, err := NewProvider(&config.Config{JWTSecret: "s3cret", JWTExpiry: time.Hour})
	require.NoError(t, err)

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Verify(unsigned)
	assert.Error(t, err)
}

func TestProvider_EmptySubject(t *testing.T) {
	p, err := NewProvider(&config.Config{JWTSecret: "s3cret", JWTExpiry: time.Hour})
	require.NoError(t, err)
	token, err := p.Sign("")
	require.NoError(t, err)
	_, err = p.Verify(token)
	assert.Error(t, err)
}
