package auth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIDPIssuer = "https://idp.example.com"
	testIDPClient = "pizza-web"
)

func signHS(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss": Issuer,
		"aud": "cli",
		"sub": "user-1",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
}

func TestJWTVerifier(t *testing.T) {
	verifier := NewJWTVerifier([]byte(testSecret))
	ctx := context.Background()

	t.Run("accepts own tokens", func(t *testing.T) {
		id, err := verifier.Verify(ctx, signHS(t, testSecret, validClaims()))
		require.NoError(t, err)
		assert.Equal(t, "user-1", id.Subject)
		assert.Equal(t, "cli", id.ClientID)
	})

	tests := []struct {
		name   string
		secret string
		mutate func(jwt.MapClaims)
	}{
		{"wrong secret", "another-secret", func(jwt.MapClaims) {}},
		{"expired", testSecret, func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() }},
		{"missing exp", testSecret, func(c jwt.MapClaims) { delete(c, "exp") }},
		{"foreign issuer", testSecret, func(c jwt.MapClaims) { c["iss"] = "someone-else" }},
		{"missing subject", testSecret, func(c jwt.MapClaims) { delete(c, "sub") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			tt.mutate(claims)
			_, err := verifier.Verify(ctx, signHS(t, tt.secret, claims))
			assert.Error(t, err)
		})
	}

	t.Run("rejects none algorithm", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = verifier.Verify(ctx, raw)
		assert.Error(t, err)
	})
}

func newTestOIDCVerifier(t *testing.T) (*OIDCVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	return NewOIDCVerifierFrom(oidc.NewVerifier(testIDPIssuer, keySet, &oidc.Config{ClientID: testIDPClient})), key
}

func signRS(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func idpClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":         testIDPIssuer,
		"aud":         testIDPClient,
		"sub":         "idp|42",
		"iat":         now.Unix(),
		"exp":         now.Add(time.Hour).Unix(),
		"email":       "ada@example.com",
		"given_name":  "Ada",
		"family_name": "Lovelace",
		"picture":     "https://cdn.example.com/ada.png",
	}
}

func TestOIDCVerifier(t *testing.T) {
	verifier, key := newTestOIDCVerifier(t)
	ctx := context.Background()

	id, err := verifier.Verify(ctx, signRS(t, key, idpClaims()))
	require.NoError(t, err)
	assert.Equal(t, "idp|42", id.Subject)
	require.NotNil(t, id.Email)
	assert.Equal(t, "ada@example.com", *id.Email)
	assert.Equal(t, "Ada", id.FirstName)
	assert.Equal(t, "Lovelace", id.LastName)
	assert.Equal(t, "https://cdn.example.com/ada.png", id.Picture)
	assert.True(t, id.External)

	claims := idpClaims()
	claims["aud"] = "some-other-app"
	_, err = verifier.Verify(ctx, signRS(t, key, claims))
	assert.Error(t, err)

	claims = idpClaims()
	delete(claims, "email")
	id, err = verifier.Verify(ctx, signRS(t, key, claims))
	require.NoError(t, err)
	assert.Nil(t, id.Email)
}

func TestChainVerifier(t *testing.T) {
	oidcVerifier, key := newTestOIDCVerifier(t)
	chain := ChainVerifier{NewJWTVerifier([]byte(testSecret)), oidcVerifier}
	ctx := context.Background()

	id, err := chain.Verify(ctx, signHS(t, testSecret, validClaims()))
	require.NoError(t, err)
	assert.False(t, id.External)

	id, err = chain.Verify(ctx, signRS(t, key, idpClaims()))
	require.NoError(t, err)
	assert.True(t, id.External)

	_, err = chain.Verify(ctx, "not-a-token")
	assert.Error(t, err)

	_, err = ChainVerifier{}.Verify(ctx, "anything")
	assert.True(t, errors.Is(err, ErrNoVerifier))
}
