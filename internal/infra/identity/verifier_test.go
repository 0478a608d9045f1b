package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

func signed(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTVerifier(t *testing.T) {
	verifier := NewJWTVerifier("s3cret")
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	uid, err := verifier.Verify(context.Background(), signed(t, "s3cret", jwt.RegisteredClaims{Subject: "user-7", ExpiresAt: future}))
	require.NoError(t, err)
	require.Equal(t, "user-7", uid)

	cases := map[string]string{
		"wrong secret": signed(t, "other", jwt.RegisteredClaims{Subject: "user-7", ExpiresAt: future}),
		"expired":      signed(t, "s3cret", jwt.RegisteredClaims{Subject: "user-7", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}),
		"no expiry":    signed(t, "s3cret", jwt.RegisteredClaims{Subject: "user-7"}),
		"no subject":   signed(t, "s3cret", jwt.RegisteredClaims{ExpiresAt: future}),
		"garbage":      "abc.def.ghi",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), token)
			require.True(t, apperrors.IsCode(err, CodeInvalidToken))
		})
	}
}

func TestPassthroughVerifier(t *testing.T) {
	uid, err := PassthroughVerifier{}.Verify(context.Background(), " dev-user ")
	require.NoError(t, err)
	require.Equal(t, "dev-user", uid)

	_, err = PassthroughVerifier{}.Verify(context.Background(), "  ")
	require.Error(t, err)
}
