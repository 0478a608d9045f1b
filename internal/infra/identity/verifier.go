package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

// CodeInvalidToken tags rejected bearer tokens.
const CodeInvalidToken = "invalid_token"

// FirebaseVerifier validates Firebase ID tokens.
type FirebaseVerifier struct {
	client *firebaseauth.Client
}

// NewFirebaseVerifier wraps a Firebase auth client.
func NewFirebaseVerifier(client *firebaseauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// Verify returns the Firebase uid carried by token.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", apperrors.Wrap(CodeInvalidToken, "invalid token", err)
	}
	return decoded.UID, nil
}

// JWTVerifier validates HS256 tokens signed with a shared secret.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier builds a verifier for secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify returns the token subject.
func (v *JWTVerifier) Verify(_ context.Context, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", apperrors.Wrap(CodeInvalidToken, "invalid token", err)
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", apperrors.Wrap(CodeInvalidToken, "invalid token", errors.New("subject missing"))
	}
	return claims.Subject, nil
}

// PassthroughVerifier treats the bearer token as the user id. Development only.
type PassthroughVerifier struct{}

// Verify returns token unchanged.
func (PassthroughVerifier) Verify(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.Wrap(CodeInvalidToken, "invalid token", errors.New("empty token"))
	}
	return token, nil
}
