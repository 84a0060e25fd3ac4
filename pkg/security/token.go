package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind discriminates what a token may be used for. A token of one
// kind is never accepted where the other is expected.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenConfirm TokenKind = "confirmation"
)

const (
	// Access tokens ride along on every request, so they stay short-lived
	AccessTokenTTL = 30 * time.Minute
	// Confirmation tokens travel by email and need time to be read
	ConfirmTokenTTL = 24 * time.Hour
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenWrongKind = errors.New("token has wrong kind")
)

// TokenCodec issues and verifies signed, stateless, expiring tokens.
// Nothing is persisted; validity is bounded by signature and exp alone.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue creates a signed token naming subject, valid for ttl from now.
func (t *TokenCodec) Issue(subject string, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"type": string(kind),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})

	return tok.SignedString(t.secret)
}

// Verify checks signature, expiry and kind, in that order, and returns
// the embedded subject. The three failure modes stay distinct so callers
// can tell an expired token from a forged or misused one.
func (t *TokenCodec) Verify(tokenStr string, expectedKind TokenKind) (string, error) {
	tok, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (any, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}

		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}

		return "", ErrTokenMalformed
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", ErrTokenMalformed
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", ErrTokenMalformed
	}

	kind, ok := claims["type"].(string)
	if !ok {
		return "", ErrTokenMalformed
	}

	if TokenKind(kind) != expectedKind {
		return "", ErrTokenWrongKind
	}

	return subject, nil
}
