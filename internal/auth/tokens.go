package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"koinonia/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the single failure a caller ever sees from
// Verify. Malformed tokens, bad signatures, and expired tokens all
// collapse into it so nothing leaks about why verification failed.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is the decoded identity carried by a session token.
// Tokens are stateless: revocation happens through the live status
// check on each protected operation, never through a blacklist.
type SessionClaims struct {
	UserID uint
	Role   constants.Role
	OrgID  uint
}

type jwtClaims struct {
	Role string `json:"role"`
	Org  uint   `json:"org"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates HS256-signed session tokens.
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer creates a token issuer signing with the given secret
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue signs a session token for the given claims and ttl.
func (t *TokenIssuer) Issue(c SessionClaims, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwtClaims{
		Role: string(c.Role),
		Org:  c.OrgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(c.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token.
func (t *TokenIssuer) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &SessionClaims{
		UserID: uint(sub),
		Role:   constants.Role(claims.Role),
		OrgID:  claims.Org,
	}, nil
}
