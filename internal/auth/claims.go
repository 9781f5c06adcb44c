package auth

import "context"

type contextKey string

var sessionClaimsKey contextKey = "session_claims"

// SetSessionClaims attaches verified claims to the request context.
// The transport layer calls this after Verify so services can load the
// actor without re-parsing the token.
func SetSessionClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, sessionClaimsKey, claims)
}

// GetSessionClaims returns the claims stored on the context, or nil.
func GetSessionClaims(ctx context.Context) *SessionClaims {
	if claims, ok := ctx.Value(sessionClaimsKey).(*SessionClaims); ok {
		return claims
	}
	return nil
}
