// Package auth provides credential verification and password hashing.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers with email/name/password → password is bcrypt-hashed
// 2. User logs in → server issues a JWT carrying the user ID and email
// 3. Client sends "Authorization: Bearer <token>" on subsequent requests
// 4. Middleware verifies the token and attaches the identity to the context
// 5. The authorization gate (internal/authz) decides whether that identity
//    may perform the requested operation
//
// The token is self-contained: verification needs only the shared secret,
// never a storage lookup. Possession of a valid, unexpired token IS the
// identity — there is no server-side session state.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime bounds how long an issued credential can act.
const TokenLifetime = time.Hour

const issuer = "feedboard"

// Identity is the result of credential verification. The zero value is the
// anonymous identity — a request with no token, a malformed header, a bad
// signature, and an expired token all look identical to downstream code.
type Identity struct {
	UserID string
	Email  string
}

// Anonymous reports whether this identity carries no authenticated user.
func (id Identity) Anonymous() bool {
	return id.UserID == ""
}

// TokenService issues and verifies the signed session credentials.
//
// It holds the HMAC secret used to sign and verify tokens. The same secret
// must be used for both operations — inject it once at startup, never read
// it from a global.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. RegisteredClaims provides the standard fields
// (Subject, IssuedAt, ExpiresAt, Issuer); we add the email so the identity
// is complete without a storage round-trip.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given user.
//
// Lifetime: one hour. After expiry the client must log in again — there is
// no refresh-token rotation in this service.
//
// Signing algorithm: HS256 (HMAC-SHA256). Symmetric — same key signs and
// verifies, which is fine for a single-server deployment.
func (s *TokenService) Issue(userID, email string) (string, error) {
	return s.IssueWithLifetime(userID, email, TokenLifetime)
}

// IssueWithLifetime creates a token with a custom lifetime. Used by tests to
// mint already-expired tokens.
func (s *TokenService) IssueWithLifetime(userID, email string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// VerifyHeader turns a raw Authorization header value into an Identity.
//
// It NEVER returns an error. A missing header, a header without the Bearer
// scheme, a tampered signature, and an expired token all yield the anonymous
// identity. Failure to authenticate is indistinguishable from not trying —
// deciding whether anonymity is acceptable belongs to the authorization
// gate, not here.
func (s *TokenService) VerifyHeader(header string) Identity {
	scheme, tokenStr, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
		return Identity{}
	}
	return s.Verify(tokenStr)
}

// Verify parses and checks a bare token string, returning the identity it
// encodes or anonymous if anything about it is off.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches (prevents tokens minted by other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
func (s *TokenService) Verify(tokenStr string) Identity {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return Identity{}
	}

	return Identity{UserID: c.Subject, Email: c.Email}
}
