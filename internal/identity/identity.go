// Package identity resolves who is making a request and signs session tokens.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/models"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned for a bearer token that fails verification
var ErrInvalidToken = errors.New("invalid token")

const issuerName = "storefront-service"

// Claims is the token payload
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Issuer signs HS256 session tokens
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for userID
func (i *Issuer) Issue(userID string) (string, error) {
	now := i.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Resolver works out the user id of a request
type Resolver struct {
	secret          []byte
	trustUserHeader bool
}

// NewResolver creates a resolver. With trustUserHeader unset the X-User-ID header is ignored.
func NewResolver(secret string, trustUserHeader bool) *Resolver {
	return &Resolver{secret: []byte(secret), trustUserHeader: trustUserHeader}
}

// Resolve returns the subject of a valid bearer token, else the X-User-ID header value when
// trusted, else the guest sentinel. A bearer token that does not verify is an error.
func (r *Resolver) Resolve(authHeader, userHeader string) (string, error) {
	if token, ok := bearerToken(authHeader); ok {
		return r.parse(token)
	}
	if id := strings.TrimSpace(userHeader); id != "" && r.trustUserHeader {
		return id, nil
	}
	return models.GuestUserID, nil
}

func (r *Resolver) parse(raw string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return id, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
