// Package auth issues and verifies the signed identity tokens handed to
// clients by POST /jwt.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of every issued token.
const TokenTTL = time.Hour

var (
	// ErrTokenInvalid covers bad signatures, unexpected algorithms and
	// malformed tokens.
	ErrTokenInvalid = errors.New("auth: invalid token")
	// ErrTokenExpired is returned once a token is past its exp claim.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrMissingEmail is returned by Issue when the identity has no email.
	ErrMissingEmail = errors.New("auth: identity claims must include an email")
)

// Identity is the caller-supplied part of a token. Any claim other than
// email and name is kept in Extra and signed as-is.
type Identity struct {
	Email string `json:"email" validate:"required"`
	Name  string `json:"name,omitempty"`

	// Extra is never consulted for authorization; a "role" here means
	// nothing to the admin guard.
	Extra map[string]any `json:"-"`
}

// registered are the claim names the service sets itself.
var registered = map[string]bool{
	"iss": true, "sub": true, "aud": true, "exp": true, "nbf": true, "iat": true, "jti": true,
}

func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.payload())
}

func (id *Identity) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	return id.fromPayload(raw)
}

func (id Identity) payload() map[string]any {
	out := make(map[string]any, len(id.Extra)+2)
	for k, v := range id.Extra {
		out[k] = v
	}
	out["email"] = id.Email
	if id.Name != "" {
		out["name"] = id.Name
	} else {
		delete(out, "name")
	}
	return out
}

func (id *Identity) fromPayload(raw map[string]any) error {
	*id = Identity{}
	var err error
	if id.Email, err = stringClaim(raw, "email"); err != nil {
		return err
	}
	if id.Name, err = stringClaim(raw, "name"); err != nil {
		return err
	}
	delete(raw, "email")
	delete(raw, "name")
	if len(raw) > 0 {
		id.Extra = raw
	}
	return nil
}

func stringClaim(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("auth: claim %q must be a string", key)
	}
	return s, nil
}

// Claims holds the JWT payload. There is no role claim: authorization
// always re-reads the role from storage.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// MarshalJSON flattens the identity, its extra claims and the registered
// claims into one object. Registered claims win over extras of the same name.
func (c Claims) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	for k, v := range c.Identity.payload() {
		if !registered[k] {
			out[k] = v
		}
	}

	reg, err := json.Marshal(c.RegisteredClaims)
	if err != nil {
		return nil, err
	}
	var regFields map[string]json.RawMessage
	if err := json.Unmarshal(reg, &regFields); err != nil {
		return nil, err
	}
	for k, v := range regFields {
		out[k] = v
	}
	return json.Marshal(out)
}

func (c *Claims) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &c.RegisteredClaims); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k := range registered {
		delete(raw, k)
	}
	return c.Identity.fromPayload(raw)
}

// TokenService signs and verifies HS256 tokens with a single secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a service using secret as the HMAC key.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// WithClock returns a copy of s reading the time from now. Used in tests to
// move past expiry without sleeping.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// Issue signs id into a token that expires TokenTTL from now. Registered
// claims in id.Extra are replaced by the service's own.
func (s *TokenService) Issue(id Identity) (string, error) {
	id.Email = strings.TrimSpace(id.Email)
	if id.Email == "" {
		return "", ErrMissingEmail
	}
	if len(id.Extra) > 0 {
		extra := make(map[string]any, len(id.Extra))
		for k, v := range id.Extra {
			if !registered[k] {
				extra[k] = v
			}
		}
		id.Extra = extra
		if len(extra) == 0 {
			id.Extra = nil
		}
	}

	now := s.now()
	claims := Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

// Verify parses t and checks signature and expiry.
func (s *TokenService) Verify(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
