// Package token implements the stateless account-activation token service.
//
// A token is a signed credential bound to a user and to that user's
// activation state at issue time. Nothing is persisted server-side:
// verification is a pure function of the signing secret and the current user
// row. Because the embedded state hash covers the active flag, flipping a
// user to active invalidates every token issued while the user was inactive,
// including unexpired ones.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"lumagram/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// MaxAge is the validity window of an activation token.
const MaxAge = 24 * time.Hour

// Service issues and verifies activation tokens.
type Service struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

type activationClaims struct {
	// StateHash binds the token to (user id, issue time, active flag).
	StateHash string `json:"sth"`
	jwt.RegisteredClaims
}

// NewService returns a token service signing with the given secret.
func NewService(secret string) *Service {
	return &Service{
		secret: []byte(secret),
		maxAge: MaxAge,
		now:    time.Now,
	}
}

// Issue creates an activation token for the given user.
func (s *Service) Issue(user *models.User) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("activation token secret not configured")
	}

	now := s.now()
	claims := activationClaims{
		StateHash: s.stateHash(user.ID, now.Unix(), user.Active),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify reports whether tokenString is a valid, unexpired activation token
// for the given user in the user's current state. It returns false on any
// signature mismatch, malformed claims, subject mismatch, age beyond the
// 24-hour window, or state-hash mismatch against the current user row.
func (s *Service) Verify(tokenString string, user *models.User) bool {
	if user == nil {
		return false
	}

	var claims activationClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return false
	}

	if claims.Subject != strconv.FormatUint(uint64(user.ID), 10) {
		return false
	}
	if claims.IssuedAt == nil {
		return false
	}

	age := s.now().Sub(claims.IssuedAt.Time)
	if age < 0 || age > s.maxAge {
		return false
	}

	// Recompute against the *current* user row. A state change since issue
	// (activation) makes every outstanding token stale.
	want := s.stateHash(user.ID, claims.IssuedAt.Unix(), user.Active)
	return hmac.Equal([]byte(want), []byte(claims.StateHash))
}

func (s *Service) stateHash(userID uint, issuedAt int64, active bool) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d|%d|%t", userID, issuedAt, active)
	return hex.EncodeToString(mac.Sum(nil))
}

// EncodeUID encodes a user id as the opaque uidb64 path segment used in
// activation links.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

// DecodeUID decodes a uidb64 path segment back into a user id.
func DecodeUID(uidb64 string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uidb64)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(string(raw), 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	return uint(id), nil
}
