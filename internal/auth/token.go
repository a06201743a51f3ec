package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const tokenTTL = 24 * time.Hour

var ErrNotConfigured = errors.New("auth secret is not configured")

type tokenPayload struct {
	Role string `json:"role"`
	Exp  int64  `json:"exp"` // epoch milliseconds
}

// Service mints and verifies stateless admin bearer tokens. A token is
// base64url(payload) + "." + base64url(HMAC-SHA256(payload)); validity is
// solely signature plus expiry, there is no revocation list.
type Service struct {
	secret   string
	password string
	now      func() time.Time
}

func NewService(secret, password string) *Service {
	return &Service{secret: secret, password: password, now: time.Now}
}

// CheckPassword compares the operator password. An unconfigured password
// rejects everything; "unset" never means "any password works".
func (s *Service) CheckPassword(password string) bool {
	if s.password == "" {
		return false
	}
	return password == s.password
}

// Mint issues an admin token valid for 24 hours.
func (s *Service) Mint() (string, error) {
	if s.secret == "" {
		return "", ErrNotConfigured
	}

	payload := tokenPayload{
		Role: "admin",
		Exp:  s.now().Add(tokenTTL).UnixMilli(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + s.sign(encoded), nil
}

// Verify reports whether token is a currently valid admin token. Every
// failure mode collapses to false; callers get a uniform "not authorized".
func (s *Service) Verify(token string) bool {
	if s.secret == "" {
		return false
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}

	if !hmac.Equal([]byte(s.sign(parts[0])), []byte(parts[1])) {
		return false
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return false
	}
	if payload.Role != "admin" {
		return false
	}
	if payload.Exp < s.now().UnixMilli() {
		return false
	}

	return true
}

// Authorize strips the Bearer scheme from an Authorization header value and
// verifies the remaining token.
func (s *Service) Authorize(header string) bool {
	if header == "" {
		return false
	}
	return s.Verify(strings.TrimPrefix(header, "Bearer "))
}

func (s *Service) sign(encodedPayload string) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
