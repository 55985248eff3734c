package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// Issuer is stamped on every session token and required on verify.
	Issuer = "clarity"

	SessionTTL = 12 * time.Hour

	clockSkew = 30 * time.Second
	algHS256  = "HS256"
)

// Claims identify the caller of the client portal or the admin dashboard.
// ClientID is set once the caller has submitted an intake.
type Claims struct {
	Sub       string `json:"sub"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	ClientID  string `json:"cid,omitempty"`
	Issuer    string `json:"iss"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

var (
	ErrMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = fmt.Errorf("%w: expired", ErrInvalidToken)
)

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

var now = func() time.Time { return time.Now().UTC() }

// Sign issues an HS256 session token. Zero IssuedAt and ExpiresAt default
// to now and now+SessionTTL.
func Sign(c Claims) (string, error) {
	secret, err := secretKey()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(c.Sub) == "" {
		return "", errors.New("sub is required")
	}

	t := now()
	c.Issuer = Issuer
	if c.IssuedAt == 0 {
		c.IssuedAt = t.Unix()
	}
	if c.ExpiresAt == 0 {
		c.ExpiresAt = t.Add(SessionTTL).Unix()
	}

	head, err := encodeSegment(header{Alg: algHS256, Typ: "JWT"})
	if err != nil {
		return "", err
	}
	body, err := encodeSegment(c)
	if err != nil {
		return "", err
	}
	input := head + "." + body
	return input + "." + signature(input, secret), nil
}

// Verify checks the signature, algorithm, issuer and expiry of a session
// token. Expired tokens fail with ErrExpiredToken, everything else with
// ErrInvalidToken.
func Verify(token string) (Claims, error) {
	secret, err := secretKey()
	if err != nil {
		return Claims{}, err
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}
	input := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(signature(input, secret))) {
		return Claims{}, ErrInvalidToken
	}

	var h header
	if err := decodeSegment(parts[0], &h); err != nil || h.Alg != algHS256 {
		return Claims{}, ErrInvalidToken
	}
	var c Claims
	if err := decodeSegment(parts[1], &c); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if c.Sub == "" || c.Issuer != Issuer {
		return Claims{}, ErrInvalidToken
	}
	if c.ExpiresAt > 0 && now().Add(-clockSkew).Unix() > c.ExpiresAt {
		return Claims{}, ErrExpiredToken
	}
	return c, nil
}

func encodeSegment(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeSegment(seg string, v any) error {
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func signature(input string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// secretKey reads JWT_SECRET. Outside production an unset secret falls back
// to a fixed development key.
func secretKey() ([]byte, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret != "" {
		return []byte(secret), nil
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ENV"))) {
	case "production", "prod":
		return nil, fmt.Errorf("%w: JWT_SECRET required in production", ErrMissingSecret)
	}
	return []byte("dev-secret"), nil
}
