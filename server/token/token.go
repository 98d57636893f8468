// Package token issues and validates the bearer JWTs used to authenticate
// against the refa HTTP API, grounded on the teacher's server package JWT
// handling (generateJWTForUser/verifyJWT) but simplified to a single shared
// API key rather than a per-user store.
package token

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "refaserve"

// Issue returns a signed JWT good for one hour, HMAC-signed with secret.
func Issue(secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"iss": issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies tok against secret, returning an error if it
// is malformed, expired, or signed with the wrong key.
func Validate(tok string, secret []byte) error {
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	return err
}

// Get extracts the bearer token from an Authorization header, grounded on
// the teacher's token.Get helper.
func Get(req *http.Request) (string, error) {
	hdr := req.Header.Get("Authorization")
	if hdr == "" {
		return "", fmt.Errorf("no Authorization header present")
	}

	parts := strings.SplitN(hdr, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("Authorization header is not a Bearer token")
	}

	return strings.TrimSpace(parts[1]), nil
}
