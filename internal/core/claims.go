package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"wellness-portal/pkg"
)

// ErrMalformedToken is returned when a token cannot be decoded.
var ErrMalformedToken = errors.New("core: malformed access token")

// Claims are the parts of the backend-issued token the portal reads.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// DecodeClaims reads the token payload without verifying its signature.  The
// portal never holds the signing key: the claims are a UI routing hint and
// the backend re-checks authorization on every call.  Only the middle
// segment is read; the header is not inspected.
func DecodeClaims(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected three segments", ErrMalformedToken)
	}
	payload, err := jwt.NewParser(jwt.WithPaddingAllowed()).DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// RoleFromToken returns the role claimed by token.  A token without a role
// claim belongs to a patient.
func RoleFromToken(token string) (pkg.Role, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return "", err
	}
	return pkg.ParseRole(claims.Role), nil
}
