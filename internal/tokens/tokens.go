package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of an access token: the registered sub/exp/jti
// claims plus the role the subject held when the token was minted.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func NewJTI() string { return uuid.NewString() }

// Sign mints an HS256 access token for username. Every call gets a fresh
// jti, so two tokens issued in the same instant are still distinguishable
// for revocation.
func Sign(username, role string, secret []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			ID:        NewJTI(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ClaimsFromToken validates the signature and expiry of tokenStr and
// returns its claims. Expiry failures surface as jwt.ErrTokenExpired
// inside the returned error chain.
func ClaimsFromToken(tokenStr string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return &claims, nil
}
