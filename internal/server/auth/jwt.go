package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/conduit/internal/common"
)

// TokenValidityDays is the token lifetime in calendar days. Expiry is
// computed with date arithmetic (AddDate), not a fixed-duration offset, so
// issuing near month-end rolls into the following month correctly.
const TokenValidityDays = 60

// timeNow is a test seam for the issuance clock.
var timeNow = time.Now

// Claims is the token payload: the identity id and username plus the
// registered expiry claim, serialized as {id, username, exp}.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Username string `json:"username"`
}

// TokenManager issues and parses signed identity tokens. The signing secret
// is injected at construction and immutable for the process lifetime.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret []byte) *TokenManager {
	return &TokenManager{secret: secret}
}

// Issue signs a token for the given identity, expiring TokenValidityDays
// calendar days from now.
func (m *TokenManager) Issue(userID, username string) (string, error) {
	exp := timeNow().AddDate(0, 0, TokenValidityDays)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:   userID,
		Username: username,
	})

	return token.SignedString(m.secret)
}

// Parse verifies the signature and expiry of a serialized token and returns
// its claims. Malformed, tampered and expired tokens all yield
// common.ErrInvalidToken; the caller is responsible for distinguishing
// "no token supplied" before calling.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
