package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"workhive-api/internal/models"
)

// Session tokens live for 7 days. Role is carried inside the token so
// authorization never needs a second store lookup; a role change takes
// effect only once the holder's token expires or is reissued.
const tokenTTL = 7 * 24 * time.Hour

var (
	// ErrTokenInvalid covers malformed or tampered tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired covers tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims represents the JWT claims
type Claims struct {
	UserID string          `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed session tokens. It is pure and
// safe for concurrent use across requests.
type TokenManager struct {
	secret []byte
	issuer string
}

// NewTokenManager constructs a TokenManager with the given signing secret.
func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Generate issues a JWT token carrying the user's identity and role
func (m *TokenManager) Generate(userID string, role models.UserRole) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate verifies a JWT token and returns its claims. Expired tokens
// fail with ErrTokenExpired, anything else unparseable with
// ErrTokenInvalid.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if m.issuer != "" && claims.Issuer != m.issuer {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
