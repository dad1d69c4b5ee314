package crypto

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "authgate"
	tokenAudience = "authgate-api"
	bearerPrefix  = "Bearer "
)

var (
	ErrInvalidToken      = errors.New("Invalid token")
	ErrAuthHeaderMissing = errors.New("Authorization header missing")
	ErrAuthHeaderFormat  = errors.New("Invalid authorization header format")
	ErrTokenMissing      = errors.New("Token missing from authorization header")
)

// TokenPayload is the identity carried inside a signed token.
type TokenPayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Claims represents the JWT claims for authgate authentication.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenManager signs and verifies HS256 tokens with a single secret.
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

// NewTokenManager creates a TokenManager issuing tokens valid for expiry.
func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), expiry: expiry}
}

// GenerateToken creates a signed JWT token for the given payload.
func (m *TokenManager) GenerateToken(payload TokenPayload) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   payload.UserID,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: payload.UserID,
		Email:  payload.Email,
		Role:   payload.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyToken checks signature, expiry, issuer and audience. Every failure
// is reported as ErrInvalidToken.
func (m *TokenManager) VerifyToken(tokenString string) (*TokenPayload, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &TokenPayload{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// ExtractTokenFromHeader returns the token of an "Authorization: Bearer <token>"
// header value.
func ExtractTokenFromHeader(header string) (string, error) {
	if header == "" {
		return "", ErrAuthHeaderMissing
	}

	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found {
		return "", ErrAuthHeaderFormat
	}
	if token == "" {
		return "", ErrTokenMissing
	}

	return token, nil
}
