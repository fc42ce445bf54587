package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrWrongTokenType      = errors.New("wrong token type for this endpoint")
	ErrBadOperationalToken = errors.New("operational token rejected")
)

type TokenType string

const (
	TokenTypeAccess TokenType = "access"
)

// UserClaims is the claim set the platform's auth service signs into access
// tokens. This subsystem only validates tokens; it never issues them outside
// of tests.
type UserClaims struct {
	UserID int32     `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Type   TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAccessToken(userID int32, email string) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
	}
}

func (m *tokenManager) GenerateAccessToken(userID int32, email string) (string, error) {
	claims := UserClaims{
		UserID: userID,
		Email:  email,
		Type:   TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "auth-service",
			Audience:  jwt.ClaimStrings{"api-access"},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// OperationalTokenVerifier guards operator endpoints (enforcement trigger,
// admin actions) with a shared secret. Only the bcrypt hash of the secret is
// configured on the server side.
type OperationalTokenVerifier struct {
	tokenHash []byte
}

func NewOperationalTokenVerifier(tokenHash string) *OperationalTokenVerifier {
	return &OperationalTokenVerifier{tokenHash: []byte(tokenHash)}
}

// Verify checks a presented token against the configured hash.
func (v *OperationalTokenVerifier) Verify(token string) error {
	if len(v.tokenHash) == 0 || token == "" {
		return ErrBadOperationalToken
	}
	if err := bcrypt.CompareHashAndPassword(v.tokenHash, []byte(token)); err != nil {
		return ErrBadOperationalToken
	}
	return nil
}
