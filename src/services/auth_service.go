package services

import (
	"time"

	"kitemate/src/config"
	"kitemate/src/models"
	"kitemate/src/utils"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the JWT claims issued after a successful broker login.
type SessionClaims struct {
	Plan string `json:"plan"`
	jwt.RegisteredClaims
}

type AuthServiceI interface {
	IssueToken(user *models.User) (string, time.Time, error)
	VerifyToken(tokenString string) (*SessionClaims, error)
}

type AuthService struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		secret: []byte(cfg.Auth.JWTSecret),
		ttl:    time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
	}
}

// NewAuthServiceWithSecret builds an AuthService with an explicit secret,
// used when the signing key comes from the secrets manager.
func NewAuthServiceWithSecret(secret string, ttl time.Duration) *AuthService {
	return &AuthService{secret: []byte(secret), ttl: ttl}
}

func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.ttl)
	claims := SessionClaims{
		Plan: user.Plan,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    "kitemate",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *AuthService) VerifyToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, utils.Unauthenticated("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, utils.Unauthenticated("token is invalid or expired")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.Subject == "" {
		return nil, utils.Unauthenticated("token has invalid claims")
	}
	return claims, nil
}
