package services

import (
	"errors"
	"time"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims 令牌载荷：账号 id 与角色
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) Issue(p engagement.Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:   p.ID,
		Role: string(p.Kind),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", apperr.Internal("sign token", err)
	}
	return signed, nil
}

// Parse validates signature, algorithm and expiry, and returns the principal.
func (t *TokenIssuer) Parse(raw string) (engagement.Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return engagement.Principal{}, apperr.Wrap(apperr.KindAuthentication, "token expired", err)
		}
		return engagement.Principal{}, apperr.Wrap(apperr.KindAuthentication, "invalid token", err)
	}
	kind, err := engagement.ParseKind(claims.Role)
	if err != nil || claims.ID == "" {
		return engagement.Principal{}, apperr.Authentication("invalid token")
	}
	return engagement.Principal{Kind: kind, ID: claims.ID}, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal("hash password", err)
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
