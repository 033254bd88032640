package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"hospitofind/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 30 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	// RefreshCookieName is the cookie carrying the refresh token.
	RefreshCookieName = "jwt"
)

// CustomClaims is the access-token payload.
type CustomClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (c *CustomClaims) IsAdmin() bool { return c.Role == model.RoleAdmin }

var (
	ErrAccountSuspended = errors.New("account suspended")
	ErrFederatedAccount = errors.New("password login not available for this account")
)

// AuthenticateUser checks a plaintext password against the stored hash.
// Federated accounts (no local hash) refuse password login.
func AuthenticateUser(_ context.Context, user model.User, password string) (*model.User, error) {
	if !user.IsActive {
		return nil, ErrAccountSuspended
	}
	if user.PasswordHash == nil {
		return nil, ErrFederatedAccount
	}
	if err := ComparePassword(*user.PasswordHash, password); err != nil {
		return nil, errors.New("invalid password")
	}
	return &user, nil
}

// IssueAccessToken mints a short-lived HS256 JWT embedding id, username
// and role.
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	now := time.Now()
	claims := CustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken validates and parses an access token.
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return parseClaims(tokenString, secret)
}

// IssueRefreshToken mints the long-lived cookie token. A separate secret
// keeps access and refresh tokens non-interchangeable.
func IssueRefreshToken(user model.User, ttl time.Duration) (string, error) {
	secret := refreshSecret()
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	now := time.Now()
	claims := CustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyRefreshToken validates and parses a refresh token.
func VerifyRefreshToken(tokenString string) (*CustomClaims, error) {
	secret := refreshSecret()
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return parseClaims(tokenString, secret)
}

func refreshSecret() string {
	if s := os.Getenv("REFRESH_SECRET"); s != "" {
		return s
	}
	return os.Getenv("JWT_SECRET")
}

func parseClaims(tokenString, secret string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// NewRefreshCookie wraps a refresh token in the cookie the frontend
// expects: httpOnly, and Secure/SameSite=None in production so the
// cross-site frontend can send it.
func NewRefreshCookie(token string, production bool) *http.Cookie {
	c := &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(RefreshTokenTTL / time.Second),
	}
	if production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	} else {
		c.SameSite = http.SameSiteLaxMode
	}
	return c
}

// ClearRefreshCookie expires the refresh cookie.
func ClearRefreshCookie(production bool) *http.Cookie {
	c := NewRefreshCookie("", production)
	c.MaxAge = -1
	return c
}
