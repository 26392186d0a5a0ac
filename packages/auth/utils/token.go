package utils

import (
	"errors"
	"time"

	"owl-league/packages/auth/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AdminTokenExpiry  = 12 * time.Hour
	UnlockTokenExpiry = 6 * time.Hour

	issuer = "owl-league"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identify the holder of a league token. Week and Lock are set for
// unlock tokens only; Lock is the nonce of the password that was matched.
type Claims struct {
	Role string `json:"role"`
	Week string `json:"week,omitempty"`
	Lock string `json:"lock,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens with one secret.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

func (i *TokenIssuer) sign(role, week, lock string, ttl time.Duration) (*models.TokenResponse, error) {
	now := i.now()
	claims := Claims{
		Role: role,
		Week: week,
		Lock: lock,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   role,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	return &models.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(ttl.Seconds()),
		TokenType:   "Bearer",
		Week:        week,
	}, nil
}

func (i *TokenIssuer) IssueAdminToken() (*models.TokenResponse, error) {
	return i.sign(models.RoleAdmin, "", "", AdminTokenExpiry)
}

// IssueWeekToken grants result entry for one locked week, for as long as its
// password keeps the given lock nonce.
func (i *TokenIssuer) IssueWeekToken(week, lock string) (*models.TokenResponse, error) {
	if lock == "" {
		return nil, errors.New("week token needs a lock nonce")
	}
	return i.sign(models.RoleWeek, week, lock, UnlockTokenExpiry)
}

func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != models.RoleAdmin && claims.Role != models.RoleWeek {
		return nil, ErrInvalidToken
	}
	if claims.Role == models.RoleWeek && (claims.Week == "" || claims.Lock == "") {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
