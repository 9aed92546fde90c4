// Package auth hashes passwords and issues the access/refresh token pair.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinRefreshFactor is the minimum ratio between refresh and access lifetimes.
const MinRefreshFactor = 10

var ErrInvalidTokenConfig = errors.New("invalid token config")

// Claims carries the account identity in both token kinds.
type Claims struct {
	jwt.RegisteredClaims
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// TokenConfig holds the two independent signing secrets and horizons.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (c TokenConfig) validate() error {
	switch {
	case c.AccessSecret == "" || c.RefreshSecret == "":
		return fmt.Errorf("%w: both secrets are required", ErrInvalidTokenConfig)
	case c.AccessSecret == c.RefreshSecret:
		return fmt.Errorf("%w: access and refresh secrets must differ", ErrInvalidTokenConfig)
	case c.AccessTTL <= 0:
		return fmt.Errorf("%w: access ttl must be positive", ErrInvalidTokenConfig)
	case c.RefreshTTL < MinRefreshFactor*c.AccessTTL:
		return fmt.Errorf("%w: refresh ttl must be at least %dx access ttl", ErrInvalidTokenConfig, MinRefreshFactor)
	}
	return nil
}

// IssuedToken is a signed token together with its expiry.
type IssuedToken struct {
	Token     models.SignedToken
	ExpiresAt time.Time
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	cfg TokenConfig
}

func NewIssuer(cfg TokenConfig) (*Issuer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Issuer{cfg: cfg}, nil
}

// AccessSecret is exposed for the HTTP verifier middleware.
func (i *Issuer) AccessSecret() []byte { return []byte(i.cfg.AccessSecret) }

func (i *Issuer) IssueAccess(subject, username string, role models.Role, now time.Time) (IssuedToken, error) {
	return sign(subject, username, role, now, i.cfg.AccessTTL, []byte(i.cfg.AccessSecret))
}

func (i *Issuer) IssueRefresh(subject, username string, role models.Role, now time.Time) (IssuedToken, error) {
	return sign(subject, username, role, now, i.cfg.RefreshTTL, []byte(i.cfg.RefreshSecret))
}

// IssuePair issues both tokens at the same instant and returns them as a session.
func (i *Issuer) IssuePair(a *models.Account, now time.Time) (*models.Session, error) {
	access, err := i.IssueAccess(a.ID.String(), a.Username, a.Role, now)
	if err != nil {
		return nil, err
	}
	refresh, err := i.IssueRefresh(a.ID.String(), a.Username, a.Role, now)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

func sign(subject, username string, role models.Role, now time.Time, ttl time.Duration, secret []byte) (IssuedToken, error) {
	exp := now.Add(ttl).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Username: username,
		Role:     role,
	})

	s, err := token.SignedString(secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return IssuedToken{Token: models.SignedToken(s), ExpiresAt: exp}, nil
}

// ParseAccess verifies an access token and returns its claims.
func (i *Issuer) ParseAccess(token string) (*Claims, error) {
	return parse(token, []byte(i.cfg.AccessSecret))
}

// ParseRefresh verifies a refresh token and returns its claims.
func (i *Issuer) ParseRefresh(token string) (*Claims, error) {
	return parse(token, []byte(i.cfg.RefreshSecret))
}

func parse(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
