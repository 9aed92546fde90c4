// Package models holds the account record, its reduced projection and the
// opaque secret types shared by the HTTP tier and the account service.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/google/uuid"
)

// Role is the account's authorization role.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// ParseRole accepts "Admin" or "User" (case-insensitive). An empty string
// yields RoleUser.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RoleUser, nil
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", common.ErrBadRequest, s)
}

// ParseAccountID converts the external string form of an account id.
// Failures wrap common.ErrInvalidIdentifier.
func ParseAccountID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", common.ErrInvalidIdentifier, s)
	}
	return id, nil
}

// Session is the account's current token pair. Access never outlives refresh.
type Session struct {
	AccessToken      SignedToken
	RefreshToken     SignedToken
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Valid reports whether the session satisfies the expiry ordering.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.RefreshToken != "" && !s.AccessExpiresAt.After(s.RefreshExpiresAt)
}

// Account is the persisted user record. Session is nil until the first login.
type Account struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash HashedSecret
	Role         Role
	Session      *Session
	CreatedAt    time.Time
}

// View returns the reduced projection that may leave the store boundary.
func (a *Account) View() AccountView {
	return AccountView{ID: a.ID.String(), Username: a.Username, Role: a.Role}
}

// AccountView never carries the password hash or tokens.
type AccountView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// RemovalResult is the account service's verdict on a removal. Account is
// nil when no account had the requested id.
type RemovalResult struct {
	Message string
	Account *AccountView
}
