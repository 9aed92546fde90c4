// Package middleware holds the HTTP tier's authorization middlewares. They
// run after jwtauth.Verifier has put the access token into the context.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UserRoleCtxKey contextKey = "userRole"
)

// Authenticator rejects requests without a valid access token and stores the
// caller's id and role in the context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			if err == nil || errors.Is(err, jwtauth.ErrNoTokenFound) {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			return
		}

		userID, _ := claims["sub"].(string)
		roleName, _ := claims["role"].(string)
		if userID == "" {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: missing subject")
			return
		}
		role, err := models.ParseRole(roleName)
		if err != nil || roleName == "" {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: bad role")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UserRoleCtxKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly lets through callers whose token carries the Admin role.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetUserRoleFromContext(r.Context())
		if !ok || role != models.RoleAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OptionalRole returns the role of a verified token in ctx, or "" when the
// request carries no valid token.
func OptionalRole(ctx context.Context) models.Role {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return ""
	}
	name, _ := claims["role"].(string)
	if name == "" {
		return ""
	}
	role, err := models.ParseRole(name)
	if err != nil {
		return ""
	}
	return role
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

func GetUserRoleFromContext(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(UserRoleCtxKey).(models.Role)
	return role, ok
}
