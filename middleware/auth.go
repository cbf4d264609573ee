package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/funsideofwine/guardian-grc/audit"
	"github.com/funsideofwine/guardian-grc/utils"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	CtxUserID    = "userID"
	CtxUserName  = "userName"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
)

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// WebSocket upgrades authenticate via query token in the handler
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil || claims == nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, CtxUserName, claims.Name)
		ctx = context.WithValue(ctx, CtxUserEmail, claims.Email)
		ctx = context.WithValue(ctx, CtxUserRole, claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext rebuilds the audit actor from the values AuthMiddleware
// stored. The second return is false on unauthenticated requests.
func ActorFromContext(ctx context.Context) (audit.Actor, bool) {
	userID, _ := ctx.Value(CtxUserID).(string)
	userEmail, _ := ctx.Value(CtxUserEmail).(string)
	if userID == "" {
		return audit.Actor{}, false
	}
	return audit.Actor{UserID: userID, UserEmail: userEmail}, true
}

// RoleFromContext returns the authenticated user's role, or "".
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(CtxUserRole).(string)
	return role
}
