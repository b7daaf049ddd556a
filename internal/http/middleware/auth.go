package middleware

import (
	"context"
	"net/http"
	"strings"

	"projmatch/internal/common"
	"projmatch/internal/http/response"
	"projmatch/internal/security"
)

type contextKey string

const (
	ContextSubjectUIDKey contextKey = "subject_uid"
	ContextRoleKey       contextKey = "role"
)

// AuthMiddleware parses the bearer token issued by the identity provider and
// places the verified subject identifier on the request context. It performs
// authentication only; ownership checks live in the services.
type AuthMiddleware struct {
	jwt *security.JWTProvider
}

func NewAuthMiddleware(jwt *security.JWTProvider) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		claims, err := m.jwt.Parse(parts[1])
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		if claims.SubjectUID == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "token has no subject", nil))
			return
		}
		ctx := context.WithValue(r.Context(), ContextSubjectUIDKey, claims.SubjectUID)
		ctx = context.WithValue(ctx, ContextRoleKey, strings.ToLower(strings.TrimSpace(claims.Role)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SubjectUIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(ContextSubjectUIDKey).(string)
	return uid, ok && uid != ""
}

func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(ContextRoleKey).(string)
	return role, ok
}
