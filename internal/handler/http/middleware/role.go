package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// roleFromContext reads the role claim verified by jwtauth. An absent claim
// yields the empty role, which no gate admits.
func roleFromContext(r *http.Request) user.Role {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return user.Role(role)
}

// gate admits the request when allow accepts the caller's role and calls
// deny otherwise.
func gate(allow func(user.Role) bool, deny func(w http.ResponseWriter, role user.Role)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := roleFromContext(r)
			if role == "" || !allow(role) {
				deny(w, role)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole admits only the listed roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return gate(
		func(role user.Role) bool { return slices.Contains(roles, role) },
		func(w http.ResponseWriter, role user.Role) {
			response.Forbidden(w, fmt.Sprintf("Access denied for role '%s'", role))
		},
	)
}

// RequireManager admits managers only.
var RequireManager = gate(
	func(role user.Role) bool { return role == user.RoleManager },
	func(w http.ResponseWriter, _ user.Role) { response.HandleError(w, user.ErrManagerAccessRequired) },
)

// RequirePermission admits roles granted permission.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return gate(
		func(role user.Role) bool { return user.HasPermission(role, permission) },
		func(w http.ResponseWriter, role user.Role) {
			response.HandleError(w, fmt.Errorf("%w: '%s' requires '%s'", user.ErrInsufficientPermissions, role, permission))
		},
	)
}
