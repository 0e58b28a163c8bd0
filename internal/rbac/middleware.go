package rbac

import (
	"net/http"
)

var defaultChecker = NewChecker(nil)

// Require guards a route with the default role table.
func Require(perm string) func(http.Handler) http.Handler {
	return defaultChecker.Require(perm)
}

func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return defaultChecker.RequireAny(perms...)
}

// Require lets the request through only when its role holds perm.
func (c *Checker) Require(perm string) func(http.Handler) http.Handler {
	return guard(func(role string) bool { return c.Has(role, perm) })
}

// RequireAny lets the request through when its role holds at least one of perms.
func (c *Checker) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return guard(func(role string) bool { return c.Any(role, perms...) })
}

// guard answers 403 unless the request carries a role that allowed accepts.
func guard(allowed func(role string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if role := RoleFromContext(r.Context()); role == "" || !allowed(role) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
