package rbac

import (
	"context"
	"strings"
)

// Permissions checked by the API.
const (
	PermQuestionsView   = "questions:view"
	PermQuestionsCreate = "questions:create"
	PermQuestionsImport = "questions:import"
	PermBankSelect      = "bank:select"
	PermPaperDesign     = "paper:design"
	PermExportsDownload = "exports:download"
	PermExportsView     = "exports:view"
	PermExportsAudit    = "exports:audit"
)

// Checker resolves permissions from a role table. Entries may end in "*" to grant a
// whole namespace ("bank:*") or be "*" alone.
type Checker struct {
	RolePermissions map[string][]string
}

func NewChecker(rp map[string][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	return &Checker{RolePermissions: rp}
}

func (c *Checker) Has(role, perm string) bool {
	for _, p := range c.RolePermissions[role] {
		if matchPerm(p, perm) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

func (c *Checker) All(role string, perms ...string) bool {
	for _, p := range perms {
		if !c.Has(role, p) {
			return false
		}
	}
	return len(perms) > 0
}

func matchPerm(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(perm, prefix)
	}
	return false
}

type ctxKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ctxKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(ctxKey{}).(string)
	return role
}
