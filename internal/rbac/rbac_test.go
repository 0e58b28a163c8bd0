package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"teacher", "paper:design", true},
		{"teacher", "bank:select", true},
		{"teacher", "exports:download", true},
		{"teacher", "questions:import", false},
		{"teacher", "exports:audit", false},
		{"admin", "questions:import", true},
		{"admin", "exports:audit", true},
		{"", "paper:design", false},
		{"student", "paper:design", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Has(tc.role, tc.perm), "%s %s", tc.role, tc.perm)
	}
	assert.True(t, c.Any("teacher", "exports:audit", "exports:view"))
	assert.False(t, c.All("teacher", "exports:audit", "exports:view"))
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require("questions:import")(ok)

	for role, want := range map[string]int{"admin": http.StatusNoContent, "teacher": http.StatusForbidden, "": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithRole(req.Context(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}

	rec := httptest.NewRecorder()
	RequireAny("exports:view", "exports:audit")(ok).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithRole(context.Background(), "teacher")))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCheckerMiddlewareUsesItsOwnTable(t *testing.T) {
	c := NewChecker(map[string][]string{"reviewer": {"exports:*"}})
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	serve := func(h http.Handler, role string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithRole(context.Background(), role)))
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, serve(c.Require("exports:audit")(ok), "reviewer"))
	assert.Equal(t, http.StatusForbidden, serve(c.Require("paper:design")(ok), "reviewer"))
	assert.Equal(t, http.StatusForbidden, serve(c.Require("exports:audit")(ok), "admin"), "admin is not in this table")
	assert.Equal(t, http.StatusNoContent, serve(c.RequireAny("paper:design", "exports:view")(ok), "reviewer"))
	assert.Equal(t, http.StatusForbidden, serve(c.RequireAny()(ok), "reviewer"))
}
