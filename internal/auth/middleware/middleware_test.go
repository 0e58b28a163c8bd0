package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-papers/internal/rbac"
)

func newService(t *testing.T) *AuthService {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService("test-key", "Admin", string(h))
}

func login(a *AuthService, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	LoginHandler(a).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))
	return rec
}

func TestLogin(t *testing.T) {
	a := newService(t)

	rec := login(a, `{"username":"Admin","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	c, err := a.Parse(out["access_token"])
	require.NoError(t, err)
	assert.Equal(t, "Admin", c.Sub)
	assert.Equal(t, RoleAdmin, c.Role)

	for _, body := range []string{
		`{"username":"Admin","password":"wrong"}`,
		`{"username":"admin","password":"s3cret"}`,
		`{}`,
	} {
		rec := login(a, body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, body)
		assert.JSONEq(t, `{"error":"Invalid credentials."}`, rec.Body.String())
	}

	assert.Equal(t, http.StatusBadRequest, login(a, `nope`).Code)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	h, err := HashPassword("pw")
	require.NoError(t, err)
	a := NewAuthService("k", "Admin", h)
	assert.True(t, a.CheckAdmin("Admin", "pw"))
	assert.False(t, a.CheckAdmin("Admin", "pw "))
}

func TestJWTMiddleware(t *testing.T) {
	a := newService(t)
	var gotRole, gotSub string
	h := func(required bool) http.Handler {
		return JWTMiddleware(a, required)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRole = rbac.RoleFromContext(r.Context())
			gotSub = SubjectFromContext(r.Context())
		}))
	}
	do := func(required bool, bearer string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		rec := httptest.NewRecorder()
		h(required).ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do(false, ""))
	assert.Equal(t, RoleTeacher, gotRole)
	assert.Equal(t, "local", gotSub)

	assert.Equal(t, http.StatusUnauthorized, do(true, ""))
	assert.Equal(t, http.StatusUnauthorized, do(false, "garbage"))

	tok, err := a.IssueJWT("Admin", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(true, tok))
	assert.Equal(t, RoleAdmin, gotRole)
	assert.Equal(t, "Admin", gotSub)

	a.now = func() time.Time { return time.Now().Add(9 * time.Hour) }
	assert.Equal(t, http.StatusUnauthorized, do(true, tok), "expired")

	other := NewAuthService("other-key", "Admin", "")
	forged, err := other.IssueJWT("Admin", RoleAdmin)
	require.NoError(t, err)
	a.now = time.Now
	assert.Equal(t, http.StatusUnauthorized, do(true, forged))
}
