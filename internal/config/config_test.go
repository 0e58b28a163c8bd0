package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// unset clears k for the duration of the test.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestDefaults(t *testing.T) {
	unset(t, "MODE", "HTTP_ADDR", "DB_DRIVER", "SEED_DEMO", "REQUIRE_AUTH", "IMAGE_FETCH_TIMEOUT_SEC", "IMAGE_ALLOW_PRIVATE", "CORS_ORIGINS_OFFLINE")
	t.Setenv("DOTENV_PATH", filepath.Join(t.TempDir(), "none.env"))

	c := FromEnv()
	assert.Equal(t, ModeOffline, c.Mode)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.True(t, c.SeedDemo)
	assert.False(t, c.RequireAuth)
	assert.Equal(t, 10*time.Second, c.ImageFetchTimeout)
	assert.True(t, c.ImageAllowPrivate)
	assert.Equal(t, c.CORSOriginsOffline, c.CORSOrigins())
}

func TestDefaultAdminCredential(t *testing.T) {
	unset(t, "ADMIN_USER", "ADMIN_PASS_HASH")
	t.Setenv("DOTENV_PATH", filepath.Join(t.TempDir(), "none.env"))

	c := FromEnv()
	assert.Equal(t, "Admin", c.AdminUser)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(c.AdminPassHash), []byte("Reset@123")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(c.AdminPassHash), []byte("reset@123")))
}

func TestOnlineModeFlipsDefaults(t *testing.T) {
	unset(t, "SEED_DEMO", "REQUIRE_AUTH", "IMAGE_ALLOW_PRIVATE", "CORS_ORIGINS_ONLINE")
	t.Setenv("DOTENV_PATH", filepath.Join(t.TempDir(), "none.env"))
	t.Setenv("MODE", "online")
	t.Setenv("IMAGE_FETCH_TIMEOUT_SEC", "nope")

	c := FromEnv()
	assert.False(t, c.SeedDemo)
	assert.True(t, c.RequireAuth)
	assert.False(t, c.ImageAllowPrivate)
	assert.Equal(t, 10*time.Second, c.ImageFetchTimeout)
	assert.Equal(t, []string{"https://papers.mindengage.ai"}, c.CORSOrigins())
}

func TestDotenvFillsUnsetKeys(t *testing.T) {
	unset(t, "DB_DRIVER", "IMAGE_FETCH_TIMEOUT_SEC", "CORS_ORIGINS_OFFLINE", "MODE")
	t.Setenv("HTTP_ADDR", ":9999")

	path := filepath.Join(t.TempDir(), "test.env")
	body := "DB_DRIVER=postgres\nHTTP_ADDR=:1111\nIMAGE_FETCH_TIMEOUT_SEC=3\nCORS_ORIGINS_OFFLINE= http://a.test , ,http://b.test\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("DOTENV_PATH", path)

	c := FromEnv()
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, ":9999", c.HTTPAddr, "process env wins over the file")
	assert.Equal(t, 3*time.Second, c.ImageFetchTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOriginsOffline)
}
