package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Default admin credential is Admin / Reset@123; set ADMIN_PASS_HASH in production.
const defaultAdminPassHash = "$2b$12$oEOPLFLagcBnp4/hcOEGCeEF7RaxGCtbKOvynbtAKYVYQa6cbpnlC"

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string // sqlite|postgres|mysql
	DBDSN    string
	SeedDemo bool

	BlobBasePath string // saved exports live under <base>/exports
	SiteID       string

	AuthSecret    string
	RequireAuth   bool
	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	ImageFetchTimeout time.Duration
	ImageAllowPrivate bool // fetch images from loopback/private hosts
}

// FromEnv reads the process environment after loading an optional .env file
// (DOTENV_PATH, default ".env"). Variables already set win over the file.
func FromEnv() Config {
	loadDotenv()

	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           envOr("HTTP_ADDR", ":8080"),
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		SeedDemo:           envBool("SEED_DEMO", mode == ModeOffline),
		BlobBasePath:       envOr("BLOB_BASE_PATH", "./data"),
		SiteID:             envOr("SITE_ID", "local"),
		AuthSecret:         envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		RequireAuth:        envBool("REQUIRE_AUTH", mode == ModeOnline),
		AdminUser:          envOr("ADMIN_USER", "Admin"),
		AdminPassHash:      envOr("ADMIN_PASS_HASH", defaultAdminPassHash),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://papers.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
		ImageFetchTimeout:  time.Duration(envInt("IMAGE_FETCH_TIMEOUT_SEC", 10)) * time.Second,
		ImageAllowPrivate:  envBool("IMAGE_ALLOW_PRIVATE", mode == ModeOffline),
	}
}

// CORSOrigins picks the allow-list for the running mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func loadDotenv() {
	path, explicit := os.LookupEnv("DOTENV_PATH")
	if !explicit || path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return
	}
	log.Printf("[config] dotenv %s: %v", path, err)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
