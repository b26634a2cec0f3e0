package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings. It is loaded once in main
// and passed to the components that need it.
type Config struct {
	Port            string
	DBPath          string
	JWTSecret       string
	JWTIssuer       string
	AdminInviteCode string
	CORSOrigin      string

	// Optional admin account seeded at startup when both are set.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads the optional .env file and builds a Config from the
// environment, falling back to development defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "8008"),
		DBPath:            getEnv("DB_PATH", "workhive.db"),
		JWTSecret:         getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
		JWTIssuer:         getEnv("JWT_ISSUER", "workhive-api"),
		AdminInviteCode:   getEnv("ADMIN_INVITE_CODE", ""),
		CORSOrigin:        getEnv("CORS_ORIGIN", "*"),
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
