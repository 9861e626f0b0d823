// Package config loads process environment settings and the
// HCL-described default-table fixtures (§6 "Environment configuration",
// "Default tables"). Grounded on the teacher's
// internal/server/config.go HCL-via-gohcl pattern.
package config

import "os"

// Env is the process-wide environment configuration (§6).
type Env struct {
	Port            string
	FrontendURL     string
	LogLevel        string
	NodeEnv         string
	IntegrationTest bool
}

// LoadEnv reads Env from the process environment, applying the
// teacher's style of sensible fallbacks for local development.
func LoadEnv() Env {
	return Env{
		Port:            getenv("PORT", "8080"),
		FrontendURL:     getenv("FRONTEND_URL", ""),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		NodeEnv:         getenv("NODE_ENV", "development"),
		IntegrationTest: os.Getenv("INTEGRATION_TEST") == "true",
	}
}

// Pacing reports whether the engine's cooperative suspension-point
// delays (§5) should actually sleep. INTEGRATION_TEST disables them.
func (e Env) Pacing() bool {
	return !e.IntegrationTest
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
