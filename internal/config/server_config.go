package config

import (
	"fmt"
	"time"
)

type ServerConfig interface {
	GetPort() string
	GetJWTSecret() string
	GetIssuer() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
	GetSeedPassword() string
}

type Server struct{}

var _ ServerConfig = Server{}

func (Server) GetPort() string {
	port := GetEnv("PORT", "8080")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (Server) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "dev-only-secret-change-me")
}

func (Server) GetIssuer() string {
	return GetEnv("JWT_ISSUER", "church-admin")
}

func (Server) GetAccessTokenExpiry() time.Duration {
	return GetEnvDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
}

func (Server) GetRefreshTokenExpiry() time.Duration {
	return GetEnvDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour) // 7 days
}

func (Server) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

// GetSeedPassword is the password given to the seeded demo accounts.
func (Server) GetSeedPassword() string {
	return GetEnv("SEED_PASSWORD", "Password123")
}
