package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// StoreMemory keeps the session in process memory only.
	StoreMemory = "memory"
	// StoreFile persists the session to a JSON file.
	StoreFile = "file"
	// StoreRedis persists the session in a redis hash.
	StoreRedis = "redis"
)

type StoreConfig interface {
	GetTokenStore() string
	GetTokenFile() string
	GetTokenKey() ([]byte, error)
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKey() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetTokenStore() string {
	return GetEnv("TOKEN_STORE", StoreFile)
}

func (Store) GetTokenFile() string {
	if v := os.Getenv("TOKEN_FILE"); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "session.json")
	}
	return filepath.Join(dir, "churchctl", "session.json")
}

// GetTokenKey returns the 32 byte key used to encrypt the session file, or nil
// when TOKEN_KEY_HEX is unset and the file is written in the clear.
func (Store) GetTokenKey() ([]byte, error) {
	hexKey := os.Getenv("TOKEN_KEY_HEX")
	if hexKey == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("TOKEN_KEY_HEX decode: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("TOKEN_KEY_HEX must decode to 32 bytes, got %d", len(b))
	}
	return b, nil
}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Store) GetRedisDB() int {
	return GetEnvInt("REDIS_DB", 0)
}

func (Store) GetRedisKey() string {
	return GetEnv("REDIS_SESSION_KEY", "churchctl:session")
}
