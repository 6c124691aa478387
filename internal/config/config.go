package config

import "github.com/joho/godotenv"

type Config interface {
	EnvConfig
	ClientConfig
	StoreConfig
	ServerConfig
}

type EnvConfig interface {
	GetEnv() string
	GetAppName() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	Client
	Store
	Server
}

// New returns the environment backed configuration. A .env file in the
// working directory is loaded first when present; variables already set in the
// process environment win.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}
