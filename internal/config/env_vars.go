package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envVar      = "ENV"
	appNameVar  = "APP_NAME"
	logLevelVar = "LOG_LEVEL"

	// EnvProd selects production endpoints.
	EnvProd = "PROD"
	// EnvDev is the default environment.
	EnvDev = "DEV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Church Admin")
}

func (EnvVars) GetEnv() string {
	return currentEnv()
}

func (EnvVars) GetLogLevel() string {
	return strings.ToLower(GetEnv(logLevelVar, "info"))
}

func currentEnv() string {
	env := strings.ToUpper(os.Getenv(envVar))
	if env == "" {
		return EnvDev
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(envVar string, defaultValue int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}

func GetEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
