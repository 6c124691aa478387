package config

import "time"

const (
	prodURLVar = "GRAPHQL_PROD_URL"
	devURLVar  = "GRAPHQL_DEV_URL"

	defaultProdURL = "https://api.churchadmin.org/graphql"
	defaultDevURL  = "http://localhost:8080/graphql"
)

type ClientConfig interface {
	GetGraphQLEndpoint() string
	GetRequestTimeout() time.Duration
	GetLoginPath() string
	GetSharedRefresh() bool
}

type Client struct{}

var _ ClientConfig = Client{}

// GetGraphQLEndpoint picks the production or development endpoint based on ENV.
func (Client) GetGraphQLEndpoint() string {
	if currentEnv() == EnvProd {
		return GetEnv(prodURLVar, defaultProdURL)
	}
	return GetEnv(devURLVar, defaultDevURL)
}

func (Client) GetRequestTimeout() time.Duration {
	return GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second)
}

func (Client) GetLoginPath() string {
	return GetEnv("LOGIN_PATH", "/login")
}

// GetSharedRefresh reports whether concurrent calls holding the same refresh
// token share a single refresh round trip.
func (Client) GetSharedRefresh() bool {
	return GetEnv("SHARED_REFRESH", "true") == "true"
}
