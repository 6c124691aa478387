package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-church-gql/internal/config"
	"github.com/stretchr/testify/require"
)

func TestClient_GetGraphQLEndpoint(t *testing.T) {
	t.Run("dev by default", func(t *testing.T) {
		t.Setenv("ENV", "")
		t.Setenv("GRAPHQL_DEV_URL", "")
		require.Equal(t, "http://localhost:8080/graphql", config.Client{}.GetGraphQLEndpoint())
	})

	t.Run("prod", func(t *testing.T) {
		t.Setenv("ENV", "prod")
		t.Setenv("GRAPHQL_PROD_URL", "https://api.example.org/graphql")
		require.Equal(t, "https://api.example.org/graphql", config.Client{}.GetGraphQLEndpoint())
	})

	t.Run("dev override", func(t *testing.T) {
		t.Setenv("ENV", "DEV")
		t.Setenv("GRAPHQL_DEV_URL", "http://127.0.0.1:9000/graphql")
		require.Equal(t, "http://127.0.0.1:9000/graphql", config.Client{}.GetGraphQLEndpoint())
	})
}

func TestDefaults(t *testing.T) {
	for _, v := range []string{"LOGIN_PATH", "SHARED_REFRESH", "REQUEST_TIMEOUT", "TOKEN_STORE", "PORT", "ACCESS_TOKEN_EXPIRY"} {
		t.Setenv(v, "")
	}
	require.Equal(t, "/login", config.Client{}.GetLoginPath())
	require.True(t, config.Client{}.GetSharedRefresh())
	require.Equal(t, 30*time.Second, config.Client{}.GetRequestTimeout())
	require.Equal(t, config.StoreFile, config.Store{}.GetTokenStore())
	require.Equal(t, ":8080", config.Server{}.GetPort())
	require.Equal(t, 15*time.Minute, config.Server{}.GetAccessTokenExpiry())
}

func TestStore_GetTokenKey(t *testing.T) {
	t.Setenv("TOKEN_KEY_HEX", "")
	key, err := config.Store{}.GetTokenKey()
	require.NoError(t, err)
	require.Nil(t, key)

	t.Setenv("TOKEN_KEY_HEX", "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	key, err = config.Store{}.GetTokenKey()
	require.NoError(t, err)
	require.Len(t, key, 32)

	t.Setenv("TOKEN_KEY_HEX", "abcd")
	_, err = config.Store{}.GetTokenKey()
	require.Error(t, err)

	t.Setenv("TOKEN_KEY_HEX", "zz")
	_, err = config.Store{}.GetTokenKey()
	require.Error(t, err)
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("SOME_DURATION", "bogus")
	require.Equal(t, time.Second, config.GetEnvDuration("SOME_DURATION", time.Second))
	t.Setenv("SOME_DURATION", "2m")
	require.Equal(t, 2*time.Minute, config.GetEnvDuration("SOME_DURATION", time.Second))
}
