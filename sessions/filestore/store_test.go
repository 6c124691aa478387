package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrsteele09/go-church-gql/sessions"
	"github.com/jrsteele09/go-church-gql/sessions/filestore"
	"github.com/jrsteele09/go-church-gql/sessions/storetest"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestStore(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		storetest.Run(t, func(t *testing.T) sessions.Store {
			s, err := filestore.New(filepath.Join(t.TempDir(), "session.json"))
			require.NoError(t, err)
			return s
		})
	})

	t.Run("encrypted", func(t *testing.T) {
		storetest.Run(t, func(t *testing.T) sessions.Store {
			s, err := filestore.New(filepath.Join(t.TempDir(), "session.json"), filestore.WithEncryptionKey(testKey))
			require.NoError(t, err)
			return s
		})
	})
}

func TestStore_File(t *testing.T) {
	ctx := context.Background()
	session := sessions.Session{AccessToken: "abc", RefreshToken: "r1", User: &sessions.User{ID: "u1"}}

	t.Run("survives a new store on the same path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "session.json")
		s, err := filestore.New(path)
		require.NoError(t, err)
		require.NoError(t, s.Save(ctx, session))

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		reopened, err := filestore.New(path)
		require.NoError(t, err)
		loaded, err := reopened.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, session, loaded)
	})

	t.Run("clear removes the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		s, err := filestore.New(path)
		require.NoError(t, err)
		require.NoError(t, s.Save(ctx, session))
		require.NoError(t, s.Clear(ctx))

		_, err = os.Stat(path)
		require.True(t, os.IsNotExist(err))
	})

	t.Run("encrypted file hides tokens", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		s, err := filestore.New(path, filestore.WithEncryptionKey(testKey))
		require.NoError(t, err)
		require.NoError(t, s.Save(ctx, session))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		require.False(t, strings.Contains(string(raw), "abc"))

		plain, err := filestore.New(path)
		require.NoError(t, err)
		_, err = plain.Load(ctx)
		require.Error(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		s, err := filestore.New(path, filestore.WithEncryptionKey(testKey))
		require.NoError(t, err)
		require.NoError(t, s.Save(ctx, session))

		other, err := filestore.New(path, filestore.WithEncryptionKey([]byte("ffffffffffffffffffffffffffffffff")))
		require.NoError(t, err)
		_, err = other.Load(ctx)
		require.Error(t, err)
	})

	t.Run("bad key length", func(t *testing.T) {
		_, err := filestore.New("session.json", filestore.WithEncryptionKey([]byte("short")))
		require.Error(t, err)
	})
}
