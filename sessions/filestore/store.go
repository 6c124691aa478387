// Package filestore keeps the session in a JSON file so it survives process
// restarts, the CLI equivalent of browser local storage.
package filestore

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/jrsteele09/go-church-gql/sessions"
	"golang.org/x/crypto/chacha20poly1305"
)

var _ sessions.Store = (*Store)(nil)

// Store writes the whole session on every change using write-then-rename, so
// a reader sees either the previous file or the new one.
type Store struct {
	path string
	aead cipher.AEAD
	mu   sync.Mutex
}

type Option func(*Store) error

// WithEncryptionKey encrypts the file with XChaCha20-Poly1305. The key must be
// 32 bytes. A nil key leaves the file in the clear.
func WithEncryptionKey(key []byte) Option {
	return func(s *Store) error {
		if key == nil {
			return nil
		}
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return errors.Wrapf(err, "filestore: encryption key")
		}
		s.aead = aead
		return nil
	}
}

// New creates a file backed store at path. The parent directory is created
// on first write.
func New(path string, options ...Option) (*Store, error) {
	s := &Store{path: path}
	for _, opt := range options {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(_ context.Context) (sessions.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return sessions.Session{}, err
	}
	return toSession(entries)
}

func (s *Store) Save(_ context.Context, session sessions.Session) error {
	entries, err := fromSession(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(entries)
}

func (s *Store) SetAccessToken(_ context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	if entries[sessions.KeyRefreshToken] == "" {
		return errors.ErrSessionNotFound
	}
	if accessToken == "" {
		delete(entries, sessions.KeyAccessToken)
	} else {
		entries[sessions.KeyAccessToken] = accessToken
	}
	return s.write(entries)
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "filestore: clear %s", s.path)
	}
	return nil
}

func (s *Store) read() (map[string]string, error) {
	blob, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "filestore: read %s", s.path)
	}

	if s.aead != nil {
		ns := s.aead.NonceSize()
		if len(blob) < ns {
			return nil, fmt.Errorf("filestore: %s is too short to be encrypted", s.path)
		}
		blob, err = s.aead.Open(nil, blob[:ns], blob[ns:], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "filestore: decrypt %s", s.path)
		}
	}

	entries := map[string]string{}
	if err := json.Unmarshal(blob, &entries); err != nil {
		return nil, errors.Wrapf(err, "filestore: decode %s", s.path)
	}
	return entries, nil
}

func (s *Store) write(entries map[string]string) error {
	if len(entries) == 0 {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "filestore: remove %s", s.path)
		}
		return nil
	}

	blob, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "filestore: encode")
	}

	if s.aead != nil {
		nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(blob)+s.aead.Overhead())
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return errors.Wrapf(err, "filestore: nonce")
		}
		blob = s.aead.Seal(nonce, nonce, blob, nil)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "filestore: mkdir %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return errors.Wrapf(err, "filestore: temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "filestore: write")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "filestore: close")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "filestore: chmod")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "filestore: rename")
	}
	return nil
}

func fromSession(session sessions.Session) (map[string]string, error) {
	entries := map[string]string{}
	if session.AccessToken != "" {
		entries[sessions.KeyAccessToken] = session.AccessToken
	}
	if session.RefreshToken != "" {
		entries[sessions.KeyRefreshToken] = session.RefreshToken
	}
	user, err := sessions.EncodeUser(session.User)
	if err != nil {
		return nil, errors.Wrapf(err, "filestore: encode user")
	}
	if user != "" {
		entries[sessions.KeyUser] = user
	}
	return entries, nil
}

func toSession(entries map[string]string) (sessions.Session, error) {
	user, err := sessions.DecodeUser(entries[sessions.KeyUser])
	if err != nil {
		return sessions.Session{}, errors.Wrapf(err, "filestore: decode user")
	}
	return sessions.Session{
		AccessToken:  entries[sessions.KeyAccessToken],
		RefreshToken: entries[sessions.KeyRefreshToken],
		User:         user,
	}, nil
}
