package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sibeni-li/khronos/internal/filex"
)

// ErrNotLoggedIn is returned by TokenStore.Load when no token is saved.
var ErrNotLoggedIn = errors.New("not logged in, run `khronos login` first")

// TokenStore keeps the access token in a single owner-only file.
type TokenStore struct {
	path string
}

func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{path: filepath.Join(dir, "token")}
}

// DefaultTokenStore stores the token under <user config dir>/khronos.
func DefaultTokenStore() (*TokenStore, error) {
	dir, err := filex.EnsureConfigDir("khronos")
	if err != nil {
		return nil, err
	}
	return NewTokenStore(dir), nil
}

func (s *TokenStore) Save(token string) error {
	if err := filex.WriteFileAtomic(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *TokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// Clear removes the saved token. Clearing an absent token is not an error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
