package authstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/steelcutops/usermgr/logger"
	"gopkg.in/ini.v1"
)

const (
	authSection = "auth"
	tokenKey    = "token"
)

// FileStore persists the token in an INI credentials file so sessions
// survive between invocations.
type FileStore struct {
	Path string
	Log  logger.Logger

	mu sync.Mutex
}

func NewFileStore(path string, log logger.Logger) *FileStore {
	if log == nil {
		log = logger.Discard()
	}
	return &FileStore{Path: path, Log: log}
}

func (s *FileStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := ini.LooseLoad(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials file %s: %w", s.Path, err)
	}
	token := cfg.Section(authSection).Key(tokenKey).String()
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// SetAuthHeader saves value, or removes the stored token when value is nil.
// Write failures are logged; callers treat the header store as fire and forget.
func (s *FileStore) SetAuthHeader(value *string) {
	if err := s.Save(value); err != nil {
		s.Log.Error("Failed to update credentials file", "path", s.Path, "error", err)
	}
}

func (s *FileStore) Save(value *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := ini.LooseLoad(s.Path)
	if err != nil {
		return fmt.Errorf("failed to read credentials file %s: %w", s.Path, err)
	}

	section := cfg.Section(authSection)
	if value == nil {
		section.DeleteKey(tokenKey)
		s.Log.Debug("Cleared stored token", "path", s.Path)
	} else {
		section.Key(tokenKey).SetValue(*value)
		s.Log.Debug("Stored token", "path", s.Path)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := cfg.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write credentials file %s: %w", s.Path, err)
	}
	return nil
}
