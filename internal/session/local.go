package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// LocalStore keeps session documents as files under a single directory, one
// file per session. Expired sessions are removed by a background sweeper.
type LocalStore struct {
	dir    string
	ttl    time.Duration
	cipher *BlobCipher

	stop chan struct{}
	done chan struct{}
}

// NewLocalStore creates the directory if needed and starts the sweeper when
// both ttl and sweepEvery are positive. cipher may be nil for plaintext
// storage.
func NewLocalStore(dir string, ttl, sweepEvery time.Duration, cipher *BlobCipher) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session dir %s: %w", dir, err)
	}
	s := &LocalStore{
		dir:    dir,
		ttl:    ttl,
		cipher: cipher,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if ttl > 0 && sweepEvery > 0 {
		go s.sweep(sweepEvery)
	} else {
		close(s.done)
	}
	return s, nil
}

func (s *LocalStore) Create(ctx context.Context, data []byte) (string, error) {
	id := NewID()
	blob := data
	if s.cipher != nil {
		var err error
		if blob, err = s.cipher.Seal(data); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(s.path(id), blob, 0o644); err != nil {
		return "", fmt.Errorf("failed to write session file: %w", err)
	}
	return id, nil
}

func (s *LocalStore) Get(ctx context.Context, id string) ([]byte, error) {
	if !ValidateID(id) {
		return nil, &InvalidIDError{ID: id}
	}

	path := s.path(id)
	if s.ttl > 0 {
		if fi, err := os.Stat(path); err == nil && time.Since(fi.ModTime()) > s.ttl {
			_ = os.Remove(path)
			return nil, &NotFoundError{ID: id}
		}
	}

	blob, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if s.cipher != nil {
		return s.cipher.Open(blob)
	}
	return blob, nil
}

func (s *LocalStore) Close() error {
	close(s.stop)
	<-s.done
	return nil
}

func (s *LocalStore) path(id string) string {
	return filepath.Join(s.dir, id+".pdf")
}

func (s *LocalStore) sweep(every time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *LocalStore) sweepOnce() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Error().Err(err).Str("dir", s.dir).Msg("Session sweep failed to list directory")
		return
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pdf") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(fi.ModTime()) > s.ttl {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
				removed++
			}
		}
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Swept expired sessions")
	}
}
