package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, cipher *BlobCipher) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), time.Hour, 0, cipher)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLocalStoreRoundTrip(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	payload := []byte("%PDF-1.7 test document")
	id, err := s.Create(ctx, payload)
	require.NoError(t, err)
	require.True(t, ValidateID(id))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestLocalStoreEncryptedRoundTrip(t *testing.T) {
	s := newTestStore(t, NewBlobCipher("passphrase"))
	ctx := context.Background()

	payload := []byte("secret content")
	id, err := s.Create(ctx, payload)
	require.NoError(t, err)

	// The on-disk file must not contain the plaintext.
	raw, err := os.ReadFile(filepath.Join(s.dir, id+".pdf"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret content")

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestLocalStoreInvalidIDNeverTouchesDisk(t *testing.T) {
	s := newTestStore(t, nil)

	_, err := s.Get(context.Background(), "../../../etc/passwd")
	var invalid *InvalidIDError
	require.ErrorAs(t, err, &invalid)
}

func TestLocalStoreUnknownID(t *testing.T) {
	s := newTestStore(t, nil)

	_, err := s.Get(context.Background(), "deadbeef")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "deadbeef", notFound.ID)
}

func TestLocalStoreExpiredSession(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	id, err := s.Create(ctx, []byte("old"))
	require.NoError(t, err)

	// Age the file past the TTL.
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.dir, id+".pdf"), past, past))

	_, err = s.Get(ctx, id)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestLocalStoreSweepRemovesExpired(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, time.Hour, 0, nil)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	oldID, err := s.Create(ctx, []byte("old"))
	require.NoError(t, err)
	freshID, err := s.Create(ctx, []byte("fresh"))
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, oldID+".pdf"), past, past))

	s.sweepOnce()

	_, err = os.Stat(filepath.Join(dir, oldID+".pdf"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, freshID+".pdf"))
	assert.NoError(t, err)
}
