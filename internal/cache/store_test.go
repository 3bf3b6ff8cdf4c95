package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdoc/askdoc-backend/internal/config"
	"github.com/askdoc/askdoc-backend/internal/entity"
)

func testStore() *Store {
	return NewStore(config.SessionConfig{TTL: time.Minute, CleanupInterval: time.Minute})
}

func TestSessionRoundTrip(t *testing.T) {
	s := testStore()
	sess := &entity.Session{ID: "s1"}

	s.SaveSession(sess)
	got, err := s.Session("s1")
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestSessionNotFound(t *testing.T) {
	s := testStore()
	_, err := s.Session("missing")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	s := testStore()
	s.SaveSession(&entity.Session{ID: "s1"})
	s.DeleteSession("s1")

	_, err := s.Session("s1")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestTextCacheByContentHash(t *testing.T) {
	s := testStore()
	hash := ContentHash([]byte("same bytes"))

	_, ok := s.CachedText(hash)
	assert.False(t, ok)

	s.PutText(hash, "extracted text", true)
	entry, ok := s.CachedText(hash)
	require.True(t, ok)
	assert.Equal(t, "extracted text", entry.Text)
	assert.True(t, entry.UsedOCR)

	// Identical bytes hash identically, different bytes do not.
	assert.Equal(t, hash, ContentHash([]byte("same bytes")))
	assert.NotEqual(t, hash, ContentHash([]byte("other bytes")))
}
