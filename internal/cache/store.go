// Package cache holds all cross-request state: sessions and extracted
// document text. Everything lives in memory with a TTL, so a process
// restart drops every session.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	gocache "github.com/patrickmn/go-cache"

	"github.com/askdoc/askdoc-backend/internal/config"
	"github.com/askdoc/askdoc-backend/internal/entity"
)

type Store struct {
	sessions *gocache.Cache
	texts    *gocache.Cache
}

func NewStore(cfg config.SessionConfig) *Store {
	return &Store{
		sessions: gocache.New(cfg.TTL, cfg.CleanupInterval),
		texts:    gocache.New(cfg.TTL, cfg.CleanupInterval),
	}
}

// SaveSession stores or replaces a session, refreshing its TTL.
func (s *Store) SaveSession(sess *entity.Session) {
	s.sessions.Set(sess.ID, sess, gocache.DefaultExpiration)
}

// Session returns the session by ID or entity.ErrSessionNotFound.
func (s *Store) Session(id string) (*entity.Session, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return v.(*entity.Session), nil
}

// DeleteSession removes a session. Deleting an unknown ID is a no-op.
func (s *Store) DeleteSession(id string) {
	s.sessions.Delete(id)
}

// CachedText returns previously extracted text for a content hash.
func (s *Store) CachedText(hash string) (CachedEntry, bool) {
	v, ok := s.texts.Get(hash)
	if !ok {
		return CachedEntry{}, false
	}
	return v.(CachedEntry), true
}

// PutText caches extracted text under a content hash so re-uploading the
// same bytes skips extraction.
func (s *Store) PutText(hash, text string, usedOCR bool) {
	s.texts.Set(hash, CachedEntry{Text: text, UsedOCR: usedOCR}, gocache.DefaultExpiration)
}

// CachedEntry is one cached extraction result.
type CachedEntry struct {
	Text    string
	UsedOCR bool
}

// ContentHash derives the cache key for a document's raw bytes.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
