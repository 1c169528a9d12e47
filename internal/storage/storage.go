package storage

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/imlogolabs/studio/internal/models"
)

// ErrNotFound is returned for unknown record IDs.
var ErrNotFound = errors.New("not found")

// SessionStore holds per-visitor gallery sessions
type SessionStore struct {
	sessions map[string]*models.GallerySession
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.GallerySession),
	}
}

func (s *SessionStore) Get(sessionID string) (*models.GallerySession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

// Touch returns the session and marks it as seen at now.
func (s *SessionStore) Touch(sessionID string, now time.Time) (*models.GallerySession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, exists := s.sessions[sessionID]
	if exists {
		session.LastSeen = now
	}
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *models.GallerySession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sweep removes sessions not seen since cutoff and returns them so the caller
// can release their resources.
func (s *SessionStore) Sweep(cutoff time.Time) []*models.GallerySession {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []*models.GallerySession
	for id, session := range s.sessions {
		if session.LastSeen.Before(cutoff) {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	return expired
}

// ImageStore keeps the editable image records in memory
type ImageStore struct {
	images map[string]models.ImageRecord
	mu     sync.RWMutex
}

func NewImageStore(records []models.ImageRecord) *ImageStore {
	s := &ImageStore{
		images: make(map[string]models.ImageRecord, len(records)),
	}
	for _, r := range records {
		s.images[r.ID] = r
	}
	return s
}

func (s *ImageStore) Get(id string) (models.ImageRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.images[id]
	return r, ok
}

// List returns all records sorted by display order.
func (s *ImageStore) List() []models.ImageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.ImageRecord, 0, len(s.images))
	for _, r := range s.images {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order == result[j].Order {
			return result[i].ID < result[j].ID
		}
		return result[i].Order < result[j].Order
	})
	return result
}

// Update applies fn to a copy of the record and stores it if fn succeeds.
func (s *ImageStore) Update(id string, fn func(*models.ImageRecord) error) (models.ImageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.images[id]
	if !ok {
		return models.ImageRecord{}, ErrNotFound
	}
	if err := fn(&r); err != nil {
		return models.ImageRecord{}, err
	}
	r.ID = id
	s.images[id] = r
	return r, nil
}

// QueryLog keeps the most recent query submissions
type QueryLog struct {
	queries []models.QuerySubmission
	limit   int
	mu      sync.RWMutex
}

func NewQueryLog(limit int) *QueryLog {
	if limit <= 0 {
		limit = 100
	}
	return &QueryLog{limit: limit}
}

func (q *QueryLog) Add(sub models.QuerySubmission) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queries = append(q.queries, sub)
	if over := len(q.queries) - q.limit; over > 0 {
		q.queries = append([]models.QuerySubmission(nil), q.queries[over:]...)
	}
}

// Recent returns submissions newest first.
func (q *QueryLog) Recent() []models.QuerySubmission {
	q.mu.RLock()
	defer q.mu.RUnlock()
	result := make([]models.QuerySubmission, len(q.queries))
	for i, sub := range q.queries {
		result[len(q.queries)-1-i] = sub
	}
	return result
}
