package editor

import (
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/folio/internal/model"
)

// Session is one open editor: the in-memory record a browser is working on.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	editor     *Editor
	lastAccess time.Time
	dirty      bool
	savedAt    time.Time
}

// Do runs fn with exclusive access to the session's editor. A nil error from
// a mutating fn marks the session dirty.
func (s *Session) Do(fn func(*Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.editor); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// View runs fn with read access to the editor. It never marks the session dirty.
func (s *Session) View(fn func(*Editor)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.editor)
}

// MarkClean records that the in-memory record now equals the persisted one.
func (s *Session) MarkClean(saved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
	if saved {
		s.savedAt = time.Now()
	}
}

// Reset replaces the whole record with content and marks the session clean,
// as after reloading the persisted copy.
func (s *Session) Reset(content *model.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Replace(content)
	s.dirty = false
}

// Status reports whether there are unsaved edits and when the session last saved.
func (s *Session) Status() (dirty bool, savedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty, s.savedAt
}

// Kind is the template type this session edits.
func (s *Session) Kind() model.Kind {
	return s.editor.Kind()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastAccess = now
	s.mu.Unlock()
}

func (s *Session) lastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

// Store keeps open sessions in memory with a TTL and a capacity cap.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	ttl         time.Duration
	now         func() time.Time
}

// NewStore creates an empty store.
func NewStore(maxSessions int, ttl time.Duration) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Create opens a session editing a copy of content.
// When the store is full the least recently used session is evicted.
func (s *Store) Create(kind model.Kind, content *model.Content) *Session {
	now := s.now()
	sess := &Session{
		ID:         xid.New().String(),
		CreatedAt:  now,
		editor:     New(kind, content),
		lastAccess: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		var oldestID string
		var oldest time.Time
		for id, existing := range s.sessions {
			t := existing.lastAccessed()
			if oldestID == "" || t.Before(oldest) {
				oldestID = id
				oldest = t
			}
		}
		delete(s.sessions, oldestID)
	}

	s.sessions[sess.ID] = sess
	return sess
}

// Get returns the session with id and refreshes its last-access time.
// Expired sessions are treated as absent.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := s.now()
	if s.ttl > 0 && now.Sub(sess.lastAccessed()) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	sess.touch(now)
	return sess, true
}

// Delete drops a session. Unsaved edits in it are discarded.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len is the number of open sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastAccessed().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every interval until the returned stop func is called.
func (s *Store) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
