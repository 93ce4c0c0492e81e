package auth

import (
	"encoding/base32"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

type memEntry struct {
	values   map[interface{}]interface{}
	deadline time.Time
}

// MemStore is an in-memory sessions.Store with the same server-side
// lifecycle as the Redis store: sessions live server-side, expire
// after MaxAge, and are destroyed on save with a negative MaxAge.
// It exists so handler tests can run without a Redis instance.
type MemStore struct {
	mu       sync.Mutex
	sessions map[string]memEntry

	Options *sessions.Options

	// Now is the clock used for expiry checks. Tests may replace it.
	Now func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		sessions: make(map[string]memEntry),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   sessionMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		Now: time.Now,
	}
}

func (s *MemStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

func (s *MemStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	session.ID = c.Value

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[session.ID]
	if !ok || s.Now().After(entry.deadline) {
		delete(s.sessions, session.ID)
		return session, nil
	}
	for k, v := range entry.values {
		session.Values[k] = v
	}
	session.IsNew = false
	return session, nil
}

func (s *MemStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge <= 0 {
		s.mu.Lock()
		delete(s.sessions, session.ID)
		s.mu.Unlock()
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	values := make(map[interface{}]interface{}, len(session.Values))
	for k, v := range session.Values {
		values[k] = v
	}

	s.mu.Lock()
	s.sessions[session.ID] = memEntry{
		values:   values,
		deadline: s.Now().Add(time.Duration(session.Options.MaxAge) * time.Second),
	}
	s.mu.Unlock()

	http.SetCookie(w, sessions.NewCookie(session.Name(), session.ID, session.Options))
	return nil
}

// Len reports the number of live sessions.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
