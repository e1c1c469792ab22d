package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"dreamspeak/application/ports"
	"dreamspeak/domain/dream"
)

// Store is the in-memory record store. It lives for the life of the process;
// every method takes the lock, and records leave the store as deep copies.
type Store struct {
	mu sync.RWMutex

	users    map[int64]*dream.User
	dreams   map[int64]*dream.Dream
	messages map[int64]*dream.ChatMessage

	nextUserID    int64
	nextDreamID   int64
	nextMessageID int64

	now func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for createdAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store seeded with the default user
func NewStore(opts ...Option) *Store {
	s := &Store{
		users:         make(map[int64]*dream.User),
		dreams:        make(map[int64]*dream.Dream),
		messages:      make(map[int64]*dream.ChatMessage),
		nextUserID:    1,
		nextDreamID:   1,
		nextMessageID: 1,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.users[dream.DefaultUserID] = &dream.User{ID: dream.DefaultUserID, Username: "dreamer", Password: ""}
	s.nextUserID = dream.DefaultUserID + 1

	return s
}

var _ ports.Store = (*Store)(nil)

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, username, password string) (*dream.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return nil, fmt.Errorf("username %q already taken", username)
		}
	}

	u := &dream.User{ID: s.nextUserID, Username: username, Password: password}
	s.users[u.ID] = u
	s.nextUserID++

	c := *u
	return &c, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*dream.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*dream.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			c := *u
			return &c, nil
		}
	}
	return nil, ports.ErrNotFound
}

// Dreams

func (s *Store) CreateDream(ctx context.Context, input dream.NewDream) (*dream.Dream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := input.Build(s.nextDreamID, s.now())
	s.dreams[d.ID] = d
	s.nextDreamID++

	return d.Clone(), nil
}

func (s *Store) GetDream(ctx context.Context, id int64) (*dream.Dream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.dreams[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return d.Clone(), nil
}

func (s *Store) GetDreamsByUserID(ctx context.Context, userID int64) ([]*dream.Dream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectDreams(userID, ""), nil
}

func (s *Store) UpdateDream(ctx context.Context, id int64, patch dream.Patch) (*dream.Dream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dreams[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	patch.Apply(d)
	return d.Clone(), nil
}

func (s *Store) DeleteDream(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dreams[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.dreams, id)
	return nil
}

func (s *Store) SearchDreams(ctx context.Context, userID int64, query string) ([]*dream.Dream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectDreams(userID, query), nil
}

// collectDreams scans every dream; callers hold the lock
func (s *Store) collectDreams(userID int64, query string) []*dream.Dream {
	out := make([]*dream.Dream, 0)
	for _, d := range s.dreams {
		if d.UserID != userID {
			continue
		}
		if query != "" && !d.Matches(query) {
			continue
		}
		out = append(out, d.Clone())
	}
	dream.SortNewestFirst(out)
	return out
}

// Chat messages

func (s *Store) CreateChatMessage(ctx context.Context, input dream.NewChatMessage) (*dream.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := input.Build(s.nextMessageID, s.now())
	s.messages[m.ID] = m
	s.nextMessageID++

	return m.Clone(), nil
}

func (s *Store) GetChatMessages(ctx context.Context, dreamID *int64) ([]*dream.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*dream.ChatMessage, 0)
	for _, m := range s.messages {
		switch {
		case dreamID == nil && m.IsGlobal():
		case dreamID != nil && m.DreamID != nil && *m.DreamID == *dreamID:
		default:
			continue
		}
		out = append(out, m.Clone())
	}
	dream.SortOldestFirst(out)
	return out, nil
}

func (s *Store) GetRecentChatMessages(ctx context.Context, limit int) ([]*dream.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*dream.ChatMessage, 0, len(s.messages))
	for _, m := range s.messages {
		all = append(all, m.Clone())
	}
	return dream.LatestMessages(all, limit), nil
}
