package bancho

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Sessions is the authoritative registry of logged-in users.
// Thread-safe for concurrent access; structural changes are writer-exclusive.
type Sessions struct {
	mu       sync.RWMutex
	byToken  map[string]*Player
	byID     map[int32]*Player
	bySafe   map[string]*Player

	verifyCache *bcryptCache
}

// NewSessions creates an empty session registry.
// cacheSize bounds the bcrypt verify cache (<=0 disables bounding at 2048).
func NewSessions(cacheSize int) *Sessions {
	if cacheSize <= 0 {
		cacheSize = 2048
	}
	return &Sessions{
		byToken:     make(map[string]*Player, 256),
		byID:        make(map[int32]*Player, 256),
		bySafe:      make(map[string]*Player, 256),
		verifyCache: newBcryptCache(cacheSize),
	}
}

// Insert registers a session. A session with an empty token or a
// duplicate id/safe name is rejected.
func (s *Sessions) Insert(p *Player) error {
	if p.Token == "" {
		return fmt.Errorf("inserting session for %q: empty token", p.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID]; ok {
		return fmt.Errorf("inserting session for %q: id %d already present", p.Name, p.ID)
	}
	if _, ok := s.bySafe[p.SafeName]; ok {
		return fmt.Errorf("inserting session for %q: safe name already present", p.Name)
	}
	s.byToken[p.Token] = p
	s.byID[p.ID] = p
	s.bySafe[p.SafeName] = p
	return nil
}

// Remove unregisters a session. Removing an absent session is a no-op.
func (s *Sessions) Remove(p *Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID]; !ok {
		return
	}
	delete(s.byToken, p.Token)
	delete(s.byID, p.ID)
	delete(s.bySafe, p.SafeName)
}

// GetByToken returns the session for a token, or nil.
func (s *Sessions) GetByToken(token string) *Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byToken[token]
}

// GetByID returns the session for a user id, or nil.
func (s *Sessions) GetByID(id int32) *Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

// GetBySafeName returns the session for a safe name, or nil.
func (s *Sessions) GetBySafeName(safe string) *Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bySafe[safe]
}

// GetByName returns the session for a display name, or nil.
func (s *Sessions) GetByName(name string) *Player {
	return s.GetBySafeName(MakeSafeName(name))
}

// All returns a snapshot of every session.
func (s *Sessions) All() []*Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Player, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	return out
}

// Unrestricted returns every session in good standing.
func (s *Sessions) Unrestricted() []*Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Player, 0, len(s.byID))
	for _, p := range s.byID {
		if !p.Restricted() {
			out = append(out, p)
		}
	}
	return out
}

// Staff returns every session carrying staff privileges.
func (s *Sessions) Staff() []*Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Player
	for _, p := range s.byID {
		if p.Privileges().HasAny(PrivStaff) {
			out = append(out, p)
		}
	}
	return out
}

// Count returns the number of registered sessions.
func (s *Sessions) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// EnqueueAll appends data to every session's queue except the ids in except.
func (s *Sessions) EnqueueAll(data []byte, except ...int32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byID {
		skip := false
		for _, ex := range except {
			if p.ID == ex {
				skip = true
				break
			}
		}
		if !skip {
			p.Enqueue(data)
		}
	}
}

// CheckPassword verifies an md5-hex client password against the stored
// bcrypt hash, consulting the per-hash cache first. bcrypt runs only on
// cache misses; a successful verify populates the cache.
func (s *Sessions) CheckPassword(pwMD5 string, pwBcrypt []byte) bool {
	if cached, ok := s.verifyCache.get(string(pwBcrypt)); ok {
		return cached == pwMD5
	}
	if err := bcrypt.CompareHashAndPassword(pwBcrypt, []byte(pwMD5)); err != nil {
		return false
	}
	s.verifyCache.put(string(pwBcrypt), pwMD5)
	return true
}

// bcryptCache maps a stored bcrypt hash to the last plaintext that verified
// against it. Bounded FIFO eviction; replace-on-write semantics.
type bcryptCache struct {
	mu    sync.Mutex
	max   int
	order []string
	items map[string]string
}

func newBcryptCache(max int) *bcryptCache {
	return &bcryptCache{
		max:   max,
		items: make(map[string]string, max),
	}
}

func (c *bcryptCache) get(hash string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[hash]
	return v, ok
}

func (c *bcryptCache) put(hash, plaintext string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[hash]; !ok {
		if len(c.order) >= c.max {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.items, oldest)
		}
		c.order = append(c.order, hash)
	}
	c.items[hash] = plaintext
}
