package permission

import (
	"sync"

	"github.com/google/uuid"
)

// CacheKey scopes a cached resolution to a user and an organization.
// OrgID is uuid.Nil for the organization-independent (list/create)
// context.
type CacheKey struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
}

// Cache memoizes resolved permission sets for the lifetime of a request.
// It is dependency-injected through the call context; stale entries are
// a correctness bug, so any grant must be followed by Invalidate.
type Cache struct {
	mu      sync.RWMutex
	entries map[CacheKey]Set
}

func NewCache() *Cache {
	return &Cache{entries: map[CacheKey]Set{}}
}

func (c *Cache) Get(key CacheKey) (Set, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

func (c *Cache) Put(key CacheKey, s Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = s.Clone()
}

// Invalidate drops every entry for the given user. The next resolution
// recomputes from the authoritative store.
func (c *Cache) Invalidate(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.UserID == userID {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[CacheKey]Set{}
}
