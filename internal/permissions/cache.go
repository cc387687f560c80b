package permissions

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL bounds the staleness window after a permission change made
	// through a path that forgets to invalidate.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxEntries caps the cache; one entry per recently active user.
	DefaultMaxEntries = 4096
)

// Store loads the persisted permission row for a user. found is false when
// the user has no row yet, which is not an error.
type Store interface {
	GetPermissionSet(ctx context.Context, userID int64) (set Set, found bool, err error)
}

// Cache holds per-user permission sets with a fixed time-to-live. Entries
// are replaced wholesale on refresh and never mutated in place, so no lock
// is held across store reads. Concurrent misses for the same user collapse
// into a single store read.
type Cache struct {
	store   Store
	entries *lru.LRU[int64, Set]
	group   singleflight.Group
	logger  *slog.Logger
}

func NewCache(store Store, ttl time.Duration, maxEntries int, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		store:   store,
		entries: lru.NewLRU[int64, Set](maxEntries, nil, ttl),
		logger:  logger,
	}
}

// Get returns the cached permission set for the user, refreshing from the
// store on a miss or after expiry. A user without a stored row gets the
// empty set.
func (c *Cache) Get(ctx context.Context, userID int64) (Set, error) {
	if set, ok := c.entries.Get(userID); ok {
		return set, nil
	}
	return c.refresh(ctx, userID)
}

func (c *Cache) refresh(ctx context.Context, userID int64) (Set, error) {
	v, err, _ := c.group.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		set, found, err := c.store.GetPermissionSet(ctx, userID)
		if err != nil {
			return Set{}, err
		}
		if !found {
			set = Set{}
		}
		c.entries.Add(userID, set)
		return set, nil
	})
	if err != nil {
		return Set{}, err
	}
	return v.(Set), nil
}

// Invalidate evicts the cached entry for the user. Safe to call whether or
// not an entry exists; the next lookup refreshes from the store.
func (c *Cache) Invalidate(userID int64) {
	c.entries.Remove(userID)
}

// Len reports the number of live entries, for diagnostics.
func (c *Cache) Len() int {
	return c.entries.Len()
}
