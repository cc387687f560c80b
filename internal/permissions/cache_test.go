package permissions_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/equiptrack/inventory-management/internal/auth"
	"github.com/equiptrack/inventory-management/internal/permissions"
)

// Mock permission store for testing
type mockPermissionStore struct {
	mu       sync.Mutex
	sets     map[int64]permissions.Set
	getError error
	calls    int64
	gate     chan struct{}
}

func newMockPermissionStore() *mockPermissionStore {
	return &mockPermissionStore{sets: make(map[int64]permissions.Set)}
}

func (m *mockPermissionStore) set(userID int64, s permissions.Set) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[userID] = s
}

func (m *mockPermissionStore) callCount() int64 {
	return atomic.LoadInt64(&m.calls)
}

func (m *mockPermissionStore) GetPermissionSet(ctx context.Context, userID int64) (permissions.Set, bool, error) {
	atomic.AddInt64(&m.calls, 1)
	if m.gate != nil {
		<-m.gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return permissions.Set{}, false, m.getError
	}
	s, ok := m.sets[userID]
	return s, ok, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("PermissionCache", func() {
	var (
		store *mockPermissionStore
		cache *permissions.Cache
		ctx   context.Context
	)

	BeforeEach(func() {
		store = newMockPermissionStore()
		cache = permissions.NewCache(store, time.Minute, 64, testLogger())
		ctx = context.Background()
	})

	Describe("Get", func() {
		It("should load from the store on a miss and serve hits from memory", func() {
			// Given
			var granted permissions.Set
			granted.Grant(permissions.PermViewReports)
			store.set(42, granted)

			// When
			first, err := cache.Get(ctx, 42)
			Expect(err).ToNot(HaveOccurred())
			second, err := cache.Get(ctx, 42)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(first).To(Equal(granted))
			Expect(second).To(Equal(granted))
			Expect(store.callCount()).To(Equal(int64(1)))
		})

		It("should cache the empty set for a user without a stored row", func() {
			// When
			set, err := cache.Get(ctx, 999)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(set).To(Equal(permissions.Set{}))

			// A second lookup does not hit the store again.
			_, err = cache.Get(ctx, 999)
			Expect(err).ToNot(HaveOccurred())
			Expect(store.callCount()).To(Equal(int64(1)))
		})

		It("should propagate store errors without caching them", func() {
			// Given
			store.getError = errors.New("connection refused")

			// When
			_, err := cache.Get(ctx, 42)

			// Then
			Expect(err).To(HaveOccurred())

			// The failure is not cached; a recovered store serves the next read.
			store.getError = nil
			var granted permissions.Set
			granted.Grant(permissions.PermViewUsers)
			store.set(42, granted)

			set, err := cache.Get(ctx, 42)
			Expect(err).ToNot(HaveOccurred())
			Expect(set).To(Equal(granted))
		})

		It("should refresh after the TTL elapses", func() {
			// Given: a cache with a very short TTL
			cache = permissions.NewCache(store, 20*time.Millisecond, 64, testLogger())
			var before permissions.Set
			before.Grant(permissions.PermViewReports)
			store.set(42, before)

			_, err := cache.Get(ctx, 42)
			Expect(err).ToNot(HaveOccurred())

			// When: the row changes and the entry expires
			var after permissions.Set
			after.Grant(permissions.PermViewReports, permissions.PermModifyAssets)
			store.set(42, after)

			Eventually(func() permissions.Set {
				set, _ := cache.Get(ctx, 42)
				return set
			}, time.Second, 10*time.Millisecond).Should(Equal(after))
		})

		It("should collapse concurrent misses into one store read", func() {
			// Given: a store that blocks until every goroutine has asked
			store.gate = make(chan struct{})
			var granted permissions.Set
			granted.Grant(permissions.PermViewReports)
			store.set(42, granted)

			// When
			var wg sync.WaitGroup
			results := make([]permissions.Set, 100)
			for i := 0; i < 100; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					defer GinkgoRecover()
					set, err := cache.Get(ctx, 42)
					Expect(err).ToNot(HaveOccurred())
					results[i] = set
				}(i)
			}
			time.Sleep(50 * time.Millisecond)
			close(store.gate)
			wg.Wait()

			// Then: one flight served everyone
			Expect(store.callCount()).To(Equal(int64(1)))
			for _, set := range results {
				Expect(set).To(Equal(granted))
			}
		})
	})

	Describe("Invalidate", func() {
		It("should make the next read see a fresh row", func() {
			// Given
			var before permissions.Set
			before.Grant(permissions.PermViewReports)
			store.set(42, before)
			_, err := cache.Get(ctx, 42)
			Expect(err).ToNot(HaveOccurred())

			// When
			var after permissions.Set
			after.Grant(permissions.PermAccessAll)
			store.set(42, after.Normalized())
			cache.Invalidate(42)

			// Then
			set, err := cache.Get(ctx, 42)
			Expect(err).ToNot(HaveOccurred())
			Expect(set.AccessAll).To(BeTrue())
		})

		It("should be safe for users that were never cached", func() {
			Expect(func() { cache.Invalidate(12345) }).ToNot(Panic())
		})
	})
})

var _ = Describe("PermissionService", func() {
	var (
		store   *mockPermissionStore
		service *permissions.Service
		ctx     context.Context
		ident   *auth.Identity
	)

	BeforeEach(func() {
		store = newMockPermissionStore()
		cache := permissions.NewCache(store, time.Minute, 64, testLogger())
		service = permissions.NewService(cache, testLogger())
		ctx = context.Background()
		ident = &auth.Identity{UserID: 42, Email: "tech@equiptrack.local", Role: "technician"}
	})

	Describe("HasPermission", func() {
		It("should allow a granted permission", func() {
			var s permissions.Set
			s.Grant(permissions.PermModifyAssets)
			store.set(42, s)

			Expect(service.HasPermission(ctx, ident, "modify_assets")).To(BeTrue())
		})

		It("should deny a permission the user lacks", func() {
			var s permissions.Set
			s.Grant(permissions.PermModifyAssets)
			store.set(42, s)

			Expect(service.HasPermission(ctx, ident, "modify_users")).To(BeFalse())
		})

		It("should deny a nil identity", func() {
			Expect(service.HasPermission(ctx, nil, "view_reports")).To(BeFalse())
		})

		It("should deny an identity without a numeric subject", func() {
			Expect(service.HasPermission(ctx, &auth.Identity{}, "view_reports")).To(BeFalse())
		})

		It("should deny unknown permission names even for root accounts", func() {
			var s permissions.Set
			s.Grant(permissions.PermAccessAll)
			store.set(42, s)

			Expect(service.HasPermission(ctx, ident, "manage_everything")).To(BeFalse())
		})

		It("should deny a user with no stored permission row", func() {
			Expect(service.HasPermission(ctx, ident, "view_reports")).To(BeFalse())
		})

		It("should deny when the store cannot be read", func() {
			store.getError = errors.New("connection refused")

			Expect(service.HasPermission(ctx, ident, "view_reports")).To(BeFalse())
		})

		It("should allow everything for a root account", func() {
			var s permissions.Set
			s.Grant(permissions.PermAccessAll)
			store.set(42, s)

			for _, name := range permissions.RegisteredNames() {
				Expect(service.HasPermission(ctx, ident, name)).To(BeTrue(), "root should hold %q", name)
			}
		})
	})

	Describe("HasAny", func() {
		BeforeEach(func() {
			var s permissions.Set
			s.Grant(permissions.PermViewReports)
			store.set(42, s)
		})

		It("should be true when one alternative is granted", func() {
			Expect(service.HasAny(ctx, ident, "modify_users", "view_reports")).To(BeTrue())
		})

		It("should be false when no alternative is granted", func() {
			Expect(service.HasAny(ctx, ident, "modify_users", "modify_assets")).To(BeFalse())
		})

		It("should be false for an empty list", func() {
			Expect(service.HasAny(ctx, ident)).To(BeFalse())
		})
	})

	Describe("HasAll", func() {
		BeforeEach(func() {
			var s permissions.Set
			s.Grant(permissions.PermViewReports, permissions.PermViewUsers)
			store.set(42, s)
		})

		It("should be true when every name is granted", func() {
			Expect(service.HasAll(ctx, ident, "view_reports", "view_users")).To(BeTrue())
		})

		It("should be false when one name is missing", func() {
			Expect(service.HasAll(ctx, ident, "view_reports", "modify_users")).To(BeFalse())
		})

		It("should be vacuously true for an empty list", func() {
			Expect(service.HasAll(ctx, ident)).To(BeTrue())
		})
	})

	Describe("Invalidate", func() {
		It("should expose permission changes immediately", func() {
			// Given: a cached deny decision
			Expect(service.HasPermission(ctx, ident, "modify_users")).To(BeFalse())

			// When: the row is written and the cache invalidated
			var s permissions.Set
			s.Grant(permissions.PermModifyUsers)
			store.set(42, s)
			service.Invalidate(42)

			// Then
			Expect(service.HasPermission(ctx, ident, "modify_users")).To(BeTrue())
		})
	})
})
