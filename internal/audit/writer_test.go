package audit_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/equiptrack/inventory-management/internal/audit"
	"github.com/equiptrack/inventory-management/internal/auth"
)

func TestAudit(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Module Suite")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Mock audit store for testing
type mockAuditStore struct {
	mu          sync.Mutex
	events      []audit.Event
	attempts    int
	insertError error
	gate        chan struct{}
}

func newMockAuditStore() *mockAuditStore {
	return &mockAuditStore{}
}

func (m *mockAuditStore) Insert(ctx context.Context, event audit.Event) error {
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.insertError != nil {
		return m.insertError
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockAuditStore) attemptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

func (m *mockAuditStore) stored() []audit.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]audit.Event, len(m.events))
	copy(out, m.events)
	return out
}

var _ = Describe("AuditWriter", func() {
	var (
		store  *mockAuditStore
		writer *audit.Writer
		ident  *auth.Identity
	)

	BeforeEach(func() {
		store = newMockAuditStore()
		writer = audit.NewWriter(store, testLogger(), 8, time.Second)
		ident = &auth.Identity{UserID: 42, Email: "tech@equiptrack.local", Role: "technician"}
	})

	AfterEach(func() {
		writer.Close()
	})

	Describe("Record", func() {
		It("should persist the event through the background drain", func() {
			// When
			writer.Record(ident, audit.ModuleAssets, audit.ActionCreate, "registered asset EQ-0001")

			// Then
			Eventually(store.stored, time.Second, 10*time.Millisecond).Should(HaveLen(1))

			event := store.stored()[0]
			Expect(event.ActorID).To(Equal(int64(42)))
			Expect(event.ModuleID).To(Equal(audit.ModuleAssets))
			Expect(event.ActionID).To(Equal(audit.ActionCreate))
			Expect(event.Details).To(Equal("registered asset EQ-0001"))
			Expect(event.OccurredAt).ToNot(BeZero())
		})

		It("should skip events without a resolvable identity", func() {
			// When
			writer.Record(nil, audit.ModuleAssets, audit.ActionCreate, "who did this")
			writer.Record(&auth.Identity{}, audit.ModuleAssets, audit.ActionCreate, "and this")

			// Then
			Consistently(store.stored, 100*time.Millisecond, 20*time.Millisecond).Should(BeEmpty())
		})

		It("should swallow storage failures and keep draining", func() {
			// Given
			store.mu.Lock()
			store.insertError = errors.New("disk full")
			store.mu.Unlock()

			// When: a write fails, then storage recovers
			writer.Record(ident, audit.ModuleAuth, audit.ActionLogin, "failed write")

			Eventually(store.attemptCount, time.Second, 10*time.Millisecond).Should(Equal(1))

			store.mu.Lock()
			store.insertError = nil
			store.mu.Unlock()

			writer.Record(ident, audit.ModuleAuth, audit.ActionLogin, "successful write")

			// Then: the writer is still alive and persists the later event
			Eventually(func() []audit.Event {
				return store.stored()
			}, time.Second, 10*time.Millisecond).Should(HaveLen(1))
			Expect(store.stored()[0].Details).To(Equal("successful write"))
		})

		It("should drop events instead of blocking when the queue is full", func() {
			// Given: a drain goroutine stuck on a slow store
			store.gate = make(chan struct{})
			writer = audit.NewWriter(store, testLogger(), 4, time.Second)

			// When: far more events arrive than the queue holds
			for i := 0; i < 50; i++ {
				writer.Record(ident, audit.ModuleAssets, audit.ActionUpdate, "burst event")
			}
			close(store.gate)
			writer.Close()

			// Then: the surplus was dropped, not queued
			Expect(len(store.stored())).To(BeNumerically("<=", 5))
			Expect(len(store.stored())).To(BeNumerically(">", 0))
		})
	})

	Describe("Close", func() {
		It("should flush queued events before returning", func() {
			// Given
			for i := 0; i < 5; i++ {
				writer.Record(ident, audit.ModuleUsers, audit.ActionUpdate, "queued event")
			}

			// When
			writer.Close()

			// Then
			Expect(store.stored()).To(HaveLen(5))
		})

		It("should be safe to call twice", func() {
			writer.Close()
			Expect(writer.Close).ToNot(Panic())
		})
	})

	Describe("RecordSync", func() {
		It("should write directly and surface storage errors", func() {
			// Given
			store.mu.Lock()
			store.insertError = errors.New("constraint violation")
			store.mu.Unlock()

			// When
			err := writer.RecordSync(context.Background(), audit.Event{
				ActorID:  42,
				ModuleID: audit.ModuleUsers,
				ActionID: audit.ActionCreate,
				Details:  "seeded account",
			})

			// Then
			Expect(err).To(HaveOccurred())
		})

		It("should stamp OccurredAt when unset", func() {
			// When
			err := writer.RecordSync(context.Background(), audit.Event{
				ActorID:  42,
				ModuleID: audit.ModuleUsers,
				ActionID: audit.ActionCreate,
				Details:  "seeded account",
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(store.stored()[0].OccurredAt).ToNot(BeZero())
		})
	})
})
