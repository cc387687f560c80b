package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/equiptrack/inventory-management/internal/auth"
	"github.com/equiptrack/inventory-management/internal/permissions"
	"github.com/equiptrack/inventory-management/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Module Suite")
}

// Mock user repository for testing
type mockUserRepository struct {
	users       map[int64]*user.User
	byEmail     map[string]*user.User
	createError error
	nextID      int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:   make(map[int64]*user.User),
		byEmail: make(map[string]*user.User),
		nextID:  1,
	}
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.createError != nil {
		return m.createError
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepository) List(ctx context.Context, offset, limit int) ([]user.User, int64, error) {
	var out []user.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return []user.User{}, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (m *mockUserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	u, ok := m.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.IsActive = active
	return nil
}

// Mock permission store for testing
type mockPermissionStore struct {
	sets      map[int64]permissions.Set
	saveError error
}

func newMockPermissionStore() *mockPermissionStore {
	return &mockPermissionStore{sets: make(map[int64]permissions.Set)}
}

func (m *mockPermissionStore) GetPermissionSet(ctx context.Context, userID int64) (permissions.Set, bool, error) {
	s, ok := m.sets[userID]
	return s, ok, nil
}

func (m *mockPermissionStore) SavePermissionSet(ctx context.Context, userID int64, set permissions.Set) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.sets[userID] = set
	return nil
}

// Mock cache invalidator for testing
type mockInvalidator struct {
	invalidated []int64
}

func (m *mockInvalidator) Invalidate(userID int64) {
	m.invalidated = append(m.invalidated, userID)
}

var _ = Describe("UserService", func() {
	var (
		service     *user.Service
		mockRepo    *mockUserRepository
		mockPerms   *mockPermissionStore
		invalidator *mockInvalidator
		ctx         context.Context
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		mockPerms = newMockPermissionStore()
		invalidator = &mockInvalidator{}
		hasher := auth.NewPasswordHasher(10_000)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, mockPerms, invalidator, hasher, logger)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("should create an active account with a hashed password", func() {
			// When
			u, err := service.Create(ctx, user.CreateUserDTO{
				Email:    "new@equiptrack.local",
				Name:     "New Person",
				Role:     "user",
				Password: "long-enough-password",
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(u.IsActive).To(BeTrue())
			Expect(u.PasswordHash).ToNot(Equal("long-enough-password"))
			Expect(auth.IsHashedCredential(u.PasswordHash)).To(BeTrue())
		})

		It("should seed the permission row from the role at creation time", func() {
			// When
			u, err := service.Create(ctx, user.CreateUserDTO{
				Email:    "tech@equiptrack.local",
				Name:     "Technician",
				Role:     "technician",
				Password: "long-enough-password",
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			seeded, ok := mockPerms.sets[u.ID]
			Expect(ok).To(BeTrue())
			Expect(seeded).To(Equal(permissions.DeriveForRole("technician")))
			Expect(u.Permissions).To(ConsistOf(seeded.Names()))
		})

		It("should seed a normalized full row for administrators", func() {
			// When
			u, err := service.Create(ctx, user.CreateUserDTO{
				Email:    "root@equiptrack.local",
				Name:     "Admin",
				Role:     "administrator",
				Password: "long-enough-password",
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			seeded := mockPerms.sets[u.ID]
			Expect(seeded.AccessAll).To(BeTrue())
			for _, name := range permissions.RegisteredNames() {
				p, _ := permissions.Parse(name)
				Expect(seeded.Stored(p)).To(BeTrue(), "admin row should store %q", name)
			}
		})

		It("should seed an empty row for an unrecognized role", func() {
			// When
			u, err := service.Create(ctx, user.CreateUserDTO{
				Email:    "intern@equiptrack.local",
				Name:     "Intern",
				Role:     "intern",
				Password: "long-enough-password",
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(mockPerms.sets[u.ID]).To(Equal(permissions.Set{}))
			Expect(u.Permissions).To(BeEmpty())
		})

		It("should invalidate the cache entry for the new account", func() {
			// When
			u, err := service.Create(ctx, user.CreateUserDTO{
				Email:    "new@equiptrack.local",
				Name:     "New Person",
				Role:     "user",
				Password: "long-enough-password",
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(invalidator.invalidated).To(ContainElement(u.ID))
		})

		It("should reject a duplicate email", func() {
			// Given
			_, err := service.Create(ctx, user.CreateUserDTO{
				Email:    "dup@equiptrack.local",
				Name:     "First",
				Role:     "user",
				Password: "long-enough-password",
			})
			Expect(err).ToNot(HaveOccurred())

			// When
			_, err = service.Create(ctx, user.CreateUserDTO{
				Email:    "dup@equiptrack.local",
				Name:     "Second",
				Role:     "user",
				Password: "long-enough-password",
			})

			// Then
			Expect(err).To(MatchError(user.ErrAlreadyExists))
		})

		It("should reject a short password", func() {
			// When
			_, err := service.Create(ctx, user.CreateUserDTO{
				Email:    "new@equiptrack.local",
				Name:     "New Person",
				Role:     "user",
				Password: "short",
			})

			// Then
			var verr user.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
		})
	})

	Describe("GetByID", func() {
		It("should attach effective permission names", func() {
			// Given
			u, err := service.Create(ctx, user.CreateUserDTO{
				Email:    "auditor@equiptrack.local",
				Name:     "Auditor",
				Role:     "auditor",
				Password: "long-enough-password",
			})
			Expect(err).ToNot(HaveOccurred())

			// When
			loaded, err := service.GetByID(ctx, u.ID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded.Permissions).To(ConsistOf("view_reports"))
		})

		It("should return not found for unknown users", func() {
			_, err := service.GetByID(ctx, 12345)
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})

	Describe("UpdatePermissions", func() {
		var userID int64

		BeforeEach(func() {
			u, err := service.Create(ctx, user.CreateUserDTO{
				Email:    "subject@equiptrack.local",
				Name:     "Subject",
				Role:     "user",
				Password: "long-enough-password",
			})
			Expect(err).ToNot(HaveOccurred())
			userID = u.ID
			invalidator.invalidated = nil
		})

		It("should replace the stored row and invalidate the cache", func() {
			// Given
			var next permissions.Set
			next.Grant(permissions.PermModifyUsers)

			// When
			saved, err := service.UpdatePermissions(ctx, userID, user.UpdatePermissionsDTO{Permissions: next})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(saved.Has(permissions.PermModifyUsers)).To(BeTrue())
			Expect(mockPerms.sets[userID]).To(Equal(saved))
			Expect(invalidator.invalidated).To(ConsistOf(userID))
		})

		It("should normalize the root flag before storing", func() {
			// Given
			var next permissions.Set
			next.Grant(permissions.PermAccessAll)

			// When
			saved, err := service.UpdatePermissions(ctx, userID, user.UpdatePermissionsDTO{Permissions: next})

			// Then
			Expect(err).ToNot(HaveOccurred())
			for _, name := range permissions.RegisteredNames() {
				p, _ := permissions.Parse(name)
				Expect(saved.Stored(p)).To(BeTrue(), "stored row should carry %q", name)
			}
		})

		It("should refuse updates for unknown users", func() {
			_, err := service.UpdatePermissions(ctx, 12345, user.UpdatePermissionsDTO{})
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})

	Describe("SetActive", func() {
		It("should flip the flag and invalidate the cached permissions", func() {
			// Given
			u, err := service.Create(ctx, user.CreateUserDTO{
				Email:    "leaver@equiptrack.local",
				Name:     "Leaver",
				Role:     "user",
				Password: "long-enough-password",
			})
			Expect(err).ToNot(HaveOccurred())
			invalidator.invalidated = nil

			// When
			err = service.SetActive(ctx, u.ID, false)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.users[u.ID].IsActive).To(BeFalse())
			Expect(invalidator.invalidated).To(ConsistOf(u.ID))
		})
	})
})
