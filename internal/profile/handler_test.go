package profile_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/equiptrack/inventory-management/internal/audit"
	"github.com/equiptrack/inventory-management/internal/auth"
	"github.com/equiptrack/inventory-management/internal/profile"
	"github.com/go-chi/chi"
)

// Mock audit recorder capturing what handlers record
type mockAuditRecorder struct {
	events []recordedAuditEvent
}

type recordedAuditEvent struct {
	actorID  int64
	moduleID int
	actionID int
	details  string
}

func (m *mockAuditRecorder) Record(ident *auth.Identity, moduleID, actionID int, details string) {
	if !ident.Resolved() {
		return
	}
	m.events = append(m.events, recordedAuditEvent{
		actorID:  ident.UserID,
		moduleID: moduleID,
		actionID: actionID,
		details:  details,
	})
}

var _ = Describe("ProfileHandler", func() {
	var (
		handler  *profile.Handler
		service  *profile.Service
		mockRepo *mockProfileRepository
		recorder *mockAuditRecorder
		router   *chi.Mux
		ident    *auth.Identity
	)

	BeforeEach(func() {
		mockRepo = newMockProfileRepository()
		recorder = &mockAuditRecorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = profile.NewService(mockRepo, logger)
		handler = profile.NewHandler(service, recorder)
		ident = &auth.Identity{UserID: 7, Email: "admin@equiptrack.local", Role: "administrator"}

		router = chi.NewRouter()
		router.Post("/profiles", handler.CreateProfile)
		router.Delete("/profiles/{id}", handler.DeactivateProfile)
	})

	authedRequest := func(method, target string, body []byte) *http.Request {
		req := httptest.NewRequest(method, target, bytes.NewReader(body))
		return req.WithContext(auth.ContextWithIdentity(req.Context(), ident))
	}

	Describe("CreateProfile", func() {
		It("should record the creation under the profiles module", func() {
			// When
			rec := httptest.NewRecorder()
			body := []byte(`{"name":"ThinkPad T14","manufacturer":"Lenovo","category":"laptop"}`)
			router.ServeHTTP(rec, authedRequest(http.MethodPost, "/profiles", body))

			// Then
			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(recorder.events).To(HaveLen(1))
			Expect(recorder.events[0].moduleID).To(Equal(audit.ModuleProfiles))
			Expect(recorder.events[0].actionID).To(Equal(audit.ActionCreate))
			Expect(recorder.events[0].actorID).To(Equal(int64(7)))
		})

		It("should not record anything when creation is rejected", func() {
			// Given
			_, err := service.Create(context.Background(), profile.CreateProfileDTO{Name: "ThinkPad T14"})
			Expect(err).ToNot(HaveOccurred())

			// When
			rec := httptest.NewRecorder()
			body := []byte(`{"name":"ThinkPad T14"}`)
			router.ServeHTTP(rec, authedRequest(http.MethodPost, "/profiles", body))

			// Then
			Expect(rec.Code).To(Equal(http.StatusConflict))
			Expect(recorder.events).To(BeEmpty())
		})
	})

	Describe("DeactivateProfile", func() {
		It("should record the deactivation under the profiles module", func() {
			// Given
			p, err := service.Create(context.Background(), profile.CreateProfileDTO{Name: "Dell Latitude"})
			Expect(err).ToNot(HaveOccurred())

			// When
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/profiles/1", nil))

			// Then
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(recorder.events).To(HaveLen(1))
			Expect(recorder.events[0].moduleID).To(Equal(audit.ModuleProfiles))
			Expect(recorder.events[0].actionID).To(Equal(audit.ActionDelete))
			Expect(p.ID).To(Equal(int64(1)))
		})
	})
})
