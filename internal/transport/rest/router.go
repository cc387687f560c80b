package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/equiptrack/inventory-management/internal/asset"
	"github.com/equiptrack/inventory-management/internal/auth"
	"github.com/equiptrack/inventory-management/internal/permissions"
	"github.com/equiptrack/inventory-management/internal/profile"
	"github.com/equiptrack/inventory-management/internal/transport/middleware"
	"github.com/equiptrack/inventory-management/internal/transport/swagger"
	"github.com/equiptrack/inventory-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes wires the HTTP surface. Route guards name the single
// permission they need; the checker resolves AccessAll and everything
// ambiguous internally.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, assetHandler *asset.Handler, profileHandler *profile.Handler, checker permissions.Checker, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)

			sr.Group(func(ar chi.Router) {
				ar.Use(authHandler.AuthMiddleware)
				ar.Post("/change-password", authHandler.ChangePassword)
			})
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", userHandler.GetCurrentUser)

			pr.Route("/users", func(ur chi.Router) {
				ur.Group(func(vr chi.Router) {
					vr.Use(middleware.RequirePermission(checker, "view_users"))
					vr.Get("/", userHandler.ListUsers)
					vr.Get("/{id}", userHandler.GetUser)
				})

				ur.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermission(checker, "modify_users"))
					mr.Post("/", userHandler.CreateUser)
					mr.Put("/{id}/permissions", userHandler.UpdatePermissions)
					mr.Put("/{id}/active", userHandler.SetActive)
				})
			})

			pr.Route("/assets", func(ar chi.Router) {
				// Any authenticated user can browse the fleet
				ar.Get("/", assetHandler.ListAssets)
				ar.Get("/{id}", assetHandler.GetAsset)

				ar.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermission(checker, "modify_assets"))
					mr.Post("/", assetHandler.CreateAsset)
					mr.Patch("/{id}", assetHandler.UpdateAsset)
					mr.Patch("/{id}/retire", assetHandler.RetireAsset)
				})

				ar.Group(func(sr chi.Router) {
					sr.Use(middleware.RequirePermission(checker, "modify_assignments"))
					sr.Patch("/{id}/assign", assetHandler.AssignAsset)
					sr.Patch("/{id}/return", assetHandler.ReturnAsset)
				})

				ar.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermission(checker, "modify_maintenance"))
					mr.Patch("/{id}/maintenance", assetHandler.StartMaintenance)
					mr.Patch("/{id}/maintenance/complete", assetHandler.CompleteMaintenance)
				})
			})

			pr.Route("/profiles", func(fr chi.Router) {
				fr.Get("/", profileHandler.GetProfiles)

				fr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermission(checker, "modify_equipment_profiles"))
					mr.Post("/", profileHandler.CreateProfile)
					mr.Delete("/{id}", profileHandler.DeactivateProfile)
				})
			})
		})
	})
}
