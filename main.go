package main

import (
	"log"
	"net/http"

	"timecard/approval"
	"timecard/config"
	"timecard/database"
	"timecard/handlers"
	"timecard/middleware"
	"timecard/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	if err := database.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	repo := database.NewRepository(database.GetDB())
	machine := approval.NewMachine(repo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	timeclockHandler := handlers.NewTimeclockHandler(cfg, repo, machine)
	approvalHandler := handlers.NewApprovalHandler(cfg, repo, machine)
	reportHandler := handlers.NewReportHandler(cfg)
	siteHandler := handlers.NewSiteHandler(cfg)

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Post("/api/login", authHandler.Login)
	router.Post("/api/register", authHandler.Register)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Get("/api/logout", authHandler.Logout)
		r.Post("/api/change-password", authHandler.ChangePassword)

		// Routes that require password to be changed first
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePasswordChange)

			// Timeclock (all authenticated users)
			r.Post("/api/clock-in", timeclockHandler.ClockIn)
			r.Post("/api/clock-out", timeclockHandler.ClockOut)
			r.Post("/api/lunch-out", timeclockHandler.LunchOut)
			r.Post("/api/lunch-in", timeclockHandler.LunchIn)
			r.Get("/api/status", timeclockHandler.Status)
			r.Get("/api/timecards", timeclockHandler.Timecards)
			r.Post("/api/timecards/submit", timeclockHandler.SubmitDay)
			r.Get("/api/sites", siteHandler.ListSites)

			// Supervisor and admin routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor))
				r.Get("/api/approvals/pending", approvalHandler.Pending)
				r.Post("/api/approvals/approve", approvalHandler.Approve)
				r.Post("/api/approvals/reject", approvalHandler.Reject)
				r.Get("/export/csv", reportHandler.ExportCSV)
				r.Get("/export/json", reportHandler.ExportJSON)
			})

			// Admin only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Post("/api/approvals/archive", approvalHandler.Archive)
				r.Post("/api/sites", siteHandler.CreateSite)
				r.Get("/api/crews", siteHandler.ListCrews)
				r.Post("/api/crews", siteHandler.CreateCrew)
				r.Post("/api/crews/assign", siteHandler.AssignSupervisor)
				r.Post("/api/invites", authHandler.CreateInvite)
				r.Get("/api/invites", authHandler.ListInvites)
				r.Get("/api/users", authHandler.ListUsers)
			})
		})
	})

	log.Printf("Server starting on port %s", cfg.ServerPort)
	log.Printf("Default admin credentials: admin / admin")
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, router))
}
