package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-clock/internal/web/handlers"
	"github.com/kozaktomas/face-clock/internal/web/middleware"
)

func (s *Server) setupRoutes(sessionManager *middleware.SessionManager) {
	// Create handlers
	authHandler := handlers.NewAuthHandler(s.stores.Admins, sessionManager)
	employeesHandler := handlers.NewEmployeesHandler(s.stores.Employees)
	matchHandler := handlers.NewMatchHandler(s.stores.Employees, s.config.Matching.Threshold, s.config.Matching.Dimension)
	attendanceHandler := handlers.NewAttendanceHandler(s.stores.Attendance, s.location)

	// Health check (no auth required)
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth routes
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/status", authHandler.Status)

		// Everything else is scoped to the session's company
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessionManager))

			// Employees
			r.Get("/employees", employeesHandler.List)
			r.Get("/employees/descriptors", employeesHandler.Descriptors)
			r.Post("/employees", employeesHandler.Register)
			r.Delete("/employees/{id}", employeesHandler.Delete)

			// Face matching
			r.Post("/faces/match", matchHandler.Match)

			// Attendance
			r.Post("/attendance", attendanceHandler.Record)
			r.Get("/attendance", attendanceHandler.List)
			r.Get("/attendance/export", attendanceHandler.Export)
		})
	})
}
