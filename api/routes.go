package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-moderation-backend/auth"
)

// setupRoutes sets up the public submission routes and the gated admin routes
func setupRoutes(r chi.Router, handlers *routeHandlers, gate *auth.Gate) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.getHealth())

		// Public submission endpoints
		r.Post("/contacts", handlers.contactHandler.createContact())
		r.Post("/testimonials", handlers.testimonialHandler.createTestimonial())
		r.Post("/testimonials/word-count", handlers.testimonialHandler.countWords())

		// Public display endpoints
		r.Get("/testimonials", handlers.testimonialHandler.getApprovedTestimonials())
		r.Get("/testimonials/stream", handlers.testimonialHandler.streamApprovedTestimonials())
		r.Get("/projects", handlers.projectHandler.getPublicProjects())

		r.Post("/admin/login", handlers.authHandler.login())

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(gate.Middleware)

			r.Post("/admin/logout", handlers.authHandler.logout())
			r.Get("/admin/session", handlers.authHandler.getSession())
			r.Get("/admin/dashboard", handlers.dashboardHandler.getDashboard())

			// Testimonial moderation endpoints
			r.Get("/admin/testimonials", handlers.testimonialHandler.getTestimonials())
			r.Patch("/admin/testimonial/{testimonialID}/approve", handlers.testimonialHandler.approveTestimonial())
			r.Delete("/admin/testimonial/{testimonialID}", handlers.testimonialHandler.deleteTestimonial())

			// Contact Handler endpoints
			r.Get("/admin/contacts", handlers.contactHandler.getAllContacts())
			r.Get("/admin/contact/{contactID}", handlers.contactHandler.getContact())
			r.Delete("/admin/contact/{contactID}", handlers.contactHandler.deleteContact())

			// Project Handler endpoints
			r.Get("/admin/projects", handlers.projectHandler.getAllProjects())
			r.Post("/admin/projects", handlers.projectHandler.createProject())
			r.Get("/admin/project/{projectID}", handlers.projectHandler.getProject())
			r.Put("/admin/project/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/admin/project/{projectID}", handlers.projectHandler.deleteProject())
		})
	})
}
