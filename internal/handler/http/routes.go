package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/users", h.register)
		r.Post("/users/login", h.login)
		r.Get("/users/{id}/avatar", h.getAvatar)
	})

	// routes behind the identity guard
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/users/logout", h.logout)
		r.Get("/users/me", h.me)
		r.Patch("/users/me", h.updateMe)
		r.Delete("/users/me", h.deleteMe)
		r.Post("/users/me/avatar", h.uploadAvatar)
		r.Delete("/users/me/avatar", h.deleteAvatar)

		r.Get("/todos", h.listTodos)
		r.Post("/todos", h.createTodo)
		r.Get("/todos/{id}", h.getTodo)
		r.Patch("/todos/{id}", h.updateTodo)
		r.Delete("/todos/{id}", h.deleteTodo)
	})

	return router
}
