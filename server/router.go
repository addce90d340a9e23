package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.hacdias.com/posts/log"
)

const postsPath = "/posts"

func (s *Server) makeRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(s.withRecoverer)
	r.Use(middleware.RequestID)
	r.Use(log.WithZap)
	r.Use(withCleanPath)
	r.Use(withSecurityHeaders)

	r.Route(postsPath, func(r chi.Router) {
		r.Get("/", s.postsGet)
		r.Post("/", s.postsPost)
		r.Get("/{id}", s.postGet)
		r.Put("/{id}", s.postPut)
		r.Delete("/{id}", s.postDelete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.serveError(w, http.StatusNotFound, errors.New("route not found"))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.serveError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})

	return r
}
