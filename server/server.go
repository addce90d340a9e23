package server

import (
	"context"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"go.hacdias.com/posts/config"
	"go.hacdias.com/posts/database"
	"go.hacdias.com/posts/log"
	"go.uber.org/zap"
)

type Server struct {
	c      *config.Config
	db     database.Database
	log    *zap.SugaredLogger
	server *http.Server
}

func NewServer(c *config.Config, db database.Database) *Server {
	s := &Server{
		c:   c,
		db:  db,
		log: log.S().Named("server"),
	}

	s.server = &http.Server{
		Handler:           s.makeRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on the configured port and blocks until the server stops.
func (s *Server) Start() error {
	addr := ":" + strconv.Itoa(s.c.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(ln)
}

// Serve serves the API on the given listener and blocks until the server
// stops. It returns [http.ErrServerClosed] after [Server.Stop].
func (s *Server) Serve(ln net.Listener) error {
	s.log.Infof("listening on %s", ln.Addr().String())
	return s.server.Serve(ln)
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func withCleanPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := path.Clean(r.URL.Path)
		if path != "/" && strings.HasSuffix(r.URL.Path, "/") {
			path += "/"
		}

		if r.URL.Path != path {
			http.Redirect(w, r, path, http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}
