package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.hacdias.com/posts/core"
	"go.hacdias.com/posts/log"
)

func serveJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		log.S().Named("server").Warnf("error while serving json: %s", err)
	}
}

func serveErrorJSON(w http.ResponseWriter, code int, description string) {
	serveJSON(w, code, map[string]interface{}{
		"error":             http.StatusText(code),
		"error_description": description,
	})
}

func (s *Server) serveError(w http.ResponseWriter, code int, err error) {
	if code >= 500 {
		s.log.Errorw("request failed", "status", code, "err", err)
		serveErrorJSON(w, code, "internal server error")
		return
	}

	serveErrorJSON(w, code, err.Error())
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidPost):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
