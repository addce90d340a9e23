package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-chi/chi/v5"
	"github.com/karlseguin/typed"
	"github.com/samber/lo"
	"go.hacdias.com/posts/core"
)

var requiredFields = []string{"title", "content", "author"}

func (s *Server) postsGet(w http.ResponseWriter, r *http.Request) {
	posts, err := s.db.List(r.Context())
	if err != nil {
		s.serveError(w, errorStatus(err), err)
		return
	}

	views := lo.Map(posts, func(p core.Post, _ int) core.PostView {
		return p.View()
	})

	serveJSON(w, http.StatusOK, views)
}

func (s *Server) postGet(w http.ResponseWriter, r *http.Request) {
	post, err := s.db.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.serveError(w, errorStatus(err), err)
		return
	}

	serveJSON(w, http.StatusOK, post.View())
}

func (s *Server) postsPost(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		s.serveError(w, http.StatusBadRequest, err)
		return
	}

	post, err := parsePost(body)
	if err != nil {
		s.serveError(w, errorStatus(err), err)
		return
	}

	post, err = s.db.Insert(r.Context(), post)
	if err != nil {
		s.serveError(w, errorStatus(err), err)
		return
	}

	s.log.Infow("post created", "id", post.ID)
	serveJSON(w, http.StatusCreated, post.View())
}

func (s *Server) postPut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := decodeBody(r)
	if err != nil {
		s.serveError(w, http.StatusBadRequest, err)
		return
	}

	patch, err := parsePatch(body)
	if err != nil {
		s.serveError(w, errorStatus(err), err)
		return
	}

	if patch.ID != "" && patch.ID != id {
		err = fmt.Errorf("%w: request path id %q and request body id %q must match", core.ErrInvalidPost, id, patch.ID)
		s.serveError(w, http.StatusBadRequest, err)
		return
	}

	err = s.db.Update(r.Context(), id, patch)
	if err != nil {
		s.serveError(w, errorStatus(err), err)
		return
	}

	s.log.Infow("post updated", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.db.Delete(r.Context(), id)
	if err != nil {
		s.serveError(w, errorStatus(err), err)
		return
	}

	s.log.Infow("post deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(r *http.Request) (typed.Typed, error) {
	var body typed.Typed
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("could not decode request body: %w", err)
	}

	if body == nil {
		body = typed.Typed{}
	}

	return body, nil
}

// parsePost builds a new post from a request body. Missing creation dates
// default to the current time.
func parsePost(body typed.Typed) (core.Post, error) {
	missing := lo.Filter(requiredFields, func(field string, _ int) bool {
		_, ok := body[field]
		return !ok
	})
	if len(missing) > 0 {
		return core.Post{}, fmt.Errorf("%w: missing %q in request body", core.ErrInvalidPost, missing[0])
	}

	patch, err := parsePatch(body)
	if err != nil {
		return core.Post{}, err
	}

	post := core.Post{
		Created: time.Now(),
	}
	post.Apply(patch)
	return post, nil
}

// parsePatch reads the fields present in a request body. Unknown fields are
// ignored. An author, when present, must have a name.
func parsePatch(body typed.Typed) (core.Patch, error) {
	var patch core.Patch

	if _, ok := body["id"]; ok {
		id, ok := body.StringIf("id")
		if !ok {
			return patch, fmt.Errorf("%w: id must be a string", core.ErrInvalidPost)
		}
		patch.ID = id
	}

	if _, ok := body["author"]; ok {
		author, ok := body.ObjectIf("author")
		if !ok {
			return patch, fmt.Errorf("%w: author must be an object with firstName and lastName", core.ErrInvalidPost)
		}

		patch.Author = &core.Author{
			FirstName: author.String("firstName"),
			LastName:  author.String("lastName"),
		}

		if patch.Author.IsZero() {
			return patch, fmt.Errorf("%w: author must have a first or last name", core.ErrInvalidPost)
		}
	}

	for field, dst := range map[string]**string{
		"title":   &patch.Title,
		"content": &patch.Content,
	} {
		if _, ok := body[field]; !ok {
			continue
		}

		value, ok := body.StringIf(field)
		if !ok {
			return patch, fmt.Errorf("%w: %s must be a string", core.ErrInvalidPost, field)
		}
		*dst = &value
	}

	if _, ok := body["created"]; ok {
		value, ok := body.StringIf("created")
		if !ok {
			return patch, fmt.Errorf("%w: created must be a date string", core.ErrInvalidPost)
		}

		created, err := dateparse.ParseStrict(value)
		if err != nil {
			return patch, fmt.Errorf("%w: created: %w", core.ErrInvalidPost, err)
		}
		patch.Created = &created
	}

	return patch, nil
}
