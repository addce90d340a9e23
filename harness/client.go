package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
)

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// JSON decodes the body into v.
func (r *Response) JSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

func (r *Response) IsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// Do sends a request to the API. A non-nil body is encoded as JSON.
func (h *Harness) Do(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.URL+path, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	return &Response{
		Status: res.StatusCode,
		Header: res.Header,
		Body:   data,
	}, nil
}

func (h *Harness) Get(ctx context.Context, path string) (*Response, error) {
	return h.Do(ctx, http.MethodGet, path, nil)
}

func (h *Harness) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return h.Do(ctx, http.MethodPost, path, body)
}

func (h *Harness) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return h.Do(ctx, http.MethodPut, path, body)
}

func (h *Harness) Delete(ctx context.Context, path string) (*Response, error) {
	return h.Do(ctx, http.MethodDelete, path, nil)
}
