package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/murat/gimly/pkg/core/domain"
)

// URLResponse is the wire shape of one mapping.
type URLResponse struct {
	URL        ShortURL `json:"url"`
	ShortID    string   `json:"short_id"`
	ClickCount int64    `json:"click_count"`
}

func NewURLResponse(link *domain.Link) *URLResponse {
	return &URLResponse{
		URL:        ShortURL{Title: link.Title, URL: link.TargetURL},
		ShortID:    link.ShortID,
		ClickCount: link.ClickCount,
	}
}

func (u *URLResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ListResponse wraps every mapping as {"data": [...]}.
type ListResponse struct {
	Data []*URLResponse `json:"data"`
}

func NewListResponse(links []domain.Link) *ListResponse {
	resp := &ListResponse{Data: make([]*URLResponse, 0, len(links))}
	for i := range links {
		resp.Data = append(resp.Data, NewURLResponse(&links[i]))
	}
	return resp
}

func (l *ListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ErrResponse is the error body every endpoint uses.
type ErrResponse struct {
	Err        error  `json:"-"`
	StatusCode int    `json:"-"`
	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
	Code       string `json:"code,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newErrResponse(err error, status int, code string) *ErrResponse {
	return &ErrResponse{
		Err:        err,
		StatusCode: status,
		StatusText: http.StatusText(status),
		ErrorText:  err.Error(),
		Code:       code,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	if errors.Is(err, domain.ErrInvalidURL) {
		return newErrResponse(err, http.StatusUnprocessableEntity, "invalid_url")
	}
	return newErrResponse(err, http.StatusUnprocessableEntity, "invalid_request")
}

func ErrNotFound(err error) render.Renderer {
	return newErrResponse(err, http.StatusNotFound, "not_found")
}

func ErrUnauthorized(err error) render.Renderer {
	return newErrResponse(err, http.StatusUnauthorized, "unauthorized")
}

// ErrInternalServer keeps err for logging but does not leak it to clients.
func ErrInternalServer(err error) render.Renderer {
	resp := newErrResponse(err, http.StatusInternalServerError, "internal")
	resp.ErrorText = "internal server error"
	return resp
}

// ErrFromService maps service errors onto HTTP responses.
func ErrFromService(err error) render.Renderer {
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		return ErrInvalidRequest(err)
	case errors.Is(err, domain.ErrNotFound):
		return ErrNotFound(err)
	case errors.Is(err, domain.ErrGenerationExhausted):
		return newErrResponse(err, http.StatusInternalServerError, "generation_exhausted")
	case errors.Is(err, domain.ErrStoreUnavailable):
		return newErrResponse(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return newErrResponse(err, http.StatusGatewayTimeout, "timeout")
	}
	return ErrInternalServer(err)
}
