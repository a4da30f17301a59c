package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/render"
	"github.com/murat/gimly/pkg/core/domain"
	"github.com/murat/gimly/pkg/core/shortcode"
	"github.com/murat/gimly/pkg/ports"
)

type HTTPHandler struct {
	service ports.LinkService
}

func NewHTTPHandler(service ports.LinkService) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Create a mapping
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := &CreateRequest{}
	if err := render.Bind(r, req); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	link, err := h.service.Shorten(r.Context(), req.Data.URL, req.Data.Title)
	if err != nil {
		h.renderError(w, r, "create short link failed", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.Render(w, r, NewURLResponse(link))
}

// List every mapping in creation order
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.ListLinks(r.Context())
	if err != nil {
		h.renderError(w, r, "list failed", err)
		return
	}

	render.Render(w, r, NewListResponse(links))
}

// Get one mapping, for clients that want a fresh click count
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("short_id")
	if !shortcode.Valid(code) {
		render.Render(w, r, ErrNotFound(domain.ErrNotFound))
		return
	}

	link, err := h.service.GetLink(r.Context(), code)
	if err != nil {
		h.renderError(w, r, "query failed", err)
		return
	}

	render.Render(w, r, NewURLResponse(link))
}

// Redirect to the target URL; the click is counted in the background
func (h *HTTPHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("short_id")
	if !shortcode.Valid(code) {
		render.Render(w, r, ErrNotFound(domain.ErrNotFound))
		return
	}

	link, err := h.service.Resolve(r.Context(), code)
	if err != nil {
		h.renderError(w, r, "resolve failed", err)
		return
	}

	http.Redirect(w, r, link.TargetURL, http.StatusFound)
}

// Health reports whether the store answers
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.renderError(w, r, "health check failed", err)
		return
	}

	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) renderError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrInvalidURL) {
		log.Printf("%s: %v", msg, err)
	}
	render.Render(w, r, ErrFromService(err))
}
