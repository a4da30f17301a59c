package handler

import (
	"errors"
	"net/http"

	"github.com/murat/gimly/pkg/core/domain"
)

// ShortURL is the user facing part of a mapping, shared by requests and responses.
type ShortURL struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// CreateRequest
// example: {"data": {"title": "duayen", "url": "https://murat.duayen.dev"}}
type CreateRequest struct {
	Data *ShortURL `json:"data"`
}

// Bind validates the payload and replaces the URL with its normalized form.
func (req *CreateRequest) Bind(r *http.Request) error {
	if req.Data == nil {
		return errors.New("missing required fields")
	}

	target, err := domain.NormalizeURL(req.Data.URL)
	if err != nil {
		return err
	}
	req.Data.URL = target
	return nil
}
