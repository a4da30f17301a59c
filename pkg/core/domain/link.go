package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Link represents a shortened URL
type Link struct {
	ID         int64     `json:"id"`
	ShortID    string    `json:"short_id"`
	TargetURL  string    `json:"target_url"`
	Title      string    `json:"title"`
	ClickCount int64     `json:"click_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// NormalizeURL validates a user supplied target and returns the form that gets stored.
// Only absolute http(s) URLs with a host are accepted.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url cannot be empty", ErrInvalidURL)
	}

	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return "", fmt.Errorf("%w: url is not url", ErrInvalidURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: scheme and host are required", ErrInvalidURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	u.Host = strings.ToLower(u.Host)

	return u.String(), nil
}
