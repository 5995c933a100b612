package models

import (
	"strings"
	"time"
)

// NewsArticle, haber (haberler).
type NewsArticle struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"image_url"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
	AuthorID    string     `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewsRequest, haber oluşturma/güncelleme (admin).
type NewsRequest struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Body        string `json:"body"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	IsPublished bool   `json:"is_published"`
}

// Validate, NewsRequest'i doğrular.
func (r *NewsRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Summary = strings.TrimSpace(r.Summary)
	r.Body = strings.TrimSpace(r.Body)
	r.Category = strings.TrimSpace(r.Category)
	r.ImageURL = strings.TrimSpace(r.ImageURL)

	if err := validateLength("title", r.Title, 3, 200); err != nil {
		return err
	}
	if err := validateLength("summary", r.Summary, 0, 500); err != nil {
		return err
	}
	if err := validateLength("body", r.Body, 1, 50000); err != nil {
		return err
	}
	if r.ImageURL != "" {
		return validateHTTPURL("image_url", r.ImageURL)
	}
	return nil
}
