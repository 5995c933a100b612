package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// TrainingSet, eğitim seti (egitim_setleri).
type TrainingSet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsPublished bool      `json:"is_published"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TrainingVideo, bir setteki video.
type TrainingVideo struct {
	ID              string    `json:"id"`
	SetID           string    `json:"set_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	VideoURL        string    `json:"video_url"`
	DurationSeconds int       `json:"duration_seconds"`
	SortOrder       int       `json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
}

// TrainingSetSummary, kullanıcıya özel ilerleme bilgisiyle set.
type TrainingSetSummary struct {
	TrainingSet
	VideoCount      int `json:"video_count"`
	CompletedCount  int `json:"completed_count"`
	ProgressPercent int `json:"progress_percent"`
}

// TrainingVideoProgress, kullanıcının tamamlama durumuyla video.
type TrainingVideoProgress struct {
	TrainingVideo
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// TrainingSetDetail, set detayı.
type TrainingSetDetail struct {
	TrainingSetSummary
	Videos []TrainingVideoProgress `json:"videos"`
}

// TrainingSetRequest, set oluşturma/güncelleme (admin).
type TrainingSetRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsPublished bool   `json:"is_published"`
	SortOrder   int    `json:"sort_order"`
}

// Validate, TrainingSetRequest'i doğrular.
func (r *TrainingSetRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	if err := validateLength("title", r.Title, 1, 200); err != nil {
		return err
	}
	return validateLength("category", r.Category, 0, 50)
}

// TrainingVideoRequest, video oluşturma/güncelleme (admin).
type TrainingVideoRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url"`
	DurationSeconds int    `json:"duration_seconds"`
	SortOrder       int    `json:"sort_order"`
}

// Validate, TrainingVideoRequest'i doğrular. VideoURL http(s) olmalıdır.
func (r *TrainingVideoRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.VideoURL = strings.TrimSpace(r.VideoURL)
	if err := validateLength("title", r.Title, 1, 200); err != nil {
		return err
	}
	if err := validateHTTPURL("video_url", r.VideoURL); err != nil {
		return err
	}
	if r.DurationSeconds < 0 {
		return fmt.Errorf("duration_seconds cannot be negative")
	}
	return nil
}

func validateHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be a valid http(s) URL", field)
	}
	return nil
}
