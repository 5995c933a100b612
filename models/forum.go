package models

import (
	"strings"
	"time"
)

// ForumTopic, forum konusu (forum_konulari).
// Forum platform geneldir; CompanyID sadece etiket amaçlıdır.
type ForumTopic struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"author_id"`
	AuthorName  string     `json:"author_name"`
	CompanyID   *string    `json:"company_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Category    string     `json:"category"`
	IsPinned    bool       `json:"is_pinned"`
	IsLocked    bool       `json:"is_locked"`
	ReplyCount  int        `json:"reply_count"`
	LastReplyAt *time.Time `json:"last_reply_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ForumReply, konuya verilen yanıt.
type ForumReply struct {
	ID         string    `json:"id"`
	TopicID    string    `json:"topic_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// ForumTopicDetail, yanıtlarıyla konu.
type ForumTopicDetail struct {
	ForumTopic
	Replies []ForumReply `json:"replies"`
}

// ForumTopicFilter, konu listesi filtreleri.
type ForumTopicFilter struct {
	Category string
	Query    string
	Limit    int
	Offset   int
}

// DefaultForumCategory, kategori verilmezse kullanılır.
const DefaultForumCategory = "genel"

// CreateTopicRequest, konu açma isteği.
type CreateTopicRequest struct {
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Category  string  `json:"category"`
	CompanyID *string `json:"company_id"`
}

// Validate, CreateTopicRequest'i doğrular.
func (r *CreateTopicRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	if r.Category == "" {
		r.Category = DefaultForumCategory
	}
	trimPtr(r.CompanyID)
	if r.CompanyID != nil && *r.CompanyID == "" {
		r.CompanyID = nil
	}

	if err := validateLength("title", r.Title, 3, 200); err != nil {
		return err
	}
	if err := validateLength("body", r.Body, 1, 10000); err != nil {
		return err
	}
	return validateLength("category", r.Category, 1, 50)
}

// UpdateTopicRequest, konu düzenleme (yazar veya admin).
type UpdateTopicRequest struct {
	Title    *string `json:"title"`
	Body     *string `json:"body"`
	Category *string `json:"category"`
}

// Validate, sadece gönderilen alanları doğrular.
func (r *UpdateTopicRequest) Validate() error {
	trimPtr(r.Title)
	trimPtr(r.Body)
	trimPtr(r.Category)
	if r.Title != nil {
		if err := validateLength("title", *r.Title, 3, 200); err != nil {
			return err
		}
	}
	if r.Body != nil {
		if err := validateLength("body", *r.Body, 1, 10000); err != nil {
			return err
		}
	}
	if r.Category != nil {
		*r.Category = strings.ToLower(*r.Category)
		if err := validateLength("category", *r.Category, 1, 50); err != nil {
			return err
		}
	}
	return nil
}

// ModerateTopicRequest, admin sabitleme/kilitleme isteği.
type ModerateTopicRequest struct {
	IsPinned *bool `json:"is_pinned"`
	IsLocked *bool `json:"is_locked"`
}

// CreateReplyRequest, yanıt yazma isteği.
type CreateReplyRequest struct {
	Body string `json:"body"`
}

// Validate, CreateReplyRequest'i doğrular.
func (r *CreateReplyRequest) Validate() error {
	r.Body = strings.TrimSpace(r.Body)
	return validateLength("body", r.Body, 1, 10000)
}
