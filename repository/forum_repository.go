package repository

import (
	"context"

	"github.com/akinalp/eihracat/models"
)

// ForumRepository, forum konuları ve yanıtları.
type ForumRepository interface {
	CreateTopic(ctx context.Context, topic *models.ForumTopic) error
	GetTopic(ctx context.Context, id string) (*models.ForumTopic, error)
	// ListTopics, sabitlenmiş konular önce, sonra son aktiviteye göre sıralar.
	ListTopics(ctx context.Context, filter models.ForumTopicFilter) ([]models.ForumTopic, int, error)
	UpdateTopic(ctx context.Context, topic *models.ForumTopic) error
	DeleteTopic(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]string, error)

	// CreateReply, yanıtı ekler ve konunun reply_count / last_reply_at alanlarını günceller.
	CreateReply(ctx context.Context, reply *models.ForumReply) error
	GetReply(ctx context.Context, id string) (*models.ForumReply, error)
	ListReplies(ctx context.Context, topicID string) ([]models.ForumReply, error)
	DeleteReply(ctx context.Context, topicID, id string) error
	CountTopics(ctx context.Context) (int, error)
}
