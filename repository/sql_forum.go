package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

type sqlForumRepo struct {
	db database.TxQuerier
}

// NewSQLForumRepo, ForumRepository'nin SQL implementasyonunu döner.
// CreateReply / DeleteReply iki tabloya yazar; çağıran transaction içinde çalıştırmalıdır.
func NewSQLForumRepo(db database.TxQuerier) ForumRepository {
	return &sqlForumRepo{db: db}
}

const topicColumns = `t.id, t.author_id, u.full_name, t.company_id, t.title, t.body, t.category,
	t.is_pinned, t.is_locked, t.reply_count, t.last_reply_at, t.created_at, t.updated_at`

func scanTopic(row interface{ Scan(...any) error }, t *models.ForumTopic) error {
	return row.Scan(
		&t.ID, &t.AuthorID, &t.AuthorName, &t.CompanyID, &t.Title, &t.Body, &t.Category,
		&t.IsPinned, &t.IsLocked, &t.ReplyCount, &t.LastReplyAt, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *sqlForumRepo) CreateTopic(ctx context.Context, t *models.ForumTopic) error {
	t.ID = newID()
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO forum_topics (id, author_id, company_id, title, body, category, is_pinned, is_locked, reply_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		t.ID, t.AuthorID, t.CompanyID, t.Title, t.Body, t.Category, t.IsPinned, t.IsLocked, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: company", pkg.ErrNotFound)
		}
		return fmt.Errorf("failed to create forum topic: %w", err)
	}
	return nil
}

func (r *sqlForumRepo) GetTopic(ctx context.Context, id string) (*models.ForumTopic, error) {
	t := &models.ForumTopic{}
	row := r.db.QueryRowContext(ctx, `
		SELECT `+topicColumns+`
		FROM forum_topics t JOIN users u ON u.id = t.author_id
		WHERE t.id = ?`, id)
	if err := scanTopic(row, t); err != nil {
		return nil, notFound(err, "forum topic")
	}
	return t, nil
}

func (r *sqlForumRepo) ListTopics(ctx context.Context, f models.ForumTopicFilter) ([]models.ForumTopic, int, error) {
	var w whereBuilder
	if f.Category != "" {
		w.add("t.category = ?", f.Category)
	}
	if f.Query != "" {
		p := likePattern(f.Query)
		w.add(`(LOWER(t.title) LIKE ? ESCAPE '\' OR LOWER(t.body) LIKE ? ESCAPE '\')`, p, p)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM forum_topics t`+w.String(), w.args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count forum topics: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+topicColumns+`
		FROM forum_topics t JOIN users u ON u.id = t.author_id`+w.String()+`
		ORDER BY t.is_pinned DESC, COALESCE(t.last_reply_at, t.created_at) DESC
		LIMIT ? OFFSET ?`, pageArgs(w.args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list forum topics: %w", err)
	}
	defer rows.Close()

	topics := []models.ForumTopic{}
	for rows.Next() {
		var t models.ForumTopic
		if err := scanTopic(rows, &t); err != nil {
			return nil, 0, fmt.Errorf("failed to scan forum topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, total, rows.Err()
}

func (r *sqlForumRepo) UpdateTopic(ctx context.Context, t *models.ForumTopic) error {
	t.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE forum_topics SET title = ?, body = ?, category = ?, is_pinned = ?, is_locked = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Body, t.Category, t.IsPinned, t.IsLocked, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update forum topic: %w", err)
	}
	return requireAffected(res, "forum topic")
}

func (r *sqlForumRepo) DeleteTopic(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM forum_topics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete forum topic: %w", err)
	}
	return requireAffected(res, "forum topic")
}

func (r *sqlForumRepo) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM forum_topics ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list forum categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan forum category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *sqlForumRepo) CreateReply(ctx context.Context, reply *models.ForumReply) error {
	reply.ID = newID()
	reply.CreatedAt = now()

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO forum_replies (id, topic_id, author_id, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		reply.ID, reply.TopicID, reply.AuthorID, reply.Body, reply.CreatedAt,
	); err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: forum topic", pkg.ErrNotFound)
		}
		return fmt.Errorf("failed to create forum reply: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE forum_topics SET reply_count = reply_count + 1, last_reply_at = ? WHERE id = ?`,
		reply.CreatedAt, reply.TopicID)
	if err != nil {
		return fmt.Errorf("failed to bump reply count: %w", err)
	}
	return requireAffected(res, "forum topic")
}

func (r *sqlForumRepo) GetReply(ctx context.Context, id string) (*models.ForumReply, error) {
	reply := &models.ForumReply{}
	err := r.db.QueryRowContext(ctx, `
		SELECT r.id, r.topic_id, r.author_id, u.full_name, r.body, r.created_at
		FROM forum_replies r JOIN users u ON u.id = r.author_id
		WHERE r.id = ?`, id,
	).Scan(&reply.ID, &reply.TopicID, &reply.AuthorID, &reply.AuthorName, &reply.Body, &reply.CreatedAt)
	if err != nil {
		return nil, notFound(err, "forum reply")
	}
	return reply, nil
}

func (r *sqlForumRepo) ListReplies(ctx context.Context, topicID string) ([]models.ForumReply, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.topic_id, r.author_id, u.full_name, r.body, r.created_at
		FROM forum_replies r JOIN users u ON u.id = r.author_id
		WHERE r.topic_id = ?
		ORDER BY r.created_at`, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forum replies: %w", err)
	}
	defer rows.Close()

	replies := []models.ForumReply{}
	for rows.Next() {
		var reply models.ForumReply
		if err := rows.Scan(&reply.ID, &reply.TopicID, &reply.AuthorID, &reply.AuthorName, &reply.Body, &reply.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan forum reply: %w", err)
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}

// DeleteReply, yanıtı siler ve sayacı, kalan en son yanıta göre yeniden hesaplar.
func (r *sqlForumRepo) DeleteReply(ctx context.Context, topicID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM forum_replies WHERE topic_id = ? AND id = ?`, topicID, id)
	if err != nil {
		return fmt.Errorf("failed to delete forum reply: %w", err)
	}
	if err := requireAffected(res, "forum reply"); err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE forum_topics SET
			reply_count = (SELECT COUNT(*) FROM forum_replies WHERE topic_id = ?),
			last_reply_at = (SELECT MAX(created_at) FROM forum_replies WHERE topic_id = ?)
		WHERE id = ?`, topicID, topicID, topicID)
	if err != nil {
		return fmt.Errorf("failed to recount replies: %w", err)
	}
	return nil
}

func (r *sqlForumRepo) CountTopics(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM forum_topics`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count forum topics: %w", err)
	}
	return n, nil
}
