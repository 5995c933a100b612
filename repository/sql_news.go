package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
)

type sqlNewsRepo struct {
	db database.TxQuerier
}

// NewSQLNewsRepo, NewsRepository'nin SQL implementasyonunu döner.
func NewSQLNewsRepo(db database.TxQuerier) NewsRepository {
	return &sqlNewsRepo{db: db}
}

const newsColumns = `id, title, summary, body, category, image_url, is_published, published_at, author_id, created_at, updated_at`

func scanNews(row interface{ Scan(...any) error }, a *models.NewsArticle) error {
	return row.Scan(
		&a.ID, &a.Title, &a.Summary, &a.Body, &a.Category, &a.ImageURL,
		&a.IsPublished, &a.PublishedAt, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt,
	)
}

func (r *sqlNewsRepo) Create(ctx context.Context, a *models.NewsArticle) error {
	a.ID = newID()
	a.CreatedAt = now()
	a.UpdatedAt = a.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO news_articles (`+newsColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Summary, a.Body, a.Category, a.ImageURL,
		a.IsPublished, utcPtr(a.PublishedAt), a.AuthorID, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create news article: %w", err)
	}
	return nil
}

func (r *sqlNewsRepo) GetByID(ctx context.Context, id string) (*models.NewsArticle, error) {
	a := &models.NewsArticle{}
	if err := scanNews(r.db.QueryRowContext(ctx, `SELECT `+newsColumns+` FROM news_articles WHERE id = ?`, id), a); err != nil {
		return nil, notFound(err, "news article")
	}
	return a, nil
}

func (r *sqlNewsRepo) List(ctx context.Context, publishedOnly bool, category string, limit, offset int) ([]models.NewsArticle, int, error) {
	var w whereBuilder
	if publishedOnly {
		w.add("is_published = ?", true)
	}
	if category != "" {
		w.add("category = ?", category)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news_articles`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count news: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+newsColumns+` FROM news_articles`+w.String()+`
		ORDER BY COALESCE(published_at, created_at) DESC
		LIMIT ? OFFSET ?`, pageArgs(w.args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	list := []models.NewsArticle{}
	for rows.Next() {
		var a models.NewsArticle
		if err := scanNews(rows, &a); err != nil {
			return nil, 0, fmt.Errorf("failed to scan news article: %w", err)
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

func (r *sqlNewsRepo) Update(ctx context.Context, a *models.NewsArticle) error {
	a.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE news_articles SET title = ?, summary = ?, body = ?, category = ?, image_url = ?,
			is_published = ?, published_at = ?, updated_at = ?
		WHERE id = ?`,
		a.Title, a.Summary, a.Body, a.Category, a.ImageURL,
		a.IsPublished, utcPtr(a.PublishedAt), a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update news article: %w", err)
	}
	return requireAffected(res, "news article")
}

func (r *sqlNewsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM news_articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news article: %w", err)
	}
	return requireAffected(res, "news article")
}

func (r *sqlNewsRepo) CountPublished(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM news_articles WHERE is_published = ?`, true,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count news: %w", err)
	}
	return n, nil
}
