package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

type sqlTrainingRepo struct {
	db database.TxQuerier
}

// NewSQLTrainingRepo, TrainingRepository'nin SQL implementasyonunu döner.
func NewSQLTrainingRepo(db database.TxQuerier) TrainingRepository {
	return &sqlTrainingRepo{db: db}
}

const (
	setColumns   = `s.id, s.title, s.description, s.category, s.is_published, s.sort_order, s.created_at, s.updated_at`
	videoColumns = `v.id, v.set_id, v.title, v.description, v.video_url, v.duration_seconds, v.sort_order, v.created_at`
)

func scanSet(row interface{ Scan(...any) error }, s *models.TrainingSet, extra ...any) error {
	dest := []any{&s.ID, &s.Title, &s.Description, &s.Category, &s.IsPublished, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

func scanVideo(row interface{ Scan(...any) error }, v *models.TrainingVideo, extra ...any) error {
	dest := []any{&v.ID, &v.SetID, &v.Title, &v.Description, &v.VideoURL, &v.DurationSeconds, &v.SortOrder, &v.CreatedAt}
	return row.Scan(append(dest, extra...)...)
}

func (r *sqlTrainingRepo) CreateSet(ctx context.Context, s *models.TrainingSet) error {
	s.ID = newID()
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO training_sets (id, title, description, category, is_published, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Title, s.Description, s.Category, s.IsPublished, s.SortOrder, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create training set: %w", err)
	}
	return nil
}

func (r *sqlTrainingRepo) GetSet(ctx context.Context, id string) (*models.TrainingSet, error) {
	s := &models.TrainingSet{}
	if err := scanSet(r.db.QueryRowContext(ctx, `SELECT `+setColumns+` FROM training_sets s WHERE s.id = ?`, id), s); err != nil {
		return nil, notFound(err, "training set")
	}
	return s, nil
}

func (r *sqlTrainingRepo) ListSets(ctx context.Context, publishedOnly bool) ([]models.TrainingSet, error) {
	query := `SELECT ` + setColumns + ` FROM training_sets s`
	var args []any
	if publishedOnly {
		query += ` WHERE s.is_published = ?`
		args = append(args, true)
	}
	query += ` ORDER BY s.sort_order, s.title`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list training sets: %w", err)
	}
	defer rows.Close()

	sets := []models.TrainingSet{}
	for rows.Next() {
		var s models.TrainingSet
		if err := scanSet(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan training set: %w", err)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

func (r *sqlTrainingRepo) UpdateSet(ctx context.Context, s *models.TrainingSet) error {
	s.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE training_sets SET title = ?, description = ?, category = ?, is_published = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		s.Title, s.Description, s.Category, s.IsPublished, s.SortOrder, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update training set: %w", err)
	}
	return requireAffected(res, "training set")
}

func (r *sqlTrainingRepo) DeleteSet(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM training_sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete training set: %w", err)
	}
	return requireAffected(res, "training set")
}

func (r *sqlTrainingRepo) CreateVideo(ctx context.Context, v *models.TrainingVideo) error {
	v.ID = newID()
	v.CreatedAt = now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO training_videos (id, set_id, title, description, video_url, duration_seconds, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.SetID, v.Title, v.Description, v.VideoURL, v.DurationSeconds, v.SortOrder, v.CreatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: training set", pkg.ErrNotFound)
		}
		return fmt.Errorf("failed to create training video: %w", err)
	}
	return nil
}

func (r *sqlTrainingRepo) GetVideo(ctx context.Context, id string) (*models.TrainingVideo, error) {
	v := &models.TrainingVideo{}
	if err := scanVideo(r.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM training_videos v WHERE v.id = ?`, id), v); err != nil {
		return nil, notFound(err, "training video")
	}
	return v, nil
}

func (r *sqlTrainingRepo) ListVideos(ctx context.Context, setID string) ([]models.TrainingVideo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM training_videos v WHERE v.set_id = ? ORDER BY v.sort_order, v.created_at`, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to list training videos: %w", err)
	}
	defer rows.Close()

	videos := []models.TrainingVideo{}
	for rows.Next() {
		var v models.TrainingVideo
		if err := scanVideo(rows, &v); err != nil {
			return nil, fmt.Errorf("failed to scan training video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *sqlTrainingRepo) UpdateVideo(ctx context.Context, v *models.TrainingVideo) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE training_videos SET title = ?, description = ?, video_url = ?, duration_seconds = ?, sort_order = ?
		WHERE set_id = ? AND id = ?`,
		v.Title, v.Description, v.VideoURL, v.DurationSeconds, v.SortOrder, v.SetID, v.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update training video: %w", err)
	}
	return requireAffected(res, "training video")
}

func (r *sqlTrainingRepo) DeleteVideo(ctx context.Context, setID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM training_videos WHERE set_id = ? AND id = ?`, setID, id)
	if err != nil {
		return fmt.Errorf("failed to delete training video: %w", err)
	}
	return requireAffected(res, "training video")
}

func (r *sqlTrainingRepo) ListSetSummaries(ctx context.Context, userID string) ([]models.TrainingSetSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+setColumns+`, COUNT(v.id), COUNT(p.video_id)
		FROM training_sets s
		LEFT JOIN training_videos v ON v.set_id = s.id
		LEFT JOIN video_progress p ON p.video_id = v.id AND p.user_id = ?
		WHERE s.is_published = ?
		GROUP BY `+setColumns+`
		ORDER BY s.sort_order, s.title`, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list training summaries: %w", err)
	}
	defer rows.Close()

	list := []models.TrainingSetSummary{}
	for rows.Next() {
		var s models.TrainingSetSummary
		if err := scanSet(rows, &s.TrainingSet, &s.VideoCount, &s.CompletedCount); err != nil {
			return nil, fmt.Errorf("failed to scan training summary: %w", err)
		}
		s.ProgressPercent = pkg.Percent(s.CompletedCount, s.VideoCount)
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *sqlTrainingRepo) ListVideoProgress(ctx context.Context, userID, setID string) ([]models.TrainingVideoProgress, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+videoColumns+`, p.completed_at
		FROM training_videos v
		LEFT JOIN video_progress p ON p.video_id = v.id AND p.user_id = ?
		WHERE v.set_id = ?
		ORDER BY v.sort_order, v.created_at`, userID, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to list video progress: %w", err)
	}
	defer rows.Close()

	list := []models.TrainingVideoProgress{}
	for rows.Next() {
		var v models.TrainingVideoProgress
		if err := scanVideo(rows, &v.TrainingVideo, &v.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video progress: %w", err)
		}
		v.Completed = v.CompletedAt != nil
		list = append(list, v)
	}
	return list, rows.Err()
}

// MarkCompleted idempotenttir: video zaten tamamlanmışsa ilk zaman damgası korunur.
func (r *sqlTrainingRepo) MarkCompleted(ctx context.Context, userID, videoID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO video_progress (user_id, video_id, completed_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id, video_id) DO NOTHING`, userID, videoID, now())
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: training video", pkg.ErrNotFound)
		}
		return fmt.Errorf("failed to mark video completed: %w", err)
	}
	return nil
}

func (r *sqlTrainingRepo) UnmarkCompleted(ctx context.Context, userID, videoID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM video_progress WHERE user_id = ? AND video_id = ?`, userID, videoID,
	); err != nil {
		return fmt.Errorf("failed to unmark video: %w", err)
	}
	return nil
}

func (r *sqlTrainingRepo) CompanyProgress(ctx context.Context, companyID string) (int, int, error) {
	var members, videos, completed int

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM company_members WHERE company_id = ?`, companyID,
	).Scan(&members); err != nil {
		return 0, 0, fmt.Errorf("failed to count members: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM training_videos v
		JOIN training_sets s ON s.id = v.set_id
		WHERE s.is_published = ?`, true,
	).Scan(&videos); err != nil {
		return 0, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM video_progress p
		JOIN company_members m ON m.user_id = p.user_id AND m.company_id = ?
		JOIN training_videos v ON v.id = p.video_id
		JOIN training_sets s ON s.id = v.set_id
		WHERE s.is_published = ?`, companyID, true,
	).Scan(&completed); err != nil {
		return 0, 0, fmt.Errorf("failed to count completed videos: %w", err)
	}

	return completed, members * videos, nil
}
