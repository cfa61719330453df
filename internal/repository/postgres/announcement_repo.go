package postgres

import (
	"context"
	"time"

	"connectmetric-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type announcementRepo struct {
	db *pgxpool.Pool
}

func NewAnnouncementRepository(db *pgxpool.Pool) domain.AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, announcement *domain.Announcement) error {
	query := `
		INSERT INTO announcements (title, content, author_id, published_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	announcement.PublishedAt = time.Now()

	return r.db.QueryRow(ctx, query,
		announcement.Title, announcement.Content, announcement.AuthorID, announcement.PublishedAt,
	).Scan(&announcement.ID)
}

func (r *announcementRepo) Fetch(ctx context.Context) ([]domain.Announcement, error) {
	query := `
		SELECT
			a.id, a.title, a.content, a.author_id, a.published_at,
			COALESCE(NULLIF(u.full_name, ''), u.username) as author_name
		FROM announcements a
		LEFT JOIN users u ON a.author_id = u.id
		ORDER BY a.published_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []domain.Announcement
	for rows.Next() {
		var announcement domain.Announcement
		if err := rows.Scan(
			&announcement.ID, &announcement.Title, &announcement.Content,
			&announcement.AuthorID, &announcement.PublishedAt, &announcement.AuthorName,
		); err != nil {
			return nil, err
		}
		announcements = append(announcements, announcement)
	}
	return announcements, rows.Err()
}
