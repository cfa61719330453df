package postgres

import (
	"context"
	"errors"
	"time"

	"connectmetric-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type feedbackRepo struct {
	db *pgxpool.Pool
}

// NewFeedbackRepository creates a new stage feedback repository
func NewFeedbackRepository(db *pgxpool.Pool) domain.FeedbackRepository {
	return &feedbackRepo{db: db}
}

// Upsert inserts feedback or updates the existing row for the same
// (assignment, stage, author) key. ON CONFLICT rides the unique
// constraint, so two concurrent submissions can never produce two rows.
func (r *feedbackRepo) Upsert(ctx context.Context, feedback *domain.StageFeedback) error {
	query := `
		INSERT INTO stage_feedback (assignment_id, stage_id, author_id, rating, comment, visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (assignment_id, stage_id, author_id) DO UPDATE
		SET rating = EXCLUDED.rating,
		    comment = EXCLUDED.comment,
		    visibility = EXCLUDED.visibility,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	now := time.Now()

	return r.db.QueryRow(ctx, query,
		feedback.AssignmentID,
		feedback.StageID,
		feedback.AuthorID,
		feedback.Rating,
		feedback.Comment,
		feedback.Visibility,
		now,
	).Scan(&feedback.ID, &feedback.CreatedAt, &feedback.UpdatedAt)
}

// GetByKey retrieves the single feedback row for an upsert key
func (r *feedbackRepo) GetByKey(ctx context.Context, assignmentID, stageID int64, authorID string) (*domain.StageFeedback, error) {
	query := `
		SELECT id, assignment_id, stage_id, author_id, rating, comment, visibility, created_at, updated_at
		FROM stage_feedback
		WHERE assignment_id = $1 AND stage_id = $2 AND author_id = $3`

	var feedback domain.StageFeedback
	err := r.db.QueryRow(ctx, query, assignmentID, stageID, authorID).Scan(
		&feedback.ID, &feedback.AssignmentID, &feedback.StageID, &feedback.AuthorID,
		&feedback.Rating, &feedback.Comment, &feedback.Visibility,
		&feedback.CreatedAt, &feedback.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &feedback, nil
}
