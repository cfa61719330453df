package postgres

import (
	"context"
	"errors"
	"time"

	"connectmetric-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type assignmentRepo struct {
	db *pgxpool.Pool
}

// NewAssignmentRepository creates a new candidate assignment repository
func NewAssignmentRepository(db *pgxpool.Pool) domain.AssignmentRepository {
	return &assignmentRepo{db: db}
}

// Create inserts an assignment. A second assignment for the same
// (process, candidate) pair trips the unique constraint and comes back as
// domain.ErrDuplicate - creation is exclusive, duplicates are never merged.
func (r *assignmentRepo) Create(ctx context.Context, assignment *domain.CandidateAssignment) error {
	query := `
		INSERT INTO candidate_assignments (process_id, candidate_id, joined_at, current_stage_id, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	assignment.JoinedAt = time.Now()

	err := r.db.QueryRow(ctx, query,
		assignment.ProcessID,
		assignment.CandidateID,
		assignment.JoinedAt,
		assignment.CurrentStageID,
		assignment.CompletedAt,
	).Scan(&assignment.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

const assignmentSelect = `
	SELECT
		a.id, a.process_id, a.candidate_id, a.joined_at, a.current_stage_id, a.completed_at,
		COALESCE(NULLIF(u.full_name, ''), u.username) as candidate_name,
		s.name as current_stage_name
	FROM candidate_assignments a
	LEFT JOIN users u ON a.candidate_id = u.id
	LEFT JOIN process_stages s ON a.current_stage_id = s.id`

func scanAssignment(row pgx.Row) (*domain.CandidateAssignment, error) {
	var assignment domain.CandidateAssignment
	err := row.Scan(
		&assignment.ID, &assignment.ProcessID, &assignment.CandidateID,
		&assignment.JoinedAt, &assignment.CurrentStageID, &assignment.CompletedAt,
		&assignment.CandidateName, &assignment.CurrentStageName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByID retrieves an assignment with candidate and stage names joined
func (r *assignmentRepo) GetByID(ctx context.Context, id int64) (*domain.CandidateAssignment, error) {
	return scanAssignment(r.db.QueryRow(ctx, assignmentSelect+` WHERE a.id = $1`, id))
}

// GetForProcess retrieves an assignment scoped to its process
func (r *assignmentRepo) GetForProcess(ctx context.Context, processID, assignmentID int64) (*domain.CandidateAssignment, error) {
	return scanAssignment(r.db.QueryRow(ctx, assignmentSelect+` WHERE a.id = $1 AND a.process_id = $2`, assignmentID, processID))
}

// FetchByProcess retrieves all assignments of a process, earliest joined first
func (r *assignmentRepo) FetchByProcess(ctx context.Context, processID int64) ([]domain.CandidateAssignment, error) {
	rows, err := r.db.Query(ctx, assignmentSelect+` WHERE a.process_id = $1 ORDER BY a.joined_at ASC`, processID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []domain.CandidateAssignment
	for rows.Next() {
		var assignment domain.CandidateAssignment
		if err := rows.Scan(
			&assignment.ID, &assignment.ProcessID, &assignment.CandidateID,
			&assignment.JoinedAt, &assignment.CurrentStageID, &assignment.CompletedAt,
			&assignment.CandidateName, &assignment.CurrentStageName,
		); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}

// SetProgress records the outcome of a progress transition
func (r *assignmentRepo) SetProgress(ctx context.Context, id int64, stageID *int64, completedAt *time.Time) error {
	query := `UPDATE candidate_assignments SET current_stage_id = $2, completed_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, stageID, completedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
