package postgres

import (
	"context"
	"errors"
	"time"

	"connectmetric-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type processRepo struct {
	db *pgxpool.Pool
}

// NewProcessRepository creates a new recruitment process repository
func NewProcessRepository(db *pgxpool.Pool) domain.ProcessRepository {
	return &processRepo{db: db}
}

// Create inserts a new process owned by process.OwnerID
func (r *processRepo) Create(ctx context.Context, process *domain.RecruitmentProcess) error {
	query := `
		INSERT INTO recruitment_processes (title, description, owner_id, status, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	process.CreatedAt = time.Now()
	if process.Status == "" {
		process.Status = domain.ProcessStatusDraft
	}

	return r.db.QueryRow(ctx, query,
		process.Title,
		process.Description,
		process.OwnerID,
		process.Status,
		process.StartDate,
		process.EndDate,
		process.CreatedAt,
	).Scan(&process.ID)
}

// GetByID retrieves a process with the owner's display name joined in
func (r *processRepo) GetByID(ctx context.Context, id int64) (*domain.RecruitmentProcess, error) {
	query := `
		SELECT
			p.id, p.title, p.description, p.owner_id, p.status,
			p.start_date, p.end_date, p.created_at,
			COALESCE(NULLIF(u.full_name, ''), u.username) as owner_name
		FROM recruitment_processes p
		LEFT JOIN users u ON p.owner_id = u.id
		WHERE p.id = $1`

	var process domain.RecruitmentProcess
	err := r.db.QueryRow(ctx, query, id).Scan(
		&process.ID, &process.Title, &process.Description, &process.OwnerID, &process.Status,
		&process.StartDate, &process.EndDate, &process.CreatedAt,
		&process.OwnerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &process, nil
}

// Fetch retrieves all processes, newest first
func (r *processRepo) Fetch(ctx context.Context) ([]domain.RecruitmentProcess, error) {
	query := `
		SELECT
			p.id, p.title, p.description, p.owner_id, p.status,
			p.start_date, p.end_date, p.created_at,
			COALESCE(NULLIF(u.full_name, ''), u.username) as owner_name
		FROM recruitment_processes p
		LEFT JOIN users u ON p.owner_id = u.id
		ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var processes []domain.RecruitmentProcess
	for rows.Next() {
		var process domain.RecruitmentProcess
		if err := rows.Scan(
			&process.ID, &process.Title, &process.Description, &process.OwnerID, &process.Status,
			&process.StartDate, &process.EndDate, &process.CreatedAt,
			&process.OwnerName,
		); err != nil {
			return nil, err
		}
		processes = append(processes, process)
	}
	return processes, rows.Err()
}

// Update persists title, description, status and dates. Owner is immutable.
func (r *processRepo) Update(ctx context.Context, process *domain.RecruitmentProcess) error {
	query := `
		UPDATE recruitment_processes
		SET title = $2, description = $3, status = $4, start_date = $5, end_date = $6
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		process.ID, process.Title, process.Description, process.Status,
		process.StartDate, process.EndDate,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a process; stages and assignments cascade in the schema
func (r *processRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM recruitment_processes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateStage inserts a stage. A duplicate (process, order) pair trips the
// unique constraint and comes back as domain.ErrDuplicate.
func (r *processRepo) CreateStage(ctx context.Context, stage *domain.ProcessStage) error {
	query := `
		INSERT INTO process_stages (process_id, name, stage_order, description, due_date, is_blocker)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		stage.ProcessID, stage.Name, stage.Order, stage.Description, stage.DueDate, stage.IsBlocker,
	).Scan(&stage.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetStage retrieves a stage scoped to its process
func (r *processRepo) GetStage(ctx context.Context, processID, stageID int64) (*domain.ProcessStage, error) {
	query := `
		SELECT id, process_id, name, stage_order, description, due_date, is_blocker
		FROM process_stages
		WHERE id = $1 AND process_id = $2`

	var stage domain.ProcessStage
	err := r.db.QueryRow(ctx, query, stageID, processID).Scan(
		&stage.ID, &stage.ProcessID, &stage.Name, &stage.Order,
		&stage.Description, &stage.DueDate, &stage.IsBlocker,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &stage, nil
}

// FetchStages retrieves a process's stages in walk order
func (r *processRepo) FetchStages(ctx context.Context, processID int64) ([]domain.ProcessStage, error) {
	query := `
		SELECT id, process_id, name, stage_order, description, due_date, is_blocker
		FROM process_stages
		WHERE process_id = $1
		ORDER BY stage_order ASC`

	rows, err := r.db.Query(ctx, query, processID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []domain.ProcessStage
	for rows.Next() {
		var stage domain.ProcessStage
		if err := rows.Scan(
			&stage.ID, &stage.ProcessID, &stage.Name, &stage.Order,
			&stage.Description, &stage.DueDate, &stage.IsBlocker,
		); err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, rows.Err()
}

// UpdateStage persists stage edits. Moving onto a taken order trips the
// unique constraint just like CreateStage.
func (r *processRepo) UpdateStage(ctx context.Context, stage *domain.ProcessStage) error {
	query := `
		UPDATE process_stages
		SET name = $3, stage_order = $4, description = $5, due_date = $6, is_blocker = $7
		WHERE id = $1 AND process_id = $2`

	result, err := r.db.Exec(ctx, query,
		stage.ID, stage.ProcessID, stage.Name, stage.Order,
		stage.Description, stage.DueDate, stage.IsBlocker,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteStage removes a stage; feedback cascades, assignments pointing at
// it get their current stage nulled by the SET NULL policy.
func (r *processRepo) DeleteStage(ctx context.Context, processID, stageID int64) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM process_stages WHERE id = $1 AND process_id = $2`, stageID, processID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
