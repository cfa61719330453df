package usecase

import (
	"context"
	"errors"

	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type processUsecase struct {
	processRepo    domain.ProcessRepository
	assignmentRepo domain.AssignmentRepository
	validate       *validator.Validate
}

// NewProcessUsecase creates the process lifecycle usecase
func NewProcessUsecase(
	processRepo domain.ProcessRepository,
	assignmentRepo domain.AssignmentRepository,
	validate *validator.Validate,
) domain.ProcessUsecase {
	return &processUsecase{
		processRepo:    processRepo,
		assignmentRepo: assignmentRepo,
		validate:       validate,
	}
}

// CreateProcess creates a recruitment process owned by the acting staff member
func (u *processUsecase) CreateProcess(ctx context.Context, actor domain.Actor, input domain.CreateProcessInput) (*domain.RecruitmentProcess, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	process := &domain.RecruitmentProcess{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     actor.ID,
		Status:      input.Status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	if err := u.processRepo.Create(ctx, process); err != nil {
		return nil, apperror.Internal(err)
	}
	return process, nil
}

// UpdateProcess applies the supplied fields only. The owner never changes.
func (u *processUsecase) UpdateProcess(ctx context.Context, actor domain.Actor, id int64, update domain.ProcessUpdate) (*domain.RecruitmentProcess, error) {
	process, err := u.processRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Process not found")
		}
		return nil, apperror.Internal(err)
	}
	if err := requireManager(actor, process.OwnerID); err != nil {
		return nil, err
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, apperror.BadRequest("Title cannot be empty")
		}
		process.Title = *update.Title
	}
	if update.Description != nil {
		process.Description = *update.Description
	}
	if update.Status != nil {
		process.Status = *update.Status
	}
	if update.StartDate != nil {
		process.StartDate = update.StartDate
	}
	if update.EndDate != nil {
		process.EndDate = update.EndDate
	}

	if err := u.processRepo.Update(ctx, process); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Process not found")
		}
		return nil, apperror.Internal(err)
	}
	return process, nil
}

// GetProcess returns a process with its stages and assignments
func (u *processUsecase) GetProcess(ctx context.Context, id int64) (*domain.ProcessDetail, error) {
	process, err := u.processRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Process not found")
		}
		return nil, apperror.Internal(err)
	}

	stages, err := u.processRepo.FetchStages(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	assignments, err := u.assignmentRepo.FetchByProcess(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.ProcessDetail{
		Process:     process,
		Stages:      stages,
		Assignments: assignments,
	}, nil
}

// ListProcesses returns all processes, newest first
func (u *processUsecase) ListProcesses(ctx context.Context) ([]domain.RecruitmentProcess, error) {
	processes, err := u.processRepo.Fetch(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return processes, nil
}

// DeleteProcess removes a process and, via the schema, its stages,
// assignments and feedback
func (u *processUsecase) DeleteProcess(ctx context.Context, actor domain.Actor, id int64) error {
	process, err := u.processRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Process not found")
		}
		return apperror.Internal(err)
	}
	if err := requireManager(actor, process.OwnerID); err != nil {
		return err
	}

	if err := u.processRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Process not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

// CreateStage adds a stage at a given order. Order collisions are decided
// by the store's unique constraint, not by a check-then-insert.
func (u *processUsecase) CreateStage(ctx context.Context, actor domain.Actor, processID int64, input domain.CreateStageInput) (*domain.ProcessStage, error) {
	process, err := u.processRepo.GetByID(ctx, processID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Process not found")
		}
		return nil, apperror.Internal(err)
	}
	if err := requireManager(actor, process.OwnerID); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if input.Order < 1 {
		return nil, apperror.BadRequest("Stage order must be 1 or greater")
	}

	stage := &domain.ProcessStage{
		ProcessID:   processID,
		Name:        input.Name,
		Order:       input.Order,
		Description: input.Description,
		DueDate:     input.DueDate,
		IsBlocker:   input.IsBlocker,
	}

	if err := u.processRepo.CreateStage(ctx, stage); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.BadRequest("A stage with this order already exists in the process")
		}
		return nil, apperror.Internal(err)
	}
	return stage, nil
}

// UpdateStage applies the supplied fields to a stage of the process
func (u *processUsecase) UpdateStage(ctx context.Context, actor domain.Actor, processID, stageID int64, update domain.StageUpdate) (*domain.ProcessStage, error) {
	process, err := u.processRepo.GetByID(ctx, processID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Process not found")
		}
		return nil, apperror.Internal(err)
	}
	if err := requireManager(actor, process.OwnerID); err != nil {
		return nil, err
	}

	stage, err := u.processRepo.GetStage(ctx, processID, stageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Stage not found in this process")
		}
		return nil, apperror.Internal(err)
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperror.BadRequest("Stage name cannot be empty")
		}
		stage.Name = *update.Name
	}
	if update.Order != nil {
		if *update.Order < 1 {
			return nil, apperror.BadRequest("Stage order must be 1 or greater")
		}
		stage.Order = *update.Order
	}
	if update.Description != nil {
		stage.Description = *update.Description
	}
	if update.DueDate != nil {
		stage.DueDate = update.DueDate
	}
	if update.IsBlocker != nil {
		stage.IsBlocker = *update.IsBlocker
	}

	if err := u.processRepo.UpdateStage(ctx, stage); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.BadRequest("A stage with this order already exists in the process")
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Stage not found in this process")
		}
		return nil, apperror.Internal(err)
	}
	return stage, nil
}

// DeleteStage removes a stage. Feedback on it cascades away; assignments
// currently at it fall back to the between-stages state via SET NULL.
func (u *processUsecase) DeleteStage(ctx context.Context, actor domain.Actor, processID, stageID int64) error {
	process, err := u.processRepo.GetByID(ctx, processID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Process not found")
		}
		return apperror.Internal(err)
	}
	if err := requireManager(actor, process.OwnerID); err != nil {
		return err
	}

	if err := u.processRepo.DeleteStage(ctx, processID, stageID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Stage not found in this process")
		}
		return apperror.Internal(err)
	}
	return nil
}
