package usecase

import (
	"context"
	"errors"
	"time"

	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"
)

type assignmentUsecase struct {
	assignmentRepo domain.AssignmentRepository
	processRepo    domain.ProcessRepository
	userRepo       domain.UserRepository
}

// NewAssignmentUsecase creates the candidate assignment usecase
func NewAssignmentUsecase(
	assignmentRepo domain.AssignmentRepository,
	processRepo domain.ProcessRepository,
	userRepo domain.UserRepository,
) domain.AssignmentUsecase {
	return &assignmentUsecase{
		assignmentRepo: assignmentRepo,
		processRepo:    processRepo,
		userRepo:       userRepo,
	}
}

// CreateAssignment assigns a candidate to a process. Creation is
// exclusive: a candidate already assigned to the process is rejected via
// the unique constraint, never merged into the existing row.
func (u *assignmentUsecase) CreateAssignment(ctx context.Context, actor domain.Actor, processID int64, input domain.CreateAssignmentInput) (*domain.CandidateAssignment, error) {
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

	if _, err := u.userRepo.GetByID(ctx, input.CandidateID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate not found")
		}
		return nil, apperror.Internal(err)
	}

	assignment := &domain.CandidateAssignment{
		ProcessID:   processID,
		CandidateID: input.CandidateID,
	}

	if input.InitialStageID != nil {
		stage, err := u.processRepo.GetStage(ctx, processID, *input.InitialStageID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.BadRequest("Initial stage does not belong to this process")
			}
			return nil, apperror.Internal(err)
		}
		assignment.CurrentStageID = &stage.ID
	} else {
		stages, err := u.processRepo.FetchStages(ctx, processID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if len(stages) == 0 {
			// Nothing to walk: the assignment is born completed
			now := time.Now()
			assignment.CompletedAt = &now
		} else {
			assignment.CurrentStageID = &stages[0].ID
		}
	}

	if err := u.assignmentRepo.Create(ctx, assignment); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.BadRequest("This candidate is already assigned to the process")
		}
		return nil, apperror.Internal(err)
	}
	return assignment, nil
}

// ProgressAssignment moves the assignment to the stage with the smallest
// order strictly greater than the current one, or to the terminal
// completed state when no stage remains. Completed is terminal: calling
// progress again changes nothing.
func (u *assignmentUsecase) ProgressAssignment(ctx context.Context, actor domain.Actor, processID, assignmentID int64) (*domain.CandidateAssignment, error) {
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

	assignment, err := u.assignmentRepo.GetForProcess(ctx, processID, assignmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Assignment not found in this process")
		}
		return nil, apperror.Internal(err)
	}

	if assignment.Completed() {
		return assignment, nil
	}

	stages, err := u.processRepo.FetchStages(ctx, processID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// A nil current stage on a non-completed assignment means its stage
	// was deleted; the walk resumes from order 0.
	currentOrder := 0
	if assignment.CurrentStageID != nil {
		for _, stage := range stages {
			if stage.ID == *assignment.CurrentStageID {
				currentOrder = stage.Order
				break
			}
		}
	}

	var next *domain.ProcessStage
	for i := range stages {
		if stages[i].Order > currentOrder {
			next = &stages[i]
			break
		}
	}

	if next != nil {
		if err := u.assignmentRepo.SetProgress(ctx, assignment.ID, &next.ID, nil); err != nil {
			return nil, apperror.Internal(err)
		}
		assignment.CurrentStageID = &next.ID
		assignment.CurrentStageName = &next.Name
		return assignment, nil
	}

	now := time.Now()
	if err := u.assignmentRepo.SetProgress(ctx, assignment.ID, nil, &now); err != nil {
		return nil, apperror.Internal(err)
	}
	assignment.CurrentStageID = nil
	assignment.CurrentStageName = nil
	assignment.CompletedAt = &now
	return assignment, nil
}
