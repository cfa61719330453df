package usecase_test

import (
	"context"
	"testing"
	"time"

	"connectmetric-backend/internal/domain"
	"connectmetric-backend/internal/usecase"
	"connectmetric-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func orderedStages() []domain.ProcessStage {
	return []domain.ProcessStage{
		{ID: 101, ProcessID: 10, Name: "Screening", Order: 1},
		{ID: 102, ProcessID: 10, Name: "Interview", Order: 2},
		{ID: 103, ProcessID: 10, Name: "Offer", Order: 3},
	}
}

func TestCreateAssignment(t *testing.T) {
	ctx := context.Background()
	candidate := &domain.User{ID: "cand1", Username: "jane"}

	t.Run("Should place a new assignment on the first stage", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		assignmentRepo := new(MockAssignmentRepo)
		userRepo := new(MockUserRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		processRepo.On("FetchStages", ctx, int64(10)).Return(orderedStages(), nil)
		userRepo.On("GetByID", ctx, "cand1").Return(candidate, nil)
		assignmentRepo.On("Create", ctx, mock.AnythingOfType("*domain.CandidateAssignment")).Return(nil)
		uc := usecase.NewAssignmentUsecase(assignmentRepo, processRepo, userRepo)

		assignment, err := uc.CreateAssignment(ctx, ownerActor, 10, domain.CreateAssignmentInput{CandidateID: "cand1"})
		assert.NoError(t, err)
		assert.NotNil(t, assignment.CurrentStageID)
		assert.Equal(t, int64(101), *assignment.CurrentStageID)
		assert.Nil(t, assignment.CompletedAt)
	})

	t.Run("Should mark the assignment completed when the process has no stages", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		assignmentRepo := new(MockAssignmentRepo)
		userRepo := new(MockUserRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		processRepo.On("FetchStages", ctx, int64(10)).Return([]domain.ProcessStage{}, nil)
		userRepo.On("GetByID", ctx, "cand1").Return(candidate, nil)
		assignmentRepo.On("Create", ctx, mock.AnythingOfType("*domain.CandidateAssignment")).Return(nil)
		uc := usecase.NewAssignmentUsecase(assignmentRepo, processRepo, userRepo)

		assignment, err := uc.CreateAssignment(ctx, ownerActor, 10, domain.CreateAssignmentInput{CandidateID: "cand1"})
		assert.NoError(t, err)
		assert.Nil(t, assignment.CurrentStageID)
		assert.True(t, assignment.Completed())
	})

	t.Run("Should reject assigning the same candidate twice", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		assignmentRepo := new(MockAssignmentRepo)
		userRepo := new(MockUserRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		processRepo.On("FetchStages", ctx, int64(10)).Return(orderedStages(), nil)
		userRepo.On("GetByID", ctx, "cand1").Return(candidate, nil)
		assignmentRepo.On("Create", ctx, mock.AnythingOfType("*domain.CandidateAssignment")).Return(domain.ErrDuplicate)
		uc := usecase.NewAssignmentUsecase(assignmentRepo, processRepo, userRepo)

		_, err := uc.CreateAssignment(ctx, ownerActor, 10, domain.CreateAssignmentInput{CandidateID: "cand1"})
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		assert.Contains(t, appErr.Message, "already assigned")
	})

	t.Run("Should reject an initial stage from another process", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		assignmentRepo := new(MockAssignmentRepo)
		userRepo := new(MockUserRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		processRepo.On("GetStage", ctx, int64(10), int64(999)).Return(nil, domain.ErrNotFound)
		userRepo.On("GetByID", ctx, "cand1").Return(candidate, nil)
		uc := usecase.NewAssignmentUsecase(assignmentRepo, processRepo, userRepo)

		foreign := int64(999)
		_, err := uc.CreateAssignment(ctx, ownerActor, 10, domain.CreateAssignmentInput{CandidateID: "cand1", InitialStageID: &foreign})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong")
		assignmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should reject creation by someone who is neither staff nor owner", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		uc := usecase.NewAssignmentUsecase(new(MockAssignmentRepo), processRepo, new(MockUserRepo))

		_, err := uc.CreateAssignment(ctx, outsiderActor, 10, domain.CreateAssignmentInput{CandidateID: "cand1"})
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
	})
}

func TestProgressAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("Should walk forward one stage at a time", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		assignmentRepo := new(MockAssignmentRepo)
		current := int64(101)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		processRepo.On("FetchStages", ctx, int64(10)).Return(orderedStages(), nil)
		assignmentRepo.On("GetForProcess", ctx, int64(10), int64(7)).Return(
			&domain.CandidateAssignment{ID: 7, ProcessID: 10, CandidateID: "cand1", CurrentStageID: &current}, nil)
		assignmentRepo.On("SetProgress", ctx, int64(7), mock.AnythingOfType("*int64"), (*time.Time)(nil)).Return(nil)
		uc := usecase.NewAssignmentUsecase(assignmentRepo, processRepo, new(MockUserRepo))

		assignment, err := uc.ProgressAssignment(ctx, ownerActor, 10, 7)
		assert.NoError(t, err)
		assert.Equal(t, int64(102), *assignment.CurrentStageID)
		assert.False(t, assignment.Completed())
	})

	t.Run("Should complete after the last stage", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		assignmentRepo := new(MockAssignmentRepo)
		current := int64(103)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		processRepo.On("FetchStages", ctx, int64(10)).Return(orderedStages(), nil)
		assignmentRepo.On("GetForProcess", ctx, int64(10), int64(7)).Return(
			&domain.CandidateAssignment{ID: 7, ProcessID: 10, CandidateID: "cand1", CurrentStageID: &current}, nil)
		assignmentRepo.On("SetProgress", ctx, int64(7), (*int64)(nil), mock.AnythingOfType("*time.Time")).Return(nil)
		uc := usecase.NewAssignmentUsecase(assignmentRepo, processRepo, new(MockUserRepo))

		assignment, err := uc.ProgressAssignment(ctx, ownerActor, 10, 7)
		assert.NoError(t, err)
		assert.Nil(t, assignment.CurrentStageID)
		assert.True(t, assignment.Completed())
	})

	t.Run("Should change nothing on an already completed assignment", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		assignmentRepo := new(MockAssignmentRepo)
		done := time.Now().Add(-time.Hour)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		assignmentRepo.On("GetForProcess", ctx, int64(10), int64(7)).Return(
			&domain.CandidateAssignment{ID: 7, ProcessID: 10, CandidateID: "cand1", CompletedAt: &done}, nil)
		uc := usecase.NewAssignmentUsecase(assignmentRepo, processRepo, new(MockUserRepo))

		assignment, err := uc.ProgressAssignment(ctx, ownerActor, 10, 7)
		assert.NoError(t, err)
		assert.Equal(t, done, *assignment.CompletedAt)
		assignmentRepo.AssertNotCalled(t, "SetProgress", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should resume from the lowest order when the current stage was deleted", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		assignmentRepo := new(MockAssignmentRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		processRepo.On("FetchStages", ctx, int64(10)).Return(orderedStages(), nil)
		assignmentRepo.On("GetForProcess", ctx, int64(10), int64(7)).Return(
			&domain.CandidateAssignment{ID: 7, ProcessID: 10, CandidateID: "cand1"}, nil)
		assignmentRepo.On("SetProgress", ctx, int64(7), mock.AnythingOfType("*int64"), (*time.Time)(nil)).Return(nil)
		uc := usecase.NewAssignmentUsecase(assignmentRepo, processRepo, new(MockUserRepo))

		assignment, err := uc.ProgressAssignment(ctx, ownerActor, 10, 7)
		assert.NoError(t, err)
		assert.Equal(t, int64(101), *assignment.CurrentStageID)
	})

	t.Run("Should reject an assignment from another process", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		assignmentRepo := new(MockAssignmentRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		assignmentRepo.On("GetForProcess", ctx, int64(10), int64(7)).Return(nil, domain.ErrNotFound)
		uc := usecase.NewAssignmentUsecase(assignmentRepo, processRepo, new(MockUserRepo))

		_, err := uc.ProgressAssignment(ctx, ownerActor, 10, 7)
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})
}
