package usecase_test

import (
	"context"
	"testing"

	"connectmetric-backend/internal/domain"
	"connectmetric-backend/internal/usecase"
	"connectmetric-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func feedbackFixtures(ctx context.Context) (*MockFeedbackRepo, *MockAssignmentRepo, *MockProcessRepo) {
	feedbackRepo := new(MockFeedbackRepo)
	assignmentRepo := new(MockAssignmentRepo)
	processRepo := new(MockProcessRepo)

	assignmentRepo.On("GetByID", ctx, int64(7)).Return(
		&domain.CandidateAssignment{ID: 7, ProcessID: 10, CandidateID: "cand1"}, nil)
	processRepo.On("GetStage", ctx, int64(10), int64(101)).Return(
		&domain.ProcessStage{ID: 101, ProcessID: 10, Name: "Screening", Order: 1}, nil)

	return feedbackRepo, assignmentRepo, processRepo
}

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("Should save valid feedback from the assigned candidate", func(t *testing.T) {
		feedbackRepo, assignmentRepo, processRepo := feedbackFixtures(ctx)
		feedbackRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.StageFeedback")).Return(nil)
		uc := usecase.NewFeedbackUsecase(feedbackRepo, assignmentRepo, processRepo)

		feedback, err := uc.SubmitFeedback(ctx, candidateActor, 7, 101, domain.SubmitFeedbackInput{
			Rating:  5,
			Comment: "Clear questions, friendly interviewer",
		})
		assert.NoError(t, err)
		assert.Equal(t, "cand1", feedback.AuthorID)
		assert.Equal(t, 5, feedback.Rating)
		assert.Equal(t, domain.VisibilityCandidates, feedback.Visibility)
	})

	t.Run("Should reject feedback from anyone but the assigned candidate", func(t *testing.T) {
		feedbackRepo, assignmentRepo, processRepo := feedbackFixtures(ctx)
		uc := usecase.NewFeedbackUsecase(feedbackRepo, assignmentRepo, processRepo)

		_, err := uc.SubmitFeedback(ctx, outsiderActor, 7, 101, domain.SubmitFeedbackInput{
			Rating:  4,
			Comment: "Trying to rate someone else's stage",
		})
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
		feedbackRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Should reject a rating outside 1 to 5", func(t *testing.T) {
		feedbackRepo, assignmentRepo, processRepo := feedbackFixtures(ctx)
		uc := usecase.NewFeedbackUsecase(feedbackRepo, assignmentRepo, processRepo)

		_, err := uc.SubmitFeedback(ctx, candidateActor, 7, 101, domain.SubmitFeedbackInput{
			Rating:  6,
			Comment: "Rating six out of five stars",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "between 1 and 5")
	})

	t.Run("Should reject a comment shorter than 10 characters after trimming", func(t *testing.T) {
		feedbackRepo, assignmentRepo, processRepo := feedbackFixtures(ctx)
		uc := usecase.NewFeedbackUsecase(feedbackRepo, assignmentRepo, processRepo)

		_, err := uc.SubmitFeedback(ctx, candidateActor, 7, 101, domain.SubmitFeedbackInput{
			Rating:  3,
			Comment: "   ok    ",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 10 characters")
	})

	t.Run("Should reject a stage outside the assignment's process", func(t *testing.T) {
		feedbackRepo, assignmentRepo, processRepo := feedbackFixtures(ctx)
		processRepo.On("GetStage", ctx, int64(10), int64(999)).Return(nil, domain.ErrNotFound)
		uc := usecase.NewFeedbackUsecase(feedbackRepo, assignmentRepo, processRepo)

		_, err := uc.SubmitFeedback(ctx, candidateActor, 7, 999, domain.SubmitFeedbackInput{
			Rating:  3,
			Comment: "Stage belongs to another process",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong")
	})

	t.Run("Should keep the trimmed comment and explicit visibility", func(t *testing.T) {
		feedbackRepo, assignmentRepo, processRepo := feedbackFixtures(ctx)
		feedbackRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.StageFeedback")).Return(nil).Run(func(args mock.Arguments) {
			f := args.Get(1).(*domain.StageFeedback)
			assert.Equal(t, "A fair but demanding exercise", f.Comment)
			assert.Equal(t, domain.VisibilityPrivate, f.Visibility)
		})
		uc := usecase.NewFeedbackUsecase(feedbackRepo, assignmentRepo, processRepo)

		_, err := uc.SubmitFeedback(ctx, candidateActor, 7, 101, domain.SubmitFeedbackInput{
			Rating:     2,
			Comment:    "  A fair but demanding exercise  ",
			Visibility: domain.VisibilityPrivate,
		})
		assert.NoError(t, err)
	})
}

func TestFeedbackEditableBy(t *testing.T) {
	feedback := &domain.StageFeedback{AuthorID: "cand1"}

	t.Run("Should allow the author", func(t *testing.T) {
		assert.True(t, feedback.EditableBy(candidateActor))
	})

	t.Run("Should allow staff", func(t *testing.T) {
		assert.True(t, feedback.EditableBy(staffActor))
	})

	t.Run("Should deny everyone else", func(t *testing.T) {
		assert.False(t, feedback.EditableBy(outsiderActor))
	})
}
