package usecase

import (
	"context"
	"errors"
	"strings"

	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"
)

// minCommentLength is the feedback comment policy: short notes carry no
// signal for the team reviewing a stage.
const minCommentLength = 10

type feedbackUsecase struct {
	feedbackRepo   domain.FeedbackRepository
	assignmentRepo domain.AssignmentRepository
	processRepo    domain.ProcessRepository
}

// NewFeedbackUsecase creates the stage feedback usecase
func NewFeedbackUsecase(
	feedbackRepo domain.FeedbackRepository,
	assignmentRepo domain.AssignmentRepository,
	processRepo domain.ProcessRepository,
) domain.FeedbackUsecase {
	return &feedbackUsecase{
		feedbackRepo:   feedbackRepo,
		assignmentRepo: assignmentRepo,
		processRepo:    processRepo,
	}
}

// SubmitFeedback upserts the actor's feedback for one stage of their
// assignment. Re-submitting the same (assignment, stage, author) key
// updates the existing row; the store never holds two.
func (u *feedbackUsecase) SubmitFeedback(ctx context.Context, actor domain.Actor, assignmentID, stageID int64, input domain.SubmitFeedbackInput) (*domain.StageFeedback, error) {
	assignment, err := u.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Assignment not found")
		}
		return nil, apperror.Internal(err)
	}
	if err := requireCandidate(actor, assignment.CandidateID); err != nil {
		return nil, err
	}

	if _, err := u.processRepo.GetStage(ctx, assignment.ProcessID, stageID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.BadRequest("Stage does not belong to the assignment's process")
		}
		return nil, apperror.Internal(err)
	}

	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperror.BadRequest("Rating must be between 1 and 5")
	}

	comment := strings.TrimSpace(input.Comment)
	if len(comment) < minCommentLength {
		return nil, apperror.BadRequest("Tell us a bit more: use at least 10 characters")
	}

	visibility := input.Visibility
	switch visibility {
	case "":
		visibility = domain.VisibilityCandidates
	case domain.VisibilityTeam, domain.VisibilityCandidates, domain.VisibilityPrivate:
	default:
		return nil, apperror.BadRequest("Invalid visibility")
	}

	feedback := &domain.StageFeedback{
		AssignmentID: assignmentID,
		StageID:      stageID,
		AuthorID:     actor.ID,
		Rating:       input.Rating,
		Comment:      comment,
		Visibility:   visibility,
	}

	if err := u.feedbackRepo.Upsert(ctx, feedback); err != nil {
		return nil, apperror.Internal(err)
	}
	return feedback, nil
}
