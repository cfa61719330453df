package domain

import (
	"context"
	"time"
)

// Feedback visibility constants
const (
	VisibilityTeam       = "team"
	VisibilityCandidates = "candidates"
	VisibilityPrivate    = "private"
)

// StageFeedback is a candidate's rated review of one stage, scoped to one
// assignment. One row per (assignment, stage, author); re-submitting
// updates in place.
type StageFeedback struct {
	ID           int64     `json:"id"`
	AssignmentID int64     `json:"assignment_id"`
	StageID      int64     `json:"stage_id"`
	AuthorID     string    `json:"author_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	Visibility   string    `json:"visibility"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EditableBy reports whether the actor may edit this feedback: the author
// themselves, or anyone with the staff capability.
func (f *StageFeedback) EditableBy(actor Actor) bool {
	return actor.ID == f.AuthorID || actor.IsStaff
}

type FeedbackRepository interface {
	// Upsert inserts the feedback or, when a row for (assignment, stage,
	// author) already exists, updates rating, comment and visibility in
	// place. The unique constraint makes this atomic.
	Upsert(ctx context.Context, feedback *StageFeedback) error
	GetByKey(ctx context.Context, assignmentID, stageID int64, authorID string) (*StageFeedback, error)
}

type SubmitFeedbackInput struct {
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"required"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=team candidates private"`
}

type FeedbackUsecase interface {
	SubmitFeedback(ctx context.Context, actor Actor, assignmentID, stageID int64, input SubmitFeedbackInput) (*StageFeedback, error)
}
