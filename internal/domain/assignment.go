package domain

import (
	"context"
	"time"
)

// CandidateAssignment ties one candidate to one process and tracks their
// current stage. Progression is strictly forward by ascending stage order.
//
// The terminal state is explicit: CompletedAt set means the candidate has
// walked past the last stage and no further progress is possible. A nil
// CurrentStageID with a nil CompletedAt means the assignment is between
// stages (its stage was deleted); the next progress call resumes at the
// lowest-order stage still ahead.
type CandidateAssignment struct {
	ID             int64      `json:"id"`
	ProcessID      int64      `json:"process_id"`
	CandidateID    string     `json:"candidate_id"`
	JoinedAt       time.Time  `json:"joined_at"`
	CurrentStageID *int64     `json:"current_stage_id,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	// Joined data for list responses
	CandidateName    *string `json:"candidate_name,omitempty"`
	CurrentStageName *string `json:"current_stage_name,omitempty"`
}

func (a *CandidateAssignment) Completed() bool {
	return a.CompletedAt != nil
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *CandidateAssignment) error
	GetByID(ctx context.Context, id int64) (*CandidateAssignment, error)
	// GetForProcess returns ErrNotFound when the assignment does not
	// belong to the given process.
	GetForProcess(ctx context.Context, processID, assignmentID int64) (*CandidateAssignment, error)
	FetchByProcess(ctx context.Context, processID int64) ([]CandidateAssignment, error)
	// SetProgress persists the outcome of a progress transition: the new
	// current stage (nil when leaving the ordered walk) and the completion
	// timestamp (non-nil only for the terminal state).
	SetProgress(ctx context.Context, id int64, stageID *int64, completedAt *time.Time) error
}

type CreateAssignmentInput struct {
	CandidateID    string `json:"candidate_id" validate:"required"`
	InitialStageID *int64 `json:"initial_stage_id"`
}

type AssignmentUsecase interface {
	CreateAssignment(ctx context.Context, actor Actor, processID int64, input CreateAssignmentInput) (*CandidateAssignment, error)
	// ProgressAssignment advances to the next stage by ascending order, or
	// to the terminal completed state when no stage remains. It is a
	// no-op on an already completed assignment.
	ProgressAssignment(ctx context.Context, actor Actor, processID, assignmentID int64) (*CandidateAssignment, error)
}
