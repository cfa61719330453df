package domain

import (
	"context"
	"time"
)

// Process status is an open enum: no transition graph is enforced.
const (
	ProcessStatusDraft  = "draft"
	ProcessStatusActive = "active"
	ProcessStatusOnHold = "on_hold"
	ProcessStatusClosed = "closed"
)

// ProcessStatusLabel returns the display label used by dashboards and
// exports. Unknown statuses fall through unchanged.
func ProcessStatusLabel(status string) string {
	switch status {
	case ProcessStatusDraft:
		return "Draft"
	case ProcessStatusActive:
		return "Active"
	case ProcessStatusOnHold:
		return "On hold"
	case ProcessStatusClosed:
		return "Closed"
	default:
		return status
	}
}

// RecruitmentProcess is a recruitment campaign with ordered stages.
// The owner is set at creation and never changes.
type RecruitmentProcess struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	OwnerID     string     `json:"owner_id"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	// Joined data for list responses
	OwnerName *string `json:"owner_name,omitempty"`
}

// ProcessStage is one ordered step within a process. (process, order) is
// unique; order starts at 1.
type ProcessStage struct {
	ID          int64      `json:"id"`
	ProcessID   int64      `json:"process_id"`
	Name        string     `json:"name"`
	Order       int        `json:"order"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsBlocker   bool       `json:"is_blocker"`
}

// ProcessDetail bundles a process with its stages and assignments for
// the detail view.
type ProcessDetail struct {
	Process     *RecruitmentProcess   `json:"process"`
	Stages      []ProcessStage        `json:"stages"`
	Assignments []CandidateAssignment `json:"assignments"`
}

// ProcessUpdate carries a partial update: nil fields are left untouched.
type ProcessUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// StageUpdate carries a partial stage update.
type StageUpdate struct {
	Name        *string    `json:"name"`
	Order       *int       `json:"order"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	IsBlocker   *bool      `json:"is_blocker"`
}

type ProcessRepository interface {
	Create(ctx context.Context, process *RecruitmentProcess) error
	GetByID(ctx context.Context, id int64) (*RecruitmentProcess, error)
	// Fetch returns all processes, newest first.
	Fetch(ctx context.Context) ([]RecruitmentProcess, error)
	Update(ctx context.Context, process *RecruitmentProcess) error
	Delete(ctx context.Context, id int64) error

	CreateStage(ctx context.Context, stage *ProcessStage) error
	// GetStage returns ErrNotFound when the stage does not belong to the
	// given process.
	GetStage(ctx context.Context, processID, stageID int64) (*ProcessStage, error)
	// FetchStages returns a process's stages ordered by stage order.
	FetchStages(ctx context.Context, processID int64) ([]ProcessStage, error)
	UpdateStage(ctx context.Context, stage *ProcessStage) error
	DeleteStage(ctx context.Context, processID, stageID int64) error
}

type CreateProcessInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft active on_hold closed"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type CreateStageInput struct {
	Name        string     `json:"name" validate:"required,max=150"`
	Order       int        `json:"order" validate:"required,min=1"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	IsBlocker   bool       `json:"is_blocker"`
}

type ProcessUsecase interface {
	CreateProcess(ctx context.Context, actor Actor, input CreateProcessInput) (*RecruitmentProcess, error)
	UpdateProcess(ctx context.Context, actor Actor, id int64, update ProcessUpdate) (*RecruitmentProcess, error)
	GetProcess(ctx context.Context, id int64) (*ProcessDetail, error)
	ListProcesses(ctx context.Context) ([]RecruitmentProcess, error)
	DeleteProcess(ctx context.Context, actor Actor, id int64) error

	CreateStage(ctx context.Context, actor Actor, processID int64, input CreateStageInput) (*ProcessStage, error)
	UpdateStage(ctx context.Context, actor Actor, processID, stageID int64, update StageUpdate) (*ProcessStage, error)
	DeleteStage(ctx context.Context, actor Actor, processID, stageID int64) error
}
