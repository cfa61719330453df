package domain

import (
	"context"
	"time"
)

// MetricsSummary holds the headline dashboard counters.
type MetricsSummary struct {
	TotalProcesses   int64 `json:"total_processes"`
	ActiveProcesses  int64 `json:"active_processes"`
	ClosedProcesses  int64 `json:"closed_processes"`
	TotalAssignments int64 `json:"total_assignments"`
	TotalFeedback    int64 `json:"total_feedback"`
}

// ProcessMetrics aggregates one process's feedback and progress figures.
// AvgRating is nil when the process has no feedback at all.
type ProcessMetrics struct {
	ProcessID       int64     `json:"process_id"`
	Title           string    `json:"title"`
	OwnerName       string    `json:"owner_name"`
	Status          string    `json:"status"`
	AvgRating       *float64  `json:"avg_rating"`
	AssignmentTotal int64     `json:"assignment_total"`
	StageTotal      int64     `json:"stage_total"`
	FeedbackTotal   int64     `json:"feedback_total"`
	CompletedTotal  int64     `json:"completed_total"`
	CreatedAt       time.Time `json:"created_at"`
}

// StageMetrics aggregates one stage's feedback figures.
type StageMetrics struct {
	StageID       int64    `json:"stage_id"`
	ProcessID     int64    `json:"process_id"`
	ProcessTitle  string   `json:"process_title"`
	Name          string   `json:"name"`
	Order         int      `json:"order"`
	AvgRating     *float64 `json:"avg_rating"`
	FeedbackTotal int64    `json:"feedback_total"`
}

// AssignmentSummary breaks assignments down by progress state.
type AssignmentSummary struct {
	Total               int64   `json:"total"`
	Completed           int64   `json:"completed"`
	InProgress          int64   `json:"in_progress"`
	CompletedPercentage float64 `json:"completed_percentage"`
}

// MetricsDashboard is the full staff dashboard payload.
type MetricsDashboard struct {
	Summary       MetricsSummary    `json:"summary"`
	Processes     []ProcessMetrics  `json:"processes"`
	BestRated     []ProcessMetrics  `json:"best_rated_processes"`
	Stages        []StageMetrics    `json:"stages"`
	StagesToWatch []StageMetrics    `json:"stages_to_watch"`
	Assignments   AssignmentSummary `json:"assignments"`
}

// MetricsRepository exposes the raw aggregates; ranking and percentage
// math live in the usecase. All queries are read-only and uncached.
type MetricsRepository interface {
	Summary(ctx context.Context) (*MetricsSummary, error)
	// ProcessMetrics returns one row per process, newest process first.
	ProcessMetrics(ctx context.Context) ([]ProcessMetrics, error)
	// StageMetrics returns one row per stage, grouped by process and
	// ordered by stage order.
	StageMetrics(ctx context.Context) ([]StageMetrics, error)
	AssignmentCounts(ctx context.Context) (total, completed int64, err error)
}

type MetricsUsecase interface {
	Dashboard(ctx context.Context, actor Actor) (*MetricsDashboard, error)
	AssignmentSummary(ctx context.Context, actor Actor) (*AssignmentSummary, error)
	// Export renders the per-process metrics extract. Supported formats
	// are "csv" (default) and "xlsx". Returns the payload, a filename and
	// a content type.
	Export(ctx context.Context, actor Actor, format string) ([]byte, string, string, error)
}
