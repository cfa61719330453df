package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"connectmetric-backend/internal/domain"
	"connectmetric-backend/internal/usecase"
	"connectmetric-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func ratingOf(v float64) *float64 { return &v }

func sampleProcessMetrics() []domain.ProcessMetrics {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.ProcessMetrics{
		{ProcessID: 3, Title: "Data Hiring", OwnerName: "ana", Status: domain.ProcessStatusActive, AvgRating: ratingOf(4.5), FeedbackTotal: 4, AssignmentTotal: 6, StageTotal: 3, CompletedTotal: 2, CreatedAt: base.Add(2 * time.Hour)},
		{ProcessID: 2, Title: "Backend Hiring", OwnerName: "bob", Status: domain.ProcessStatusClosed, AvgRating: ratingOf(4.5), FeedbackTotal: 9, AssignmentTotal: 10, StageTotal: 4, CompletedTotal: 10, CreatedAt: base.Add(time.Hour)},
		{ProcessID: 1, Title: "Intern Batch, 2026", OwnerName: "ana", Status: domain.ProcessStatusDraft, AvgRating: nil, FeedbackTotal: 0, AssignmentTotal: 0, StageTotal: 2, CompletedTotal: 0, CreatedAt: base},
	}
}

func TestMetricsDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject non-staff", func(t *testing.T) {
		uc := usecase.NewMetricsUsecase(new(MockMetricsRepo))

		_, err := uc.Dashboard(ctx, candidateActor)
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("Should rank best rated processes with newest first on ties and skip unrated ones", func(t *testing.T) {
		repo := new(MockMetricsRepo)
		repo.On("Summary", ctx).Return(&domain.MetricsSummary{TotalProcesses: 3}, nil)
		repo.On("ProcessMetrics", ctx).Return(sampleProcessMetrics(), nil)
		repo.On("StageMetrics", ctx).Return([]domain.StageMetrics{}, nil)
		repo.On("AssignmentCounts", ctx).Return(int64(16), int64(12), nil)
		uc := usecase.NewMetricsUsecase(repo)

		dashboard, err := uc.Dashboard(ctx, staffActor)
		assert.NoError(t, err)
		assert.Len(t, dashboard.BestRated, 2)
		// Equal averages keep creation order, newest first
		assert.Equal(t, int64(3), dashboard.BestRated[0].ProcessID)
		assert.Equal(t, int64(2), dashboard.BestRated[1].ProcessID)
	})

	t.Run("Should surface the lowest rated stages as stages to watch", func(t *testing.T) {
		repo := new(MockMetricsRepo)
		repo.On("Summary", ctx).Return(&domain.MetricsSummary{}, nil)
		repo.On("ProcessMetrics", ctx).Return([]domain.ProcessMetrics{}, nil)
		repo.On("StageMetrics", ctx).Return([]domain.StageMetrics{
			{StageID: 1, Name: "Screening", AvgRating: ratingOf(4.8), FeedbackTotal: 5},
			{StageID: 2, Name: "Take-home", AvgRating: ratingOf(2.1), FeedbackTotal: 7},
			{StageID: 3, Name: "Offer", AvgRating: nil, FeedbackTotal: 0},
		}, nil)
		repo.On("AssignmentCounts", ctx).Return(int64(0), int64(0), nil)
		uc := usecase.NewMetricsUsecase(repo)

		dashboard, err := uc.Dashboard(ctx, staffActor)
		assert.NoError(t, err)
		assert.Len(t, dashboard.StagesToWatch, 2)
		assert.Equal(t, "Take-home", dashboard.StagesToWatch[0].Name)
	})
}

func TestAssignmentSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("Should compute a rounded completion percentage", func(t *testing.T) {
		repo := new(MockMetricsRepo)
		repo.On("AssignmentCounts", ctx).Return(int64(3), int64(1), nil)
		uc := usecase.NewMetricsUsecase(repo)

		summary, err := uc.AssignmentSummary(ctx, staffActor)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), summary.InProgress)
		assert.Equal(t, 33.33, summary.CompletedPercentage)
	})

	t.Run("Should report zero percent when there are no assignments", func(t *testing.T) {
		repo := new(MockMetricsRepo)
		repo.On("AssignmentCounts", ctx).Return(int64(0), int64(0), nil)
		uc := usecase.NewMetricsUsecase(repo)

		summary, err := uc.AssignmentSummary(ctx, staffActor)
		assert.NoError(t, err)
		assert.Equal(t, float64(0), summary.CompletedPercentage)
	})
}

func TestMetricsExport(t *testing.T) {
	ctx := context.Background()

	t.Run("Should export CSV with an empty cell for processes without feedback", func(t *testing.T) {
		repo := new(MockMetricsRepo)
		repo.On("ProcessMetrics", ctx).Return(sampleProcessMetrics(), nil)
		uc := usecase.NewMetricsUsecase(repo)

		data, filename, contentType, err := uc.Export(ctx, staffActor, "csv")
		assert.NoError(t, err)
		assert.Equal(t, "text/csv", contentType)
		assert.True(t, strings.HasPrefix(filename, "connectmetric_metrics_"))
		assert.True(t, strings.HasSuffix(filename, ".csv"))

		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		assert.Len(t, lines, 4)
		assert.Equal(t, "process,owner,status,candidates,stages,feedback,avg_rating,completed", lines[0])
		assert.Equal(t, "Data Hiring,ana,Active,6,3,4,4.50,2", lines[1])
		// No feedback: empty average, not zero
		assert.Equal(t, "\"Intern Batch, 2026\",ana,Draft,0,2,0,,0", lines[3])
	})

	t.Run("Should default to CSV when no format is given", func(t *testing.T) {
		repo := new(MockMetricsRepo)
		repo.On("ProcessMetrics", ctx).Return([]domain.ProcessMetrics{}, nil)
		uc := usecase.NewMetricsUsecase(repo)

		_, _, contentType, err := uc.Export(ctx, staffActor, "")
		assert.NoError(t, err)
		assert.Equal(t, "text/csv", contentType)
	})

	t.Run("Should export a non-empty XLSX workbook", func(t *testing.T) {
		repo := new(MockMetricsRepo)
		repo.On("ProcessMetrics", ctx).Return(sampleProcessMetrics(), nil)
		uc := usecase.NewMetricsUsecase(repo)

		data, filename, contentType, err := uc.Export(ctx, staffActor, "xlsx")
		assert.NoError(t, err)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType)
		assert.True(t, strings.HasSuffix(filename, ".xlsx"))
		assert.NotEmpty(t, data)
	})

	t.Run("Should reject an unknown format", func(t *testing.T) {
		repo := new(MockMetricsRepo)
		repo.On("ProcessMetrics", ctx).Return([]domain.ProcessMetrics{}, nil)
		uc := usecase.NewMetricsUsecase(repo)

		_, _, _, err := uc.Export(ctx, staffActor, "pdf")
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("Should reject non-staff", func(t *testing.T) {
		uc := usecase.NewMetricsUsecase(new(MockMetricsRepo))

		_, _, _, err := uc.Export(ctx, candidateActor, "csv")
		assert.Error(t, err)
	})
}
