package usecase

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

// rankLimit caps the "best rated" and "stages to watch" rankings.
const rankLimit = 5

type metricsUsecase struct {
	repo domain.MetricsRepository
}

// NewMetricsUsecase creates the metrics aggregator. It is pure read-side:
// every call recomputes from the store, nothing is cached.
func NewMetricsUsecase(repo domain.MetricsRepository) domain.MetricsUsecase {
	return &metricsUsecase{repo: repo}
}

// Dashboard assembles the full staff metrics view
func (u *metricsUsecase) Dashboard(ctx context.Context, actor domain.Actor) (*domain.MetricsDashboard, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	summary, err := u.repo.Summary(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	processes, err := u.repo.ProcessMetrics(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	stages, err := u.repo.StageMetrics(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	total, completed, err := u.repo.AssignmentCounts(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.MetricsDashboard{
		Summary:       *summary,
		Processes:     processes,
		BestRated:     bestRatedProcesses(processes, rankLimit),
		Stages:        stages,
		StagesToWatch: stagesToWatch(stages, rankLimit),
		Assignments:   assignmentSummary(total, completed),
	}, nil
}

// AssignmentSummary returns the progress breakdown on its own
func (u *metricsUsecase) AssignmentSummary(ctx context.Context, actor domain.Actor) (*domain.AssignmentSummary, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	total, completed, err := u.repo.AssignmentCounts(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	summary := assignmentSummary(total, completed)
	return &summary, nil
}

// bestRatedProcesses ranks processes with feedback by average rating,
// best first. The stable sort keeps the input order (process creation
// descending) for ties.
func bestRatedProcesses(metrics []domain.ProcessMetrics, limit int) []domain.ProcessMetrics {
	rated := make([]domain.ProcessMetrics, 0, len(metrics))
	for _, m := range metrics {
		if m.FeedbackTotal > 0 && m.AvgRating != nil {
			rated = append(rated, m)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return *rated[i].AvgRating > *rated[j].AvgRating
	})
	if len(rated) > limit {
		rated = rated[:limit]
	}
	return rated
}

// stagesToWatch ranks stages with feedback by average rating, lowest
// first: these are the stages candidates struggle with.
func stagesToWatch(metrics []domain.StageMetrics, limit int) []domain.StageMetrics {
	rated := make([]domain.StageMetrics, 0, len(metrics))
	for _, m := range metrics {
		if m.FeedbackTotal > 0 && m.AvgRating != nil {
			rated = append(rated, m)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return *rated[i].AvgRating < *rated[j].AvgRating
	})
	if len(rated) > limit {
		rated = rated[:limit]
	}
	return rated
}

func assignmentSummary(total, completed int64) domain.AssignmentSummary {
	summary := domain.AssignmentSummary{
		Total:      total,
		Completed:  completed,
		InProgress: total - completed,
	}
	if total > 0 {
		pct := float64(completed) * 100 / float64(total)
		summary.CompletedPercentage = math.Round(pct*100) / 100
	}
	return summary
}

var exportHeader = []string{
	"process", "owner", "status", "candidates", "stages", "feedback", "avg_rating", "completed",
}

// exportRow renders one process as export cells. A process with no
// feedback gets an empty average-rating cell, not a zero.
func exportRow(m domain.ProcessMetrics) []string {
	avg := ""
	if m.AvgRating != nil {
		avg = strconv.FormatFloat(*m.AvgRating, 'f', 2, 64)
	}
	return []string{
		m.Title,
		m.OwnerName,
		domain.ProcessStatusLabel(m.Status),
		strconv.FormatInt(m.AssignmentTotal, 10),
		strconv.FormatInt(m.StageTotal, 10),
		strconv.FormatInt(m.FeedbackTotal, 10),
		avg,
		strconv.FormatInt(m.CompletedTotal, 10),
	}
}

// Export renders the per-process metrics extract as CSV (default) or XLSX
func (u *metricsUsecase) Export(ctx context.Context, actor domain.Actor, format string) ([]byte, string, string, error) {
	if err := requireStaff(actor); err != nil {
		return nil, "", "", err
	}

	metrics, err := u.repo.ProcessMetrics(ctx)
	if err != nil {
		return nil, "", "", apperror.Internal(err)
	}

	switch format {
	case "csv", "":
		data, filename := exportCSV(metrics)
		return data, filename, "text/csv", nil
	case "xlsx":
		data, filename, err := exportExcel(metrics)
		if err != nil {
			return nil, "", "", apperror.Internal(err)
		}
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	default:
		return nil, "", "", apperror.BadRequest(fmt.Sprintf("Unsupported export format: %s", format))
	}
}

// exportCSV generates the CSV extract: header row plus one row per process
func exportCSV(metrics []domain.ProcessMetrics) ([]byte, string) {
	var buf bytes.Buffer

	buf.WriteString(strings.Join(exportHeader, ",") + "\n")

	for _, m := range metrics {
		values := make([]string, 0, len(exportHeader))
		for _, cell := range exportRow(m) {
			if strings.ContainsAny(cell, ",\"\n") {
				cell = "\"" + strings.ReplaceAll(cell, "\"", "\"\"") + "\""
			}
			values = append(values, cell)
		}
		buf.WriteString(strings.Join(values, ",") + "\n")
	}

	filename := fmt.Sprintf("connectmetric_metrics_%s.csv", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename
}

// exportExcel generates the same extract as a styled XLSX workbook
func exportExcel(metrics []domain.ProcessMetrics) ([]byte, string, error) {
	f := excelize.NewFile()
	sheetName := "Processes"
	f.SetSheetName("Sheet1", sheetName)

	for i, col := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, strings.ToUpper(col))
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, m := range metrics {
		for colIdx, value := range exportRow(m) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportHeader {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("connectmetric_metrics_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}
