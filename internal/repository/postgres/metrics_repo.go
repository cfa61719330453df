package postgres

import (
	"context"
	"fmt"

	"connectmetric-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MetricsRepository computes the read-side aggregates. Every call hits
// the store directly - dashboards are recomputed per request, no caching.
type metricsRepo struct {
	db *pgxpool.Pool
}

func NewMetricsRepository(db *pgxpool.Pool) domain.MetricsRepository {
	return &metricsRepo{db: db}
}

// Summary returns the headline counters
func (r *metricsRepo) Summary(ctx context.Context) (*domain.MetricsSummary, error) {
	summary := &domain.MetricsSummary{}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'closed')
		FROM recruitment_processes`
	err := r.db.QueryRow(ctx, query).Scan(
		&summary.TotalProcesses, &summary.ActiveProcesses, &summary.ClosedProcesses,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count processes: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidate_assignments`).Scan(&summary.TotalAssignments)
	if err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stage_feedback`).Scan(&summary.TotalFeedback)
	if err != nil {
		return nil, fmt.Errorf("failed to count feedback: %w", err)
	}

	return summary, nil
}

// ProcessMetrics returns per-process aggregates, newest process first.
// The ordering is load-bearing: rankings downstream break ties by this
// input order.
func (r *metricsRepo) ProcessMetrics(ctx context.Context) ([]domain.ProcessMetrics, error) {
	query := `
		SELECT
			p.id, p.title,
			COALESCE(NULLIF(u.full_name, ''), u.username) as owner_name,
			p.status,
			(SELECT AVG(f.rating)
			   FROM stage_feedback f
			   JOIN candidate_assignments fa ON f.assignment_id = fa.id
			  WHERE fa.process_id = p.id) as avg_rating,
			(SELECT COUNT(*) FROM candidate_assignments a WHERE a.process_id = p.id) as assignment_total,
			(SELECT COUNT(*) FROM process_stages s WHERE s.process_id = p.id) as stage_total,
			(SELECT COUNT(*)
			   FROM stage_feedback f
			   JOIN candidate_assignments fa ON f.assignment_id = fa.id
			  WHERE fa.process_id = p.id) as feedback_total,
			(SELECT COUNT(*) FROM candidate_assignments a
			  WHERE a.process_id = p.id AND a.completed_at IS NOT NULL) as completed_total,
			p.created_at
		FROM recruitment_processes p
		LEFT JOIN users u ON p.owner_id = u.id
		ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query process metrics: %w", err)
	}
	defer rows.Close()

	var metrics []domain.ProcessMetrics
	for rows.Next() {
		var m domain.ProcessMetrics
		if err := rows.Scan(
			&m.ProcessID, &m.Title, &m.OwnerName, &m.Status,
			&m.AvgRating, &m.AssignmentTotal, &m.StageTotal,
			&m.FeedbackTotal, &m.CompletedTotal, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// StageMetrics returns per-stage aggregates grouped by process
func (r *metricsRepo) StageMetrics(ctx context.Context) ([]domain.StageMetrics, error) {
	query := `
		SELECT
			s.id, s.process_id, p.title, s.name, s.stage_order,
			AVG(f.rating) as avg_rating,
			COUNT(f.id) as feedback_total
		FROM process_stages s
		JOIN recruitment_processes p ON s.process_id = p.id
		LEFT JOIN stage_feedback f ON f.stage_id = s.id
		GROUP BY s.id, s.process_id, p.title, s.name, s.stage_order, p.created_at
		ORDER BY p.created_at DESC, s.stage_order ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stage metrics: %w", err)
	}
	defer rows.Close()

	var metrics []domain.StageMetrics
	for rows.Next() {
		var m domain.StageMetrics
		if err := rows.Scan(
			&m.StageID, &m.ProcessID, &m.ProcessTitle, &m.Name, &m.Order,
			&m.AvgRating, &m.FeedbackTotal,
		); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// AssignmentCounts returns total assignments and how many reached the
// terminal completed state
func (r *metricsRepo) AssignmentCounts(ctx context.Context) (total, completed int64, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE completed_at IS NOT NULL)
		FROM candidate_assignments`
	err = r.db.QueryRow(ctx, query).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return total, completed, nil
}
