package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/infra/storage"
)

// ReportRepo implements storage.ReportRepository using PostgreSQL.
type ReportRepo struct {
	db *DB
}

// NewReportRepo creates a new PostgreSQL report repository.
func NewReportRepo(db *DB) *ReportRepo {
	return &ReportRepo{db: db}
}

type reportRow struct {
	ID             string         `db:"id"`
	Message        string         `db:"message"`
	Stack          sql.NullString `db:"stack"`
	Source         sql.NullString `db:"source"`
	Line           int            `db:"line"`
	Col            int            `db:"col"`
	Severity       string         `db:"severity"`
	Kind           sql.NullString `db:"kind"`
	Breadcrumbs    []byte         `db:"breadcrumbs"`
	AdditionalData []byte         `db:"additional_data"`
	CreatedAt      time.Time      `db:"created_at"`
}

// Save persists a report.
func (r *ReportRepo) Save(ctx context.Context, rep *domain.Report) error {
	crumbs, err := json.Marshal(rep.Breadcrumbs)
	if err != nil {
		return fmt.Errorf("failed to encode breadcrumbs: %w", err)
	}
	extra, err := json.Marshal(rep.AdditionalData)
	if err != nil {
		return fmt.Errorf("failed to encode additional data: %w", err)
	}

	query := `
		INSERT INTO fault_reports (id, message, stack, source, line, col, severity, kind, breadcrumbs, additional_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.ExecContext(
		ctx,
		query,
		rep.ID,
		rep.Message,
		rep.Stack,
		rep.Source,
		rep.Line,
		rep.Column,
		string(rep.Severity),
		string(rep.Kind),
		crumbs,
		extra,
		rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetByID retrieves a report by ID.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := `
		SELECT id, message, stack, source, line, col, severity, kind, breadcrumbs, additional_data, created_at
		FROM fault_reports
		WHERE id = $1
	`
	var row reportRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return row.toDomain()
}

// GetRecent retrieves the most recent reports, newest first.
func (r *ReportRepo) GetRecent(ctx context.Context, limit int) ([]*domain.Report, error) {
	query := `
		SELECT id, message, stack, source, line, col, severity, kind, breadcrumbs, additional_data, created_at
		FROM fault_reports
		ORDER BY created_at DESC
		LIMIT $1
	`
	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]*domain.Report, 0, len(rows))
	for _, row := range rows {
		rep, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// CountSince counts reports created at or after the given time.
func (r *ReportRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM fault_reports WHERE created_at >= $1`
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes reports created before the given time.
func (r *ReportRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fault_reports WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune reports: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read prune result: %w", err)
	}
	return deleted, nil
}

func (row reportRow) toDomain() (*domain.Report, error) {
	rep := &domain.Report{
		ID:        row.ID,
		Message:   row.Message,
		Stack:     row.Stack.String,
		Source:    row.Source.String,
		Line:      row.Line,
		Column:    row.Col,
		Severity:  domain.Severity(row.Severity),
		Kind:      domain.ErrorKind(row.Kind.String),
		CreatedAt: row.CreatedAt,
	}
	if len(row.Breadcrumbs) > 0 {
		if err := json.Unmarshal(row.Breadcrumbs, &rep.Breadcrumbs); err != nil {
			return nil, fmt.Errorf("failed to decode breadcrumbs: %w", err)
		}
	}
	if len(row.AdditionalData) > 0 {
		if err := json.Unmarshal(row.AdditionalData, &rep.AdditionalData); err != nil {
			return nil, fmt.Errorf("failed to decode additional data: %w", err)
		}
	}
	return rep, nil
}
