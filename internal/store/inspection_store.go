package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/masar-farm/masar/internal/domain"
)

type InspectionStore struct {
	db *sql.DB
}

func NewInspectionStore(db *sql.DB) *InspectionStore {
	return &InspectionStore{db: db}
}

func (s *InspectionStore) Create(ctx context.Context, fieldID int64, userID, report string, rating *int) (*domain.InspectionReport, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO plant_inspections (field_id, user_id, report, rating) VALUES (?, ?, ?, ?)
	`, fieldID, userID, report, rating)
	if err != nil {
		return nil, fmt.Errorf("failed to create inspection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *InspectionStore) GetByID(ctx context.Context, id int64) (*domain.InspectionReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, field_id, user_id, report, rating, created_at FROM plant_inspections WHERE id = ?
	`, id)

	report, err := scanInspection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}
	return report, nil
}

// ListByUser returns all of a user's inspections ordered by created_at
// then id, so iteration order is stable for the latest-report index.
func (s *InspectionStore) ListByUser(ctx context.Context, userID string) ([]*domain.InspectionReport, error) {
	return s.list(ctx, `
		SELECT id, field_id, user_id, report, rating, created_at
		FROM plant_inspections WHERE user_id = ? ORDER BY created_at, id
	`, userID)
}

func (s *InspectionStore) ListByFieldID(ctx context.Context, fieldID int64) ([]*domain.InspectionReport, error) {
	return s.list(ctx, `
		SELECT id, field_id, user_id, report, rating, created_at
		FROM plant_inspections WHERE field_id = ? ORDER BY created_at, id
	`, fieldID)
}

func (s *InspectionStore) list(ctx context.Context, query string, arg any) ([]*domain.InspectionReport, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	defer rows.Close()

	var reports []*domain.InspectionReport
	for rows.Next() {
		report, err := scanInspection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func scanInspection(r rowScanner) (*domain.InspectionReport, error) {
	report := &domain.InspectionReport{}
	var rating sql.NullInt64
	var createdAt sql.NullTime
	err := r.Scan(&report.ID, &report.FieldID, &report.UserID, &report.Report, &rating, &createdAt)
	if err != nil {
		return nil, err
	}
	if rating.Valid {
		v := int(rating.Int64)
		report.Rating = &v
	}
	if createdAt.Valid {
		t := createdAt.Time
		report.CreatedAt = &t
	}
	return report, nil
}
