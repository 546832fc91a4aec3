package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/masar-farm/masar/internal/domain"
)

type FieldStore struct {
	db *sql.DB
}

func NewFieldStore(db *sql.DB) *FieldStore {
	return &FieldStore{db: db}
}

func (s *FieldStore) Create(ctx context.Context, field *domain.Field) (*domain.Field, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO fields (farm_id, user_id, name, crop_type, area, irrigation_method, notes, last_watering_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, field.FarmID, field.UserID, field.Name, field.CropType, field.Area,
		field.IrrigationMethod, field.Notes, field.LastWateringAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create field: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *FieldStore) GetByID(ctx context.Context, id int64) (*domain.Field, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, farm_id, user_id, name, crop_type, area, irrigation_method, notes, last_watering_at, created_at
		FROM fields WHERE id = ?
	`, id)

	field, err := scanField(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get field: %w", err)
	}
	return field, nil
}

func (s *FieldStore) ListByUser(ctx context.Context, userID string) ([]*domain.Field, error) {
	return s.list(ctx, `
		SELECT id, farm_id, user_id, name, crop_type, area, irrigation_method, notes, last_watering_at, created_at
		FROM fields WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`, userID)
}

func (s *FieldStore) ListByFarmID(ctx context.Context, farmID int64) ([]*domain.Field, error) {
	return s.list(ctx, `
		SELECT id, farm_id, user_id, name, crop_type, area, irrigation_method, notes, last_watering_at, created_at
		FROM fields WHERE farm_id = ? ORDER BY created_at DESC, id DESC
	`, farmID)
}

func (s *FieldStore) list(ctx context.Context, query string, arg any) ([]*domain.Field, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	var fields []*domain.Field
	for rows.Next() {
		field, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		fields = append(fields, field)
	}
	return fields, rows.Err()
}

func (s *FieldStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM fields WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("field not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanField(r rowScanner) (*domain.Field, error) {
	field := &domain.Field{}
	var lastWatering sql.NullTime
	err := r.Scan(&field.ID, &field.FarmID, &field.UserID, &field.Name, &field.CropType,
		&field.Area, &field.IrrigationMethod, &field.Notes, &lastWatering, &field.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lastWatering.Valid {
		t := lastWatering.Time
		field.LastWateringAt = &t
	}
	return field, nil
}
