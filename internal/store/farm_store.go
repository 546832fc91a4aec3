package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/masar-farm/masar/internal/domain"
)

type FarmStore struct {
	db *sql.DB
}

func NewFarmStore(db *sql.DB) *FarmStore {
	return &FarmStore{db: db}
}

func (s *FarmStore) Create(ctx context.Context, farm *domain.Farm) (*domain.Farm, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO farms (user_id, name, location, area, main_crops, farming_type, water_source)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, farm.UserID, farm.Name, farm.Location, farm.Area, farm.MainCrops, farm.FarmingType, farm.WaterSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create farm: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *FarmStore) GetByID(ctx context.Context, id int64) (*domain.Farm, error) {
	farm := &domain.Farm{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, location, area, main_crops, farming_type, water_source, created_at
		FROM farms WHERE id = ?
	`, id).Scan(&farm.ID, &farm.UserID, &farm.Name, &farm.Location, &farm.Area,
		&farm.MainCrops, &farm.FarmingType, &farm.WaterSource, &farm.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}

	return farm, nil
}

func (s *FarmStore) ListByUser(ctx context.Context, userID string) ([]*domain.Farm, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, location, area, main_crops, farming_type, water_source, created_at
		FROM farms WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	defer rows.Close()

	var farms []*domain.Farm
	for rows.Next() {
		farm := &domain.Farm{}
		if err := rows.Scan(&farm.ID, &farm.UserID, &farm.Name, &farm.Location, &farm.Area,
			&farm.MainCrops, &farm.FarmingType, &farm.WaterSource, &farm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan farm: %w", err)
		}
		farms = append(farms, farm)
	}
	return farms, rows.Err()
}

func (s *FarmStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM farms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete farm: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("farm not found")
	}
	return nil
}
