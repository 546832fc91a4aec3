package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/masar-farm/masar/internal/domain"
)

type FieldImageStore struct {
	db *sql.DB
}

func NewFieldImageStore(db *sql.DB) *FieldImageStore {
	return &FieldImageStore{db: db}
}

func (s *FieldImageStore) Create(ctx context.Context, fieldID int64, userID, storageKey, url, mimeType string) (*domain.FieldImage, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO field_images (field_id, user_id, storage_key, url, mime_type) VALUES (?, ?, ?, ?, ?)
	`, fieldID, userID, storageKey, url, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to create field image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	img := &domain.FieldImage{}
	err = s.db.QueryRowContext(ctx, `
		SELECT id, field_id, user_id, storage_key, url, mime_type, created_at FROM field_images WHERE id = ?
	`, id).Scan(&img.ID, &img.FieldID, &img.UserID, &img.StorageKey, &img.URL, &img.MimeType, &img.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get field image: %w", err)
	}
	return img, nil
}

func (s *FieldImageStore) ListByFieldID(ctx context.Context, fieldID int64) ([]*domain.FieldImage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, field_id, user_id, storage_key, url, mime_type, created_at
		FROM field_images WHERE field_id = ? ORDER BY created_at, id
	`, fieldID)
	if err != nil {
		return nil, fmt.Errorf("failed to list field images: %w", err)
	}
	defer rows.Close()

	var images []*domain.FieldImage
	for rows.Next() {
		img := &domain.FieldImage{}
		if err := rows.Scan(&img.ID, &img.FieldID, &img.UserID, &img.StorageKey, &img.URL, &img.MimeType, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan field image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
