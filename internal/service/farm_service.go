package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/masar-farm/masar/internal/domain"
	"github.com/masar-farm/masar/internal/imagestore"
)

// farmWriter extends farmRepository with the mutations FarmService needs.
type farmWriter interface {
	farmRepository
	Create(ctx context.Context, farm *domain.Farm) (*domain.Farm, error)
	GetByID(ctx context.Context, id int64) (*domain.Farm, error)
	Delete(ctx context.Context, id int64) error
}

// fieldWriter extends fieldRepository with the mutations FarmService needs.
type fieldWriter interface {
	fieldRepository
	Create(ctx context.Context, field *domain.Field) (*domain.Field, error)
	ListByFarmID(ctx context.Context, farmID int64) ([]*domain.Field, error)
	Delete(ctx context.Context, id int64) error
}

// fieldImageRepository is the subset of store.FieldImageStore that FarmService requires.
type fieldImageRepository interface {
	Create(ctx context.Context, fieldID int64, userID, storageKey, url, mimeType string) (*domain.FieldImage, error)
	ListByFieldID(ctx context.Context, fieldID int64) ([]*domain.FieldImage, error)
}

// FarmService covers the registry around the analysis pipeline: farms,
// fields, and the uploaded field images that analysis consumes as
// remote sources.
type FarmService struct {
	farmStore  farmWriter
	fieldStore fieldWriter
	imageStore fieldImageRepository
	images     imagestore.Store
	logger     *slog.Logger
}

func NewFarmService(
	farmStore farmWriter,
	fieldStore fieldWriter,
	imageStore fieldImageRepository,
	images imagestore.Store,
	logger *slog.Logger,
) *FarmService {
	return &FarmService{
		farmStore:  farmStore,
		fieldStore: fieldStore,
		imageStore: imageStore,
		images:     images,
		logger:     logger,
	}
}

func (s *FarmService) CreateFarm(ctx context.Context, farm *domain.Farm) (*domain.Farm, error) {
	if farm.Name == "" {
		return nil, &domain.ValidationError{Reason: "farm name is required"}
	}
	return s.farmStore.Create(ctx, farm)
}

func (s *FarmService) ListFarms(ctx context.Context, userID string) ([]*domain.Farm, error) {
	return s.farmStore.ListByUser(ctx, userID)
}

func (s *FarmService) DeleteFarm(ctx context.Context, id int64) error {
	return s.farmStore.Delete(ctx, id)
}

func (s *FarmService) CreateField(ctx context.Context, field *domain.Field) (*domain.Field, error) {
	if field.Name == "" {
		return nil, &domain.ValidationError{Reason: "field name is required"}
	}
	farm, err := s.farmStore.GetByID(ctx, field.FarmID)
	if err != nil {
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}
	if farm == nil {
		return nil, &domain.ValidationError{Reason: fmt.Sprintf("farm %d not found", field.FarmID)}
	}
	return s.fieldStore.Create(ctx, field)
}

func (s *FarmService) GetField(ctx context.Context, id int64) (*domain.Field, error) {
	return s.fieldStore.GetByID(ctx, id)
}

func (s *FarmService) ListFields(ctx context.Context, userID string, farmID int64) ([]*domain.Field, error) {
	if farmID > 0 {
		return s.fieldStore.ListByFarmID(ctx, farmID)
	}
	return s.fieldStore.ListByUser(ctx, userID)
}

func (s *FarmService) DeleteField(ctx context.Context, id int64) error {
	return s.fieldStore.Delete(ctx, id)
}

// UploadFieldImage stores the bytes, records the image against the
// field, and returns the record with its public URL. The URL is what
// later analysis requests pass back as a remote image source.
func (s *FarmService) UploadFieldImage(ctx context.Context, fieldID int64, userID string, data []byte, mimeType string) (*domain.FieldImage, error) {
	field, err := s.fieldStore.GetByID(ctx, fieldID)
	if err != nil {
		return nil, fmt.Errorf("failed to get field: %w", err)
	}
	if field == nil {
		return nil, &domain.ValidationError{Reason: fmt.Sprintf("field %d not found", fieldID)}
	}

	key, err := s.images.Save(ctx, fmt.Sprintf("field_%d", fieldID), mimeType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	img, err := s.imageStore.Create(ctx, fieldID, userID, key, s.images.PublicURL(key), mimeType)
	if err != nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to roll back stored image", "storage_key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create image record: %w", err)
	}

	s.logger.Info("field image uploaded", "field_id", fieldID, "storage_key", key, "bytes", len(data))
	return img, nil
}

func (s *FarmService) ListFieldImages(ctx context.Context, fieldID int64) ([]*domain.FieldImage, error) {
	return s.imageStore.ListByFieldID(ctx, fieldID)
}
