package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/masar-farm/masar/internal/domain"
	"github.com/masar-farm/masar/internal/irrigation"
	"github.com/masar-farm/masar/internal/report"
	"github.com/masar-farm/masar/internal/vision"
)

// farmRepository is the subset of store.FarmStore that InspectionService requires.
type farmRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.Farm, error)
}

// fieldRepository is the subset of store.FieldStore that InspectionService requires.
type fieldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Field, error)
}

// inspectionRepository is the subset of store.InspectionStore that InspectionService requires.
type inspectionRepository interface {
	Create(ctx context.Context, fieldID int64, userID, report string, rating *int) (*domain.InspectionReport, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.InspectionReport, error)
}

// AnalyzeRequest is one analysis call: image references plus the field
// metadata substituted into the prompt.
type AnalyzeRequest struct {
	Images         []domain.ImageSource
	CropType       string
	FieldName      string
	FarmName       string
	Notes          string
	LastWateringAt string
}

// ConfirmRequest carries a rated report back through the feedback loop.
// Images must be the same sources the report was produced from, since a
// low rating re-runs the analysis with identical inputs.
type ConfirmRequest struct {
	FieldID int64
	UserID  string
	Report  string
	Rating  *int
	AnalyzeRequest
}

// ConfirmResult is the loop's outcome. Report stays populated even when
// Saved is false: a persistence failure never discards the analysis
// text the user already has.
type ConfirmResult struct {
	Report     string
	Rating     int
	Reanalyzed bool
	Saved      bool
	Record     *domain.InspectionReport
}

type InspectionService struct {
	farmStore       farmRepository
	fieldStore      fieldRepository
	inspectionStore inspectionRepository
	analyzer        vision.Analyzer
	irrigation      *irrigation.Calculator
	httpClient      *http.Client
	maxImages       int
	logger          *slog.Logger
}

func NewInspectionService(
	farmStore farmRepository,
	fieldStore fieldRepository,
	inspectionStore inspectionRepository,
	analyzer vision.Analyzer,
	irrigationCalc *irrigation.Calculator,
	httpClient *http.Client,
	maxImages int,
	logger *slog.Logger,
) *InspectionService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &InspectionService{
		farmStore:       farmStore,
		fieldStore:      fieldStore,
		inspectionStore: inspectionStore,
		analyzer:        analyzer,
		irrigation:      irrigationCalc,
		httpClient:      httpClient,
		maxImages:       maxImages,
		logger:          logger,
	}
}

// Analyze runs one analysis pass: normalize the images, compose the
// prompt, invoke the model once. Retries belong to Confirm, not here.
func (s *InspectionService) Analyze(ctx context.Context, req AnalyzeRequest) (string, error) {
	if len(req.Images) == 0 {
		return "", &domain.ValidationError{Reason: "at least one image is required"}
	}

	images := req.Images
	if len(images) > s.maxImages {
		images = images[:s.maxImages]
	}

	s.logger.Info("analysis started", "images", len(images), "crop_type", req.CropType)

	inline, err := vision.NormalizeAll(ctx, s.httpClient, images)
	if err != nil {
		return "", err
	}

	prompt := vision.ComposePrompt(vision.PromptInput{
		CropType:       req.CropType,
		FieldName:      req.FieldName,
		FarmName:       req.FarmName,
		Notes:          req.Notes,
		LastWateringAt: req.LastWateringAt,
	})

	analysis, err := s.analyzer.Analyze(ctx, prompt, inline)
	if err != nil {
		return "", err
	}

	s.logger.Info("analysis complete", "chars", len(analysis))
	return analysis, nil
}

// Confirm accepts a rated report. A rating of 1 or 2 buys exactly one
// re-analysis with the same inputs; whichever text is current after
// that is persisted, always under the user's original rating. A rating
// of 3-5 is accepted as-is.
func (s *InspectionService) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	if req.Rating == nil {
		return nil, &domain.ValidationError{Reason: "rating is required"}
	}
	rating := *req.Rating
	if rating < 1 || rating > 5 {
		return nil, &domain.ValidationError{Reason: fmt.Sprintf("rating must be between 1 and 5, got %d", rating)}
	}
	if req.Report == "" {
		return nil, &domain.ValidationError{Reason: "report text is required"}
	}
	if len(req.Images) == 0 {
		return nil, &domain.ValidationError{Reason: "the images the report was based on are required"}
	}

	field, err := s.fieldStore.GetByID(ctx, req.FieldID)
	if err != nil {
		return nil, fmt.Errorf("failed to get field: %w", err)
	}
	if field == nil {
		return nil, &domain.ValidationError{Reason: fmt.Sprintf("field %d not found", req.FieldID)}
	}

	result := &ConfirmResult{Report: req.Report, Rating: rating}

	if rating <= 2 {
		s.logger.Info("low rating, re-running analysis", "field_id", req.FieldID, "rating", rating)
		reanalyzed, err := s.Analyze(ctx, req.AnalyzeRequest)
		if err != nil {
			// One attempt only. The original text stands.
			s.logger.Error("re-analysis failed, keeping original report", "field_id", req.FieldID, "error", err)
		} else {
			result.Report = reanalyzed
		}
		result.Reanalyzed = true
	}

	record, err := s.inspectionStore.Create(ctx, req.FieldID, req.UserID, result.Report, req.Rating)
	if err != nil {
		s.logger.Error("failed to persist inspection report", "field_id", req.FieldID, "error", err)
		return result, &domain.PersistenceError{Err: err}
	}

	result.Saved = true
	result.Record = record
	s.logger.Info("inspection report saved", "field_id", req.FieldID, "inspection_id", record.ID, "rating", rating)
	return result, nil
}

// Dashboard assembles the farm overview: every field with its latest
// report and an irrigation status computed from the field record.
func (s *InspectionService) Dashboard(ctx context.Context, userID string) ([]*domain.Farm, []*domain.FieldStatus, error) {
	farms, err := s.farmStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list farms: %w", err)
	}

	fields, err := s.fieldStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list fields: %w", err)
	}

	inspections, err := s.inspectionStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list inspections: %w", err)
	}

	deref := make([]domain.InspectionReport, 0, len(inspections))
	for _, ins := range inspections {
		deref = append(deref, *ins)
	}
	index := report.LatestByField(deref)

	statuses := make([]*domain.FieldStatus, 0, len(fields))
	for _, field := range fields {
		status := &domain.FieldStatus{
			Field:      field,
			Irrigation: s.irrigation.Status(field.LastWateringAt, field.CropType),
		}
		if latest, ok := index[field.ID]; ok {
			status.LatestReport = latest.Report
			status.LatestRating = latest.Rating
		}
		statuses = append(statuses, status)
	}

	return farms, statuses, nil
}
