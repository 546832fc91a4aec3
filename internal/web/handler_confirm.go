package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/masar-farm/masar/internal/domain"
	"github.com/masar-farm/masar/internal/service"
)

type confirmRequest struct {
	FieldID        int64    `json:"fieldId"`
	Report         string   `json:"report"`
	Rating         *int     `json:"rating"`
	ImageURLs      []string `json:"imageUrls"`
	CropType       string   `json:"cropType"`
	FieldName      string   `json:"fieldName"`
	FarmName       string   `json:"farmName"`
	Notes          string   `json:"notes"`
	LastWateringAt string   `json:"lastWateringAt"`
}

type confirmResponse struct {
	Report     string `json:"report"`
	Rating     int    `json:"rating"`
	Reanalyzed bool   `json:"reanalyzed"`
	Saved      bool   `json:"saved"`
	ID         int64  `json:"id,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

// handleConfirm runs the rating feedback loop and persists the final
// report. A persistence failure still returns the report text with
// saved=false so the user never loses an already-computed analysis.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var body confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, &domain.ValidationError{Reason: "malformed JSON body"})
		return
	}

	req := service.ConfirmRequest{
		FieldID: body.FieldID,
		UserID:  userID(r),
		Report:  body.Report,
		Rating:  body.Rating,
		AnalyzeRequest: service.AnalyzeRequest{
			CropType:       body.CropType,
			FieldName:      body.FieldName,
			FarmName:       body.FarmName,
			Notes:          body.Notes,
			LastWateringAt: body.LastWateringAt,
		},
	}
	for _, url := range body.ImageURLs {
		if url == "" {
			continue
		}
		req.Images = append(req.Images, domain.RemoteImage(url))
	}

	result, err := s.inspections.Confirm(r.Context(), req)
	if err != nil {
		var persistErr *domain.PersistenceError
		if errors.As(err, &persistErr) && result != nil {
			s.logger.Error("report accepted but not saved", "field_id", body.FieldID, "error", err)
			s.writeJSON(w, http.StatusOK, confirmResponse{
				Report:     result.Report,
				Rating:     result.Rating,
				Reanalyzed: result.Reanalyzed,
				Saved:      false,
				Warning:    "تعذر حفظ التقرير في قاعدة البيانات، احتفظ بنسخة من النص.",
			})
			return
		}
		s.writeError(w, r, err)
		return
	}

	resp := confirmResponse{
		Report:     result.Report,
		Rating:     result.Rating,
		Reanalyzed: result.Reanalyzed,
		Saved:      result.Saved,
	}
	if result.Record != nil {
		resp.ID = result.Record.ID
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
