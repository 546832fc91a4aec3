package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/masar-farm/masar/internal/domain"
)

func parseID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

type createFarmRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Area        string `json:"area"`
	MainCrops   string `json:"mainCrops"`
	FarmingType string `json:"farmingType"`
	WaterSource string `json:"waterSource"`
}

func (s *Server) handleCreateFarm(w http.ResponseWriter, r *http.Request) {
	var body createFarmRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, &domain.ValidationError{Reason: "malformed JSON body"})
		return
	}

	farm, err := s.farms.CreateFarm(r.Context(), &domain.Farm{
		UserID:      userID(r),
		Name:        body.Name,
		Location:    body.Location,
		Area:        body.Area,
		MainCrops:   body.MainCrops,
		FarmingType: body.FarmingType,
		WaterSource: body.WaterSource,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toFarmResponse(farm))
}

func (s *Server) handleListFarms(w http.ResponseWriter, r *http.Request) {
	farms, err := s.farms.ListFarms(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]farmResponse, 0, len(farms))
	for _, farm := range farms {
		out = append(out, toFarmResponse(farm))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteFarm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Reason: "invalid farm id"})
		return
	}
	if err := s.farms.DeleteFarm(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createFieldRequest struct {
	FarmID           int64  `json:"farmId"`
	Name             string `json:"name"`
	CropType         string `json:"cropType"`
	Area             string `json:"area"`
	IrrigationMethod string `json:"irrigationMethod"`
	Notes            string `json:"notes"`
	LastWateringAt   string `json:"lastWateringAt"`
}

type fieldResponse struct {
	ID               int64      `json:"id"`
	FarmID           int64      `json:"farmId"`
	Name             string     `json:"name"`
	CropType         string     `json:"cropType,omitempty"`
	Area             string     `json:"area,omitempty"`
	IrrigationMethod string     `json:"irrigationMethod,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	LastWateringAt   *time.Time `json:"lastWateringAt,omitempty"`
}

func toFieldResponse(field *domain.Field) fieldResponse {
	return fieldResponse{
		ID:               field.ID,
		FarmID:           field.FarmID,
		Name:             field.Name,
		CropType:         field.CropType,
		Area:             field.Area,
		IrrigationMethod: field.IrrigationMethod,
		Notes:            field.Notes,
		LastWateringAt:   field.LastWateringAt,
	}
}

func (s *Server) handleCreateField(w http.ResponseWriter, r *http.Request) {
	var body createFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, &domain.ValidationError{Reason: "malformed JSON body"})
		return
	}

	field := &domain.Field{
		FarmID:           body.FarmID,
		UserID:           userID(r),
		Name:             body.Name,
		CropType:         body.CropType,
		Area:             body.Area,
		IrrigationMethod: body.IrrigationMethod,
		Notes:            body.Notes,
	}
	if body.LastWateringAt != "" {
		t, err := time.Parse(time.RFC3339, body.LastWateringAt)
		if err != nil {
			s.writeError(w, r, &domain.ValidationError{Reason: "lastWateringAt must be RFC 3339"})
			return
		}
		field.LastWateringAt = &t
	}

	created, err := s.farms.CreateField(r.Context(), field)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toFieldResponse(created))
}

func (s *Server) handleListFields(w http.ResponseWriter, r *http.Request) {
	var farmID int64
	if v := r.URL.Query().Get("farmId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, r, &domain.ValidationError{Reason: "invalid farmId"})
			return
		}
		farmID = id
	}

	fields, err := s.farms.ListFields(r.Context(), userID(r), farmID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]fieldResponse, 0, len(fields))
	for _, field := range fields {
		out = append(out, toFieldResponse(field))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetField(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Reason: "invalid field id"})
		return
	}
	field, err := s.farms.GetField(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if field == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "الحقل غير موجود."})
		return
	}
	s.writeJSON(w, http.StatusOK, toFieldResponse(field))
}

func (s *Server) handleDeleteField(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Reason: "invalid field id"})
		return
	}
	if err := s.farms.DeleteField(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type fieldImageResponse struct {
	ID       int64  `json:"id"`
	FieldID  int64  `json:"fieldId"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
}

func (s *Server) handleUploadFieldImage(w http.ResponseWriter, r *http.Request) {
	fieldID, err := parseID(r, "id")
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Reason: "invalid field id"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.writeError(w, r, &domain.ValidationError{Reason: "failed to parse multipart form"})
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Reason: "image file required"})
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Reason: "failed to read uploaded file"})
		return
	}
	mimeType, ok := allowedImageMIME(data)
	if !ok {
		s.writeError(w, r, &domain.ValidationError{Reason: "unsupported image format"})
		return
	}

	img, err := s.farms.UploadFieldImage(r.Context(), fieldID, userID(r), data, mimeType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, fieldImageResponse{
		ID:       img.ID,
		FieldID:  img.FieldID,
		URL:      img.URL,
		MimeType: img.MimeType,
	})
}

func (s *Server) handleListFieldImages(w http.ResponseWriter, r *http.Request) {
	fieldID, err := parseID(r, "id")
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Reason: "invalid field id"})
		return
	}
	images, err := s.farms.ListFieldImages(r.Context(), fieldID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]fieldImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, fieldImageResponse{
			ID:       img.ID,
			FieldID:  img.FieldID,
			URL:      img.URL,
			MimeType: img.MimeType,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleGetImage serves a stored image back by its storage key. This is
// what the public URLs issued at upload time resolve to.
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		s.writeError(w, r, &domain.ValidationError{Reason: "image key required"})
		return
	}

	rc, mimeType, err := s.images.Get(r.Context(), key)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "الصورة غير موجودة."})
		return
	}
	defer closeWithLog(rc, "stored image", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("failed to stream image", "key", key, "error", err)
	}
}
