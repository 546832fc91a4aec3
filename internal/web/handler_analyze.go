package web

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/masar-farm/masar/internal/domain"
	"github.com/masar-farm/masar/internal/service"
)

const maxUploadSize = 50 * 1024 * 1024 // 50 MB

// allowedImageTypes is the set of MIME types accepted for uploaded
// images. net/http.DetectContentType covers JPEG, PNG, and GIF via
// magic-byte sniffing; WebP needs its own check because the WHATWG
// sniff spec (and therefore the stdlib) has no WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with
// "WEBP" at offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data
// is an accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mimeType := http.DetectContentType(data)
	if allowedImageTypes[mimeType] {
		return mimeType, true
	}
	return "", false
}

type analyzeJSONRequest struct {
	ImageURLs      []string `json:"imageUrls"`
	CropType       string   `json:"cropType"`
	FieldName      string   `json:"fieldName"`
	FarmName       string   `json:"farmName"`
	Notes          string   `json:"notes"`
	LastWateringAt string   `json:"lastWateringAt"`
}

// handleAnalyze accepts either a JSON body with image URLs or a
// multipart form with uploaded image files, plus the same metadata
// either way.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseAnalyzeRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Images) == 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "لم يتم استلام أي صور للتحليل."})
		return
	}

	analysis, err := s.inspections.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}

func (s *Server) parseAnalyzeRequest(r *http.Request) (service.AnalyzeRequest, error) {
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return service.AnalyzeRequest{}, &domain.ValidationError{Reason: "missing or malformed Content-Type"}
	}

	switch contentType {
	case "application/json":
		return parseAnalyzeJSON(r)
	case "multipart/form-data":
		return s.parseAnalyzeMultipart(r)
	default:
		return service.AnalyzeRequest{}, &domain.ValidationError{Reason: "unsupported request encoding: " + contentType}
	}
}

func parseAnalyzeJSON(r *http.Request) (service.AnalyzeRequest, error) {
	var body analyzeJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return service.AnalyzeRequest{}, &domain.ValidationError{Reason: "malformed JSON body"}
	}

	req := service.AnalyzeRequest{
		CropType:       body.CropType,
		FieldName:      body.FieldName,
		FarmName:       body.FarmName,
		Notes:          body.Notes,
		LastWateringAt: body.LastWateringAt,
	}
	for _, url := range body.ImageURLs {
		if url == "" {
			continue
		}
		req.Images = append(req.Images, domain.RemoteImage(url))
	}
	return req, nil
}

func (s *Server) parseAnalyzeMultipart(r *http.Request) (service.AnalyzeRequest, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return service.AnalyzeRequest{}, &domain.ValidationError{Reason: "failed to parse multipart form"}
	}

	req := service.AnalyzeRequest{
		CropType:       r.FormValue("cropType"),
		FieldName:      r.FormValue("fieldName"),
		FarmName:       r.FormValue("farmName"),
		Notes:          r.FormValue("notes"),
		LastWateringAt: r.FormValue("lastWateringAt"),
	}

	if r.MultipartForm == nil {
		return req, nil
	}
	for _, header := range r.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			return service.AnalyzeRequest{}, &domain.ValidationError{Reason: "failed to open uploaded file"}
		}
		data, err := io.ReadAll(file)
		closeWithLog(file, "upload file", s.logger)
		if err != nil {
			return service.AnalyzeRequest{}, &domain.ValidationError{Reason: "failed to read uploaded file"}
		}

		mimeType, ok := allowedImageMIME(data)
		if !ok {
			return service.AnalyzeRequest{}, &domain.ValidationError{Reason: "unsupported image format"}
		}
		req.Images = append(req.Images, domain.UploadedImage(data, mimeType))
	}
	return req, nil
}
