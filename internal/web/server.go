package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/masar-farm/masar/internal/domain"
	"github.com/masar-farm/masar/internal/imagestore"
	"github.com/masar-farm/masar/internal/service"
)

type Server struct {
	inspections *service.InspectionService
	farms       *service.FarmService
	images      imagestore.Store
	router      chi.Router
	logger      *slog.Logger
}

func NewServer(inspections *service.InspectionService, farms *service.FarmService, images imagestore.Store, allowedOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		inspections: inspections,
		farms:       farms,
		images:      images,
		router:      chi.NewRouter(),
		logger:      logger,
	}
	s.registerRoutes(allowedOrigins)
	return s
}

func (s *Server) registerRoutes(allowedOrigins []string) {
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID"},
		MaxAge:         300,
	}))
	s.router.Use(s.requestLogger)

	s.router.Route("/api", func(api chi.Router) {
		api.Post("/fields/analyze", s.handleAnalyze)
		api.Post("/inspections/confirm", s.handleConfirm)
		api.Get("/dashboard", s.handleDashboard)

		api.Route("/farms", func(r chi.Router) {
			r.Get("/", s.handleListFarms)
			r.Post("/", s.handleCreateFarm)
			r.Delete("/{id}", s.handleDeleteFarm)
		})
		api.Route("/fields", func(r chi.Router) {
			r.Get("/", s.handleListFields)
			r.Post("/", s.handleCreateField)
			r.Get("/{id}", s.handleGetField)
			r.Delete("/{id}", s.handleDeleteField)
			r.Post("/{id}/images", s.handleUploadFieldImage)
			r.Get("/{id}/images", s.handleListFieldImages)
		})
		// Storage keys contain a path separator, so match the rest of
		// the path rather than a single segment.
		api.Get("/images/*", s.handleGetImage)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// userID identifies the caller. Authentication is handled by the
// fronting gateway; it forwards the identity in a header.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "default"
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy to a status code and a user-safe
// Arabic message. Upstream inference errors are never leaked verbatim.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		valErr     *domain.ValidationError
		cfgErr     *domain.ConfigurationError
		fetchErr   *domain.FetchError
		infErr     *domain.InferenceError
		persistErr *domain.PersistenceError
	)

	status := http.StatusInternalServerError
	msg := "حدث خطأ غير متوقع أثناء معالجة الطلب."

	switch {
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
		msg = "بيانات غير صالحة: " + valErr.Reason
	case errors.As(err, &cfgErr):
		msg = "تعذر تحليل الصور بالذكاء الاصطناعي: مفتاح النموذج غير موجود في إعدادات البيئة."
	case errors.As(err, &fetchErr):
		status = http.StatusBadGateway
		msg = fmt.Sprintf("فشل تحميل الصورة من المصدر: %d %s. تأكد من صلاحية رابط الصورة.", fetchErr.StatusCode, fetchErr.Status)
	case errors.As(err, &infErr):
		status = http.StatusBadGateway
		msg = "تعذر تحليل الصور بالذكاء الاصطناعي. حاول مجددًا لاحقًا."
	case errors.As(err, &persistErr):
		msg = "تعذر حفظ التقرير في قاعدة البيانات."
	}

	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	s.writeJSON(w, status, map[string]string{"error": msg})
}
