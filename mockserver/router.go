// Package mockserver is a stand-in prediction endpoint for local development.
// Scores are derived from the upload's CRC32, so the same file always gets the same verdict.
package mockserver

import (
	"encoding/json"
	"errors"
	"hash/crc32"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// DefaultMaxUploadSize limits accepted uploads to 512 MiB
const DefaultMaxUploadSize = 512 << 20

// Options configures the mock endpoint
type Options struct {
	Field         string
	MaxUploadSize int64
	// FailStatus makes every prediction fail with this status when non-zero
	FailStatus int
	// Delay is added before answering, to make progress and loading states visible
	Delay time.Duration
}

type predictionResponse struct {
	Prediction string  `json:"prediction"`
	Score      float64 `json:"score"`
	Filename   string  `json:"filename"`
	Size       int64   `json:"size"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type server struct {
	opts Options
	log  zerolog.Logger
}

// NewRouter builds the chi router serving POST /predict and GET /health
func NewRouter(opts Options, log zerolog.Logger) http.Handler {
	if opts.Field == "" {
		opts.Field = "video"
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = DefaultMaxUploadSize
	}
	s := &server{opts: opts, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/predict", s.handlePredict)

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *server) handlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "video too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart body", Detail: err.Error()})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(s.opts.Field)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing " + s.opts.Field + " field"})
		return
	}
	defer func() { _ = file.Close() }()

	h := crc32.NewIEEE()
	size, err := io.Copy(h, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read video", Detail: err.Error()})
		return
	}

	if s.opts.Delay > 0 {
		select {
		case <-time.After(s.opts.Delay):
		case <-r.Context().Done():
			return
		}
	}

	if s.opts.FailStatus != 0 {
		writeJSON(w, s.opts.FailStatus, errorResponse{Error: "model unavailable"})
		return
	}

	resp := scoreUpload(h.Sum32())
	resp.Filename = header.Filename
	resp.Size = size
	writeJSON(w, http.StatusOK, resp)
}

// scoreUpload maps a checksum to a stable score in [0,1]
func scoreUpload(sum uint32) predictionResponse {
	score := float64(sum%1001) / 1000
	label := "REAL"
	if score >= 0.5 {
		label = "FAKE"
	}
	return predictionResponse{Prediction: label, Score: score}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("client_request_id", r.Header.Get("X-Request-ID")).
			Int("status", ww.Status()).
			Int64("content_length", r.ContentLength).
			Dur("elapsed", time.Since(start)).
			Msg("Handled request")
	})
}
