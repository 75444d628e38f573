package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RouterOptions struct {
	CORSOrigins []string
	AssetDir    string // served under /static/ when set
}

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Quiz
	mux.HandleFunc("POST /quiz/mode", h.selectMode)
	mux.HandleFunc("GET /quiz/question", h.currentQuestion)
	mux.HandleFunc("POST /quiz/answer", h.submitAnswer)
	mux.HandleFunc("GET /quiz/results", h.results)
	mux.HandleFunc("POST /quiz/reset", h.reset)

	// Catalog
	mux.HandleFunc("GET /categories", h.listCategories)
	mux.HandleFunc("POST /admin/reload", h.reloadBank)
}

// NewRouter builds the full handler chain:
// RequestID → RealIP → Recoverer → Logging → CORS → mux.
func NewRouter(h *Handler, opts RouterOptions, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})

	RegisterRoutes(mux, h)

	if opts.AssetDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.AssetDir))))
	}

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = CORS(opts.CORSOrigins)(handler)
	handler = Logging(logger)(handler)
	handler = middleware.Recoverer(handler)
	handler = middleware.RealIP(handler)
	handler = middleware.RequestID(handler)
	return handler
}
