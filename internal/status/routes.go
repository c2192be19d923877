package status

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SetupRoutes builds the status API router.
func SetupRoutes(b *Board, logger *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/bosses", Bosses(b))
	r.Get("/ws", Stream(b, logger))
	return r
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Bosses serves the latest snapshot as JSON.
func Bosses(b *Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(b.Latest())
	}
}
