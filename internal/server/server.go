package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"skikurs-sync/internal/config"
	syncengine "skikurs-sync/internal/sync"
	"skikurs-sync/internal/tgalert"
)

// Runner executes one reconciliation pass.
type Runner interface {
	Run(ctx context.Context) (syncengine.Summary, error)
}

// New builds the HTTP surface: a health check and the guarded run trigger.
// Runs are serialized — the engine assumes a single writer against the
// spreadsheets, so a second trigger waits for the first to finish.
func New(cfg config.Config, engine Runner, alerter *tgalert.Alerter) *http.Server {
	mux := http.NewServeMux()
	var runMu sync.Mutex

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") ||
			strings.TrimPrefix(auth, "Bearer ") != cfg.RunAuthToken {
			log.Printf("run: rejected request without valid bearer token")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		runID := uuid.NewString()
		log.Printf("run %s: started", runID)

		runMu.Lock()
		summary, err := engine.Run(r.Context())
		runMu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			log.Printf("run %s: failed: %v", runID, err)
			alerter.Notify("Kursverwaltung: run failed: " + err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok":     false,
				"run_id": runID,
				"error":  err.Error(),
			})
			return
		}

		log.Printf("run %s: done: %s", runID, summary)
		alerter.Notify("Kursverwaltung: " + summary.String())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":      true,
			"run_id":  runID,
			"message": summary.String(),
		})
	})

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}
