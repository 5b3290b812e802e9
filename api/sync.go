package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/pollinet/knowledgebot/internal/log"
	knowsync "github.com/pollinet/knowledgebot/internal/sync"
)

// SyncRunner triggers one knowledge-base sync run.
type SyncRunner interface {
	Run(ctx context.Context) (knowsync.Result, error)
}

// SyncHandler handles the sync trigger endpoint.
type SyncHandler struct {
	syncer SyncRunner
	logger log.Logger
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(syncer SyncRunner, logger log.Logger) *SyncHandler {
	return &SyncHandler{syncer: syncer, logger: logger}
}

// RegisterRoutes registers sync routes on the given mux.
func (h *SyncHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sync", h.handleSync)
}

// handleSync runs one sync and reports its result. A sync already in
// flight yields 409 rather than queueing a second run.
func (h *SyncHandler) handleSync(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		writeError(w, http.StatusServiceUnavailable, "sync_unavailable", "sync is not configured")
		return
	}

	res, err := h.syncer.Run(r.Context())
	if err != nil {
		if errors.Is(err, knowsync.ErrSyncInProgress) {
			writeError(w, http.StatusConflict, "sync_in_progress", "a sync is already running")
			return
		}
		h.logger.Error("sync failed", "error", err)
		writeError(w, http.StatusInternalServerError, "sync_failed", "sync did not complete")
		return
	}

	writeJSON(w, http.StatusOK, res)
}
