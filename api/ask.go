package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pollinet/knowledgebot/internal/conversation"
	"github.com/pollinet/knowledgebot/internal/log"
	"github.com/pollinet/knowledgebot/internal/provider"
)

// genericApology is returned to the client when answering fails outright.
// The real error goes to the logs, never to the user.
const genericApology = "Sorry, something went wrong while answering. Please try again in a moment."

// Answerer produces an answer for a question given prior conversation turns.
type Answerer interface {
	Answer(ctx context.Context, query string, history []provider.Message) (string, error)
}

// AskHandler handles the question answering endpoint.
type AskHandler struct {
	engine Answerer
	conv   *conversation.Manager
	logger log.Logger
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(engine Answerer, conv *conversation.Manager, logger log.Logger) *AskHandler {
	return &AskHandler{engine: engine, conv: conv, logger: logger}
}

// RegisterRoutes registers ask routes on the given mux.
func (h *AskHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/ask", h.handleAsk)
}

// AskRequest is the request body for POST /api/ask.
type AskRequest struct {
	// ChannelID scopes the conversation window; requests with the same
	// channel id share history.
	ChannelID int64 `json:"channel_id"`

	Question string `json:"question"`
}

// AskResponse is the response body for POST /api/ask.
type AskResponse struct {
	Answer string `json:"answer"`
}

// handleAsk answers one question. History is read before the model call and
// the new turns are appended only after a successful answer, so a transient
// failure does not leave a half-recorded exchange in the window.
func (h *AskHandler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "question is required")
		return
	}

	history := h.conv.History(req.ChannelID)

	answer, err := h.engine.Answer(r.Context(), req.Question, history)
	if err != nil {
		h.logger.Error("answering failed",
			"channel_id", req.ChannelID,
			"request_id", w.Header().Get(requestIDHeader),
			"error", err)
		writeJSON(w, http.StatusOK, AskResponse{Answer: genericApology})
		return
	}

	h.conv.AppendUser(req.ChannelID, req.Question)
	h.conv.AppendAssistant(req.ChannelID, answer)

	writeJSON(w, http.StatusOK, AskResponse{Answer: answer})
}
