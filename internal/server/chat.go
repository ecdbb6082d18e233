package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/chatrelay-ai/chatrelay/internal/agent"
	"github.com/chatrelay-ai/chatrelay/internal/costs"
	"github.com/chatrelay-ai/chatrelay/internal/logging"
	"github.com/chatrelay-ai/chatrelay/internal/provider"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response   string `json:"response"`
	RequestID  string `json:"request_id"`
	DurationMS int64  `json:"duration_ms"`
	Model      string `json:"model"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

// handleChat runs one user message through the tool-call loop and returns the
// model's final answer. Each request starts a fresh conversation.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := RequestID(ctx)
	startedAt := time.Now()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", RequestID: requestID})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required", RequestID: requestID})
		return
	}

	model := s.rotator.Next()
	log := logging.Logger().With("request_id", requestID, "model", model)
	log.Info("chat request", "message_bytes", len(req.Message))

	messages := []provider.ChatMessage{{Role: provider.RoleUser, Content: req.Message}}
	resp, _, err := agent.Run(ctx, s.provider, s.registry, s.opts.SystemPrompt, model, messages, s.opts.MaxIterations)
	if err != nil {
		log.Error("chat failed", "err", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), RequestID: requestID})
		return
	}

	elapsed := time.Since(startedAt).Milliseconds()
	log.Info("chat complete", "elapsed_ms", elapsed, "total_tokens", resp.Usage.TotalTokens)

	if s.opts.Tracker != nil {
		estimated, _ := costs.EstimateUSD(s.opts.ProviderName, model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
		rec := costs.Record{
			RequestID:    requestID,
			Provider:     s.opts.ProviderName,
			Model:        model,
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
			DurationMS:   elapsed,
			CostUSD:      estimated,
		}
		if err := s.opts.Tracker.Append(ctx, rec); err != nil {
			log.Warn("append usage record", "err", err)
		}
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:   resp.Content,
		RequestID:  requestID,
		DurationMS: elapsed,
		Model:      model,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Logger().Error("write response", "err", err)
	}
}
