package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/davidbz/hearth/internal/config"
	"github.com/davidbz/hearth/internal/domain"
	"github.com/davidbz/hearth/internal/observability"
)

// Handler handles HTTP requests.
type Handler struct {
	relay   *domain.RelayService
	metrics observability.MetricsRecorder
	app     *config.AppConfig
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	relay *domain.RelayService,
	metrics observability.MetricsRecorder,
	app *config.AppConfig,
) *Handler {
	return &Handler{
		relay:   relay,
		metrics: metrics,
		app:     app,
	}
}

type chatResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Usage   domain.Usage `json:"usage"`
	Model   string       `json:"model"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HandleChat runs a request through the relay pipeline. Every exit path,
// including a panic anywhere below, produces exactly one metrics record.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	success := false
	messageCount := 0

	defer func() {
		if rec := recover(); rec != nil {
			observability.FromContext(ctx).Error("unhandled error in chat pipeline",
				zap.Any("panic", rec))
			h.writeError(w, &domain.Error{
				Code:    domain.CodeUnhandled,
				Message: "Internal server error",
			})
		}

		h.metrics.Record(ctx, observability.RequestRecord{
			Timestamp:    start,
			ClientIP:     observability.GetClientIP(ctx),
			Success:      success,
			Elapsed:      time.Since(start),
			MessageCount: messageCount,
		})
	}()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError(domain.CodeInvalidFormat, "invalid request body"))
		return
	}

	messageCount = domain.MessageCount(req.Messages)

	result, err := h.relay.Chat(ctx, &req)
	if err != nil {
		var relayErr *domain.Error
		if !errors.As(err, &relayErr) {
			relayErr = &domain.Error{
				Code:    domain.CodeUnhandled,
				Message: "Internal server error",
			}
		}

		observability.FromContext(ctx).Warn("chat request failed",
			observability.String("code", string(relayErr.Code)),
			observability.Int("status", relayErr.HTTPStatus()),
		)
		h.writeError(w, relayErr)
		return
	}

	success = true
	h.writeJSON(ctx, w, http.StatusOK, chatResponse{
		Success: true,
		Message: result.Message,
		Usage:   result.Usage,
		Model:   result.Model,
	})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"model":     h.relay.Model(),
	})
}

// HandleFeedback acknowledges feedback submissions. Nothing is persisted;
// the record goes to the process log only.
func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.MessageID == "" || req.Rating == 0 {
		h.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "messageId and rating are required"})
		return
	}

	observability.FromContext(ctx).Info("feedback received",
		observability.String("message_id", req.MessageID),
		observability.Int("rating", req.Rating),
	)

	h.writeJSON(ctx, w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) writeError(w http.ResponseWriter, relayErr *domain.Error) {
	resp := errorResponse{Error: relayErr.Message}

	// Diagnostic detail is a development-posture convenience and only for
	// unavailability failures; auth and catch-all detail never leaves the
	// process.
	if h.app.IsDevelopment() && relayErr.Code == domain.CodeUpstreamUnavailable {
		resp.Details = relayErr.Detail
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(relayErr.HTTPStatus())
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		observability.FromContext(ctx).Error("failed to encode response",
			observability.Error(fmt.Errorf("encode: %w", err)))
	}
}
