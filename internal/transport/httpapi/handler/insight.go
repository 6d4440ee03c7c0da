package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/avkuzmin/tradetape/internal/platform/insight"
	"github.com/avkuzmin/tradetape/internal/transport/httpapi/middleware"
)

// InsightServiceInterface defines the interface for insight operations
type InsightServiceInterface interface {
	Generate(ctx context.Context, userID uuid.UUID) (*insight.Insight, error)
	List(ctx context.Context, userID uuid.UUID) ([]*insight.Insight, error)
}

// InsightHandler handles insight HTTP requests
type InsightHandler struct {
	insightService InsightServiceInterface
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightService InsightServiceInterface) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// InsightResponse represents a generated insight
type InsightResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Content     string `json:"content"`
	Model       string `json:"model"`
	TradeCount  int    `json:"trade_count"`
	GeneratedAt string `json:"generated_at"`
}

// InsightsListResponse represents the response for listing insights
type InsightsListResponse struct {
	Insights []InsightResponse `json:"insights"`
}

// GenerateInsight handles POST /insights
func (h *InsightHandler) GenerateInsight(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	generated, err := h.insightService.Generate(r.Context(), userID)
	if err != nil {
		if errors.Is(err, insight.ErrNoTradeHistory) {
			respondError(w, "no trade history to analyze", http.StatusUnprocessableEntity)
			return
		}
		respondError(w, "failed to generate insight", http.StatusInternalServerError)
		return
	}

	respondJSON(w, toInsightResponse(generated), http.StatusCreated)
}

// GetInsights handles GET /insights
func (h *InsightHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	insights, err := h.insightService.List(r.Context(), userID)
	if err != nil {
		respondError(w, "failed to fetch insights", http.StatusInternalServerError)
		return
	}

	responses := make([]InsightResponse, 0, len(insights))
	for _, i := range insights {
		responses = append(responses, toInsightResponse(i))
	}

	respondJSON(w, InsightsListResponse{Insights: responses}, http.StatusOK)
}

func toInsightResponse(i *insight.Insight) InsightResponse {
	return InsightResponse{
		ID:          i.ID.String(),
		UserID:      i.UserID.String(),
		Content:     i.Content,
		Model:       i.Model,
		TradeCount:  i.TradeCount,
		GeneratedAt: i.GeneratedAt.Format(time.RFC3339),
	}
}
