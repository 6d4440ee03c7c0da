package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avkuzmin/tradetape/internal/platform/position"
	"github.com/avkuzmin/tradetape/internal/transport/httpapi/middleware"
)

// PositionAggregatorInterface defines the interface for position aggregation
type PositionAggregatorInterface interface {
	Aggregate(ctx context.Context, userID uuid.UUID) ([]*position.Position, error)
	AggregateContract(ctx context.Context, userID uuid.UUID, contractAddress string) (*position.Position, error)
}

// PositionHandler handles position HTTP requests
type PositionHandler struct {
	aggregator PositionAggregatorInterface
}

// NewPositionHandler creates a new position handler
func NewPositionHandler(aggregator PositionAggregatorInterface) *PositionHandler {
	return &PositionHandler{aggregator: aggregator}
}

// PositionResponse represents a derived position for one token
type PositionResponse struct {
	ContractAddress      string  `json:"contract_address"`
	TokenName            string  `json:"token_name"`
	TokenSymbol          string  `json:"token_symbol"`
	TokenImage           string  `json:"token_image"`
	TotalTokenBought     string  `json:"total_token_bought"`
	TotalTokenSold       string  `json:"total_token_sold"`
	RemainingTokenAmount string  `json:"remaining_token_amount"`
	TotalSolSpent        string  `json:"total_sol_spent"`
	TotalSolReceived     string  `json:"total_sol_received"`
	AvgBuyPriceSol       *string `json:"avg_buy_price_sol,omitempty"`
	RealizedPnlSol       string  `json:"realized_pnl_sol"`
	LastActivityDate     string  `json:"last_activity_date"`
	TradeCount           int     `json:"trade_count"`
}

// PositionsListResponse represents the response for listing positions
type PositionsListResponse struct {
	Positions []PositionResponse `json:"positions"`
}

// GetPositions handles GET /positions
func (h *PositionHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	positions, err := h.aggregator.Aggregate(r.Context(), userID)
	if err != nil {
		respondError(w, "failed to aggregate positions", http.StatusInternalServerError)
		return
	}

	responses := make([]PositionResponse, 0, len(positions))
	for _, p := range positions {
		responses = append(responses, toPositionResponse(p))
	}

	respondJSON(w, PositionsListResponse{Positions: responses}, http.StatusOK)
}

// GetPosition handles GET /positions/{contract}
func (h *PositionHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	contract := chi.URLParam(r, "contract")
	if contract == "" {
		respondError(w, "contract address is required", http.StatusBadRequest)
		return
	}

	p, err := h.aggregator.AggregateContract(r.Context(), userID, contract)
	if err != nil {
		if errors.Is(err, position.ErrNoTrades) {
			respondError(w, "no trades for contract", http.StatusNotFound)
			return
		}
		respondError(w, "failed to aggregate position", http.StatusInternalServerError)
		return
	}

	respondJSON(w, toPositionResponse(p), http.StatusOK)
}

func toPositionResponse(p *position.Position) PositionResponse {
	resp := PositionResponse{
		ContractAddress:      p.ContractAddress,
		TokenName:            p.TokenName,
		TokenSymbol:          p.TokenSymbol,
		TokenImage:           p.TokenImage,
		TotalTokenBought:     p.TotalTokenBought.String(),
		TotalTokenSold:       p.TotalTokenSold.String(),
		RemainingTokenAmount: p.RemainingTokenAmount.String(),
		TotalSolSpent:        p.TotalSolSpent.String(),
		TotalSolReceived:     p.TotalSolReceived.String(),
		RealizedPnlSol:       p.RealizedPnlSol.String(),
		LastActivityDate:     p.LastActivityDate.Format(time.RFC3339),
		TradeCount:           p.TradeCount,
	}

	if p.AvgBuyPriceSol != nil {
		avg := p.AvgBuyPriceSol.String()
		resp.AvgBuyPriceSol = &avg
	}

	return resp
}
