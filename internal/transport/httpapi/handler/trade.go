package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avkuzmin/tradetape/internal/platform/trade"
	"github.com/avkuzmin/tradetape/internal/transport/httpapi/middleware"
)

// TradeServiceInterface defines the interface for trade operations
type TradeServiceInterface interface {
	Create(ctx context.Context, t *trade.Trade) (*trade.Trade, error)
	List(ctx context.Context, userID uuid.UUID) ([]*trade.Trade, error)
	ListByContract(ctx context.Context, userID uuid.UUID, contractAddress string) ([]*trade.Trade, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*trade.Trade, error)
	Update(ctx context.Context, t *trade.Trade, userID uuid.UUID) (*trade.Trade, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// TradeHandler handles trade HTTP requests
type TradeHandler struct {
	tradeService TradeServiceInterface
}

// NewTradeHandler creates a new trade handler
func NewTradeHandler(tradeService TradeServiceInterface) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

// TradeRequest represents a trade create/update request body.
// Amounts are decimal strings to keep precision intact over the wire.
type TradeRequest struct {
	ContractAddress string   `json:"contract_address"`
	TokenName       string   `json:"token_name"`
	TokenSymbol     string   `json:"token_symbol"`
	TokenImage      string   `json:"token_image"`
	BuyAmount       string   `json:"buy_amount"`
	SellAmount      string   `json:"sell_amount"`
	TokenAmount     string   `json:"token_amount"`
	Setup           []string `json:"setup"`
	Emotion         []string `json:"emotion"`
	Mistakes        []string `json:"mistakes"`
	Date            *string  `json:"date"`
	Notes           *string  `json:"notes"`
	IsShared        bool     `json:"is_shared"`
	Source          string   `json:"source"`
}

// TradeResponse represents a trade response
type TradeResponse struct {
	ID                   string   `json:"id"`
	UserID               string   `json:"user_id"`
	ContractAddress      string   `json:"contract_address"`
	TokenName            string   `json:"token_name"`
	TokenSymbol          string   `json:"token_symbol"`
	TokenImage           string   `json:"token_image"`
	BuyAmount            string   `json:"buy_amount"`
	SellAmount           string   `json:"sell_amount"`
	TokenAmount          string   `json:"token_amount"`
	Setup                []string `json:"setup"`
	Emotion              []string `json:"emotion"`
	Mistakes             []string `json:"mistakes"`
	Date                 string   `json:"date"`
	Notes                *string  `json:"notes,omitempty"`
	IsShared             bool     `json:"is_shared"`
	TransactionSignature *string  `json:"transaction_signature,omitempty"`
	Source               string   `json:"source"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

// TradesListResponse represents the response for listing trades
type TradesListResponse struct {
	Trades []TradeResponse `json:"trades"`
}

func (req *TradeRequest) toTrade() (*trade.Trade, error) {
	t := &trade.Trade{
		ContractAddress: req.ContractAddress,
		TokenName:       req.TokenName,
		TokenSymbol:     req.TokenSymbol,
		TokenImage:      req.TokenImage,
		Setup:           req.Setup,
		Emotion:         req.Emotion,
		Mistakes:        req.Mistakes,
		Notes:           req.Notes,
		IsShared:        req.IsShared,
		Source:          trade.Source(req.Source),
	}

	var err error
	if t.BuyAmount, err = parseAmount(req.BuyAmount); err != nil {
		return nil, err
	}
	if t.SellAmount, err = parseAmount(req.SellAmount); err != nil {
		return nil, err
	}
	if t.TokenAmount, err = parseAmount(req.TokenAmount); err != nil {
		return nil, err
	}

	if req.Date != nil && *req.Date != "" {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return nil, errors.New("date must be RFC3339")
		}
		t.Date = date
	}

	return t, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("invalid decimal amount")
	}
	return d, nil
}

// CreateTrade handles POST /trades
func (h *TradeHandler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := req.toTrade()
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	t.UserID = userID

	created, err := h.tradeService.Create(r.Context(), t)
	if err != nil {
		switch {
		case errors.Is(err, trade.ErrMissingContractAddress):
			respondError(w, "contract address is required", http.StatusBadRequest)
		case errors.Is(err, trade.ErrNegativeAmount):
			respondError(w, "amounts must not be negative", http.StatusBadRequest)
		case errors.Is(err, trade.ErrInvalidSource):
			respondError(w, "invalid trade source", http.StatusBadRequest)
		case errors.Is(err, trade.ErrDuplicateSignature):
			respondError(w, "trade with this signature already exists", http.StatusConflict)
		default:
			respondError(w, "failed to create trade", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, toTradeResponse(created), http.StatusCreated)
}

// GetTrades handles GET /trades with optional ?contract= filter
func (h *TradeHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var (
		trades []*trade.Trade
		err    error
	)
	if contract := r.URL.Query().Get("contract"); contract != "" {
		trades, err = h.tradeService.ListByContract(r.Context(), userID, contract)
	} else {
		trades, err = h.tradeService.List(r.Context(), userID)
	}
	if err != nil {
		respondError(w, "failed to fetch trades", http.StatusInternalServerError)
		return
	}

	responses := make([]TradeResponse, 0, len(trades))
	for _, t := range trades {
		responses = append(responses, toTradeResponse(t))
	}

	respondJSON(w, TradesListResponse{Trades: responses}, http.StatusOK)
}

// GetTrade handles GET /trades/{id}
func (h *TradeHandler) GetTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tradeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid trade ID", http.StatusBadRequest)
		return
	}

	t, err := h.tradeService.GetByID(r.Context(), tradeID, userID)
	if err != nil {
		respondTradeError(w, err)
		return
	}

	respondJSON(w, toTradeResponse(t), http.StatusOK)
}

// UpdateTrade handles PUT /trades/{id}
func (h *TradeHandler) UpdateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tradeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid trade ID", http.StatusBadRequest)
		return
	}

	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := req.toTrade()
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	t.ID = tradeID

	updated, err := h.tradeService.Update(r.Context(), t, userID)
	if err != nil {
		switch {
		case errors.Is(err, trade.ErrMissingContractAddress):
			respondError(w, "contract address is required", http.StatusBadRequest)
		case errors.Is(err, trade.ErrNegativeAmount):
			respondError(w, "amounts must not be negative", http.StatusBadRequest)
		default:
			respondTradeError(w, err)
		}
		return
	}

	respondJSON(w, toTradeResponse(updated), http.StatusOK)
}

// DeleteTrade handles DELETE /trades/{id}
func (h *TradeHandler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tradeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid trade ID", http.StatusBadRequest)
		return
	}

	if err := h.tradeService.Delete(r.Context(), tradeID, userID); err != nil {
		respondTradeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondTradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trade.ErrTradeNotFound):
		respondError(w, "trade not found", http.StatusNotFound)
	case errors.Is(err, trade.ErrUnauthorizedAccess):
		respondError(w, "access denied", http.StatusForbidden)
	default:
		respondError(w, "failed to process trade", http.StatusInternalServerError)
	}
}

func toTradeResponse(t *trade.Trade) TradeResponse {
	return TradeResponse{
		ID:                   t.ID.String(),
		UserID:               t.UserID.String(),
		ContractAddress:      t.ContractAddress,
		TokenName:            t.TokenName,
		TokenSymbol:          t.TokenSymbol,
		TokenImage:           t.TokenImage,
		BuyAmount:            t.BuyAmount.String(),
		SellAmount:           t.SellAmount.String(),
		TokenAmount:          t.TokenAmount.String(),
		Setup:                t.Setup,
		Emotion:              t.Emotion,
		Mistakes:             t.Mistakes,
		Date:                 t.Date.Format(time.RFC3339),
		Notes:                t.Notes,
		IsShared:             t.IsShared,
		TransactionSignature: t.TransactionSignature,
		Source:               string(t.Source),
		CreatedAt:            t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            t.UpdatedAt.Format(time.RFC3339),
	}
}
