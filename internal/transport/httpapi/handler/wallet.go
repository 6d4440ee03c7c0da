package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avkuzmin/tradetape/internal/platform/wallet"
	"github.com/avkuzmin/tradetape/internal/transport/httpapi/middleware"
)

// WalletServiceInterface defines the interface for tracked wallet operations
type WalletServiceInterface interface {
	Create(ctx context.Context, w *wallet.TrackedWallet) (*wallet.TrackedWallet, error)
	List(ctx context.Context, userID uuid.UUID) ([]*wallet.TrackedWallet, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*wallet.TrackedWallet, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// IngestTrigger runs an on-demand ingestion pass for one tracked wallet
type IngestTrigger interface {
	FetchTradesForWallet(ctx context.Context, w *wallet.TrackedWallet) (int, error)
}

// WalletHandler handles tracked wallet HTTP requests
type WalletHandler struct {
	walletService WalletServiceInterface
	ingest        IngestTrigger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService WalletServiceInterface, ingest IngestTrigger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		ingest:        ingest,
	}
}

// CreateWalletRequest represents the wallet tracking request
type CreateWalletRequest struct {
	Label   string `json:"label"`
	Address string `json:"address"`
}

// WalletResponse represents a tracked wallet response
type WalletResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Label     string `json:"label"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

// WalletsListResponse represents the response for listing tracked wallets
type WalletsListResponse struct {
	Wallets []WalletResponse `json:"wallets"`
}

// SyncResponse represents the result of a manual ingestion pass
type SyncResponse struct {
	Status    string `json:"status"`
	NewTrades int    `json:"new_trades"`
}

// CreateWallet handles POST /wallets
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tw := &wallet.TrackedWallet{
		UserID:  userID,
		Label:   req.Label,
		Address: req.Address,
	}

	created, err := h.walletService.Create(r.Context(), tw)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrDuplicateAddress):
			respondError(w, "wallet address is already tracked", http.StatusConflict)
		case errors.Is(err, wallet.ErrMissingAddress):
			respondError(w, "wallet address is required", http.StatusBadRequest)
		case errors.Is(err, wallet.ErrInvalidAddress):
			respondError(w, "invalid Solana address", http.StatusBadRequest)
		case errors.Is(err, wallet.ErrLabelTooLong):
			respondError(w, "wallet label exceeds 100 characters", http.StatusBadRequest)
		default:
			respondError(w, "failed to track wallet", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, toWalletResponse(created), http.StatusCreated)
}

// GetWallets handles GET /wallets
func (h *WalletHandler) GetWallets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	wallets, err := h.walletService.List(r.Context(), userID)
	if err != nil {
		respondError(w, "failed to fetch wallets", http.StatusInternalServerError)
		return
	}

	responses := make([]WalletResponse, 0, len(wallets))
	for _, tw := range wallets {
		responses = append(responses, toWalletResponse(tw))
	}

	respondJSON(w, WalletsListResponse{Wallets: responses}, http.StatusOK)
}

// GetWallet handles GET /wallets/{id}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	walletID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid wallet ID", http.StatusBadRequest)
		return
	}

	tw, err := h.walletService.GetByID(r.Context(), walletID, userID)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrWalletNotFound):
			respondError(w, "wallet not found", http.StatusNotFound)
		case errors.Is(err, wallet.ErrUnauthorizedAccess):
			respondError(w, "access denied", http.StatusForbidden)
		default:
			respondError(w, "failed to fetch wallet", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, toWalletResponse(tw), http.StatusOK)
}

// DeleteWallet handles DELETE /wallets/{id}
func (h *WalletHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	walletID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid wallet ID", http.StatusBadRequest)
		return
	}

	if err := h.walletService.Delete(r.Context(), walletID, userID); err != nil {
		switch {
		case errors.Is(err, wallet.ErrWalletNotFound):
			respondError(w, "wallet not found", http.StatusNotFound)
		case errors.Is(err, wallet.ErrUnauthorizedAccess):
			respondError(w, "access denied", http.StatusForbidden)
		default:
			respondError(w, "failed to delete wallet", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TriggerSync handles POST /wallets/{id}/sync. It runs a synchronous
// ingestion pass for the wallet and reports how many new trades landed.
func (h *WalletHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.ingest == nil {
		respondError(w, "ingestion not available", http.StatusServiceUnavailable)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	walletID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid wallet ID", http.StatusBadRequest)
		return
	}

	tw, err := h.walletService.GetByID(r.Context(), walletID, userID)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrWalletNotFound):
			respondError(w, "wallet not found", http.StatusNotFound)
		case errors.Is(err, wallet.ErrUnauthorizedAccess):
			respondError(w, "access denied", http.StatusForbidden)
		default:
			respondError(w, "failed to verify wallet ownership", http.StatusInternalServerError)
		}
		return
	}

	newTrades, err := h.ingest.FetchTradesForWallet(r.Context(), tw)
	if err != nil {
		// Partial progress still counts; report what landed
		respondJSON(w, SyncResponse{Status: "incomplete", NewTrades: newTrades}, http.StatusBadGateway)
		return
	}

	respondJSON(w, SyncResponse{Status: "synced", NewTrades: newTrades}, http.StatusOK)
}

func toWalletResponse(tw *wallet.TrackedWallet) WalletResponse {
	return WalletResponse{
		ID:        tw.ID.String(),
		UserID:    tw.UserID.String(),
		Label:     tw.Label,
		Address:   tw.Address,
		CreatedAt: tw.CreatedAt.Format(time.RFC3339),
	}
}
