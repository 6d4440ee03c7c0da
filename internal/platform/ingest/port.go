package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/avkuzmin/tradetape/internal/platform/trade"
	"github.com/avkuzmin/tradetape/internal/platform/wallet"
)

// RawSwapRecord is one swap entry from the upstream trade feed. It is
// validated at the ingestion boundary and never persisted verbatim.
type RawSwapRecord struct {
	Signature     string
	TimestampMs   int64
	From          *SwapLeg
	To            *SwapLeg
	WalletAddress string
	Venue         string
}

// SwapLeg is one side of a two-asset swap
type SwapLeg struct {
	AssetAddress string
	Amount       string
	Meta         *AssetMeta
}

// AssetMeta carries optional token metadata attached to a leg
type AssetMeta struct {
	Name   string
	Symbol string
	Image  string
}

// TradePage is one page of the upstream wallet trade feed
type TradePage struct {
	Trades      []RawSwapRecord
	NextCursor  string
	HasNextPage bool
}

// SwapProvider fetches raw swap records from the upstream indexer API
type SwapProvider interface {
	GetWalletTrades(ctx context.Context, address, cursor string) (*TradePage, error)
}

// TradeStore is the storage surface the ingestion path writes through.
// Create must return trade.ErrDuplicateSignature when the storage-level
// (user_id, transaction_signature) unique index rejects the insert.
type TradeStore interface {
	ExistsBySignature(ctx context.Context, userID uuid.UUID, signature string) (bool, error)
	Create(ctx context.Context, t *trade.Trade) error
}

// UserDirectory enumerates users for the fleet scheduler
type UserDirectory interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// WalletDirectory lists tracked wallets per user for the fleet scheduler
type WalletDirectory interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*wallet.TrackedWallet, error)
}
