package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source indicates how a trade entered the journal
type Source string

const (
	SourceManual   Source = "manual"   // entered through the trade form
	SourceIngested Source = "ingested" // discovered by the on-chain ingestion worker
	SourceSummary  Source = "summary"  // aggregated import of pre-journal history
)

// IsValid checks if the source is a known value
func (s Source) IsValid() bool {
	switch s {
	case SourceManual, SourceIngested, SourceSummary:
		return true
	}
	return false
}

// Trade represents a single journaled trade of one token.
// BuyAmount and SellAmount are denominated in SOL; TokenAmount in the token itself.
// Exactly one of BuyAmount/SellAmount is positive for ingested trades; manual
// entries may record a full round trip in a single row.
type Trade struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ContractAddress string
	TokenName       string
	TokenSymbol     string
	TokenImage      string
	BuyAmount       decimal.Decimal
	SellAmount      decimal.Decimal
	TokenAmount     decimal.Decimal
	Setup           []string
	Emotion         []string
	Mistakes        []string
	Date            time.Time
	Notes           *string
	IsShared        bool
	// TransactionSignature is set only for ingested trades; together with
	// UserID it forms the dedup key (unique index at the storage level).
	TransactionSignature *string
	Source               Source
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsBuy reports whether the trade spent SOL to acquire tokens
func (t *Trade) IsBuy() bool {
	return t.BuyAmount.IsPositive()
}

// IsSell reports whether the trade disposed tokens for SOL
func (t *Trade) IsSell() bool {
	return !t.IsBuy() && t.SellAmount.IsPositive()
}

// ValidateCreate validates trade fields for creation
func (t *Trade) ValidateCreate() error {
	if t.UserID == uuid.Nil {
		return ErrInvalidUserID
	}

	if t.ContractAddress == "" {
		return ErrMissingContractAddress
	}

	if t.BuyAmount.IsNegative() || t.SellAmount.IsNegative() || t.TokenAmount.IsNegative() {
		return ErrNegativeAmount
	}

	if t.Source == "" {
		t.Source = SourceManual
	}
	if !t.Source.IsValid() {
		return ErrInvalidSource
	}

	if t.Date.IsZero() {
		t.Date = time.Now()
	}

	return nil
}
