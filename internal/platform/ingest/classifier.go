package ingest

import (
	"time"

	"github.com/shopspring/decimal"
)

// WrappedSOLMint is the wrapped native SOL mint address, the reference asset
// for buy/sell classification.
const WrappedSOLMint = "So11111111111111111111111111111111111111112"

// SkipReason explains why a raw swap record was not turned into a candidate
type SkipReason string

const (
	SkipMissingFields SkipReason = "missing_fields"
	SkipNotSOLRouted  SkipReason = "not_sol_routed"
	SkipBadAmount     SkipReason = "bad_amount"
)

// Candidate is a user-independent trade insert built from one classified swap.
// The dedup gate attaches the owning user when persisting.
type Candidate struct {
	ContractAddress string
	TokenName       string
	TokenSymbol     string
	TokenImage      string
	BuyAmount       decimal.Decimal
	SellAmount      decimal.Decimal
	TokenAmount     decimal.Decimal
	Date            time.Time
	Signature       string
}

// Classifier turns raw swap records into directional trade candidates
type Classifier struct{}

// NewClassifier creates a new Classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify validates a raw swap record and determines its direction.
// Only swaps routed through wrapped SOL are modeled: SOL-to-token is a buy,
// token-to-SOL is a sell. Everything else (token-to-token, SOL-to-SOL) is
// skipped with a reason.
func (c *Classifier) Classify(raw RawSwapRecord) (*Candidate, SkipReason) {
	if raw.Signature == "" || raw.TimestampMs == 0 || raw.From == nil || raw.To == nil || raw.WalletAddress == "" {
		return nil, SkipMissingFields
	}

	fromSOL := raw.From.AssetAddress == WrappedSOLMint
	toSOL := raw.To.AssetAddress == WrappedSOLMint

	var tokenLeg, solLeg *SwapLeg
	var isBuy bool
	switch {
	case fromSOL && !toSOL:
		isBuy = true
		solLeg = raw.From
		tokenLeg = raw.To
	case !fromSOL && toSOL:
		isBuy = false
		solLeg = raw.To
		tokenLeg = raw.From
	default:
		return nil, SkipNotSOLRouted
	}

	solAmount, err := parseAmount(solLeg.Amount)
	if err != nil {
		return nil, SkipBadAmount
	}
	tokenAmount, err := parseAmount(tokenLeg.Amount)
	if err != nil {
		return nil, SkipBadAmount
	}

	cand := &Candidate{
		ContractAddress: tokenLeg.AssetAddress,
		TokenAmount:     tokenAmount,
		Date:            time.UnixMilli(raw.TimestampMs).UTC(),
		Signature:       raw.Signature,
	}
	if isBuy {
		cand.BuyAmount = solAmount
	} else {
		cand.SellAmount = solAmount
	}
	if tokenLeg.Meta != nil {
		cand.TokenName = tokenLeg.Meta.Name
		cand.TokenSymbol = tokenLeg.Meta.Symbol
		cand.TokenImage = tokenLeg.Meta.Image
	}

	return cand, ""
}

// parseAmount parses a non-negative decimal amount string
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errNegativeAmount
	}
	return d, nil
}
