package ingest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTokenMint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	testOtherMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	testWallet    = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
)

func solLeg(amount string) *SwapLeg {
	return &SwapLeg{AssetAddress: WrappedSOLMint, Amount: amount}
}

func tokenLeg(mint, amount string) *SwapLeg {
	return &SwapLeg{
		AssetAddress: mint,
		Amount:       amount,
		Meta:         &AssetMeta{Name: "Bonk", Symbol: "BONK", Image: "https://img.example/bonk.png"},
	}
}

func TestClassifier_Buy(t *testing.T) {
	c := NewClassifier()

	cand, skip := c.Classify(RawSwapRecord{
		Signature:     "sig-buy-1",
		TimestampMs:   1700000000000,
		From:          solLeg("2.5"),
		To:            tokenLeg(testTokenMint, "1000"),
		WalletAddress: testWallet,
	})

	require.NotNil(t, cand)
	assert.Empty(t, skip)
	assert.Equal(t, testTokenMint, cand.ContractAddress)
	assert.True(t, cand.BuyAmount.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, cand.SellAmount.IsZero())
	assert.True(t, cand.TokenAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "Bonk", cand.TokenName)
	assert.Equal(t, "BONK", cand.TokenSymbol)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), cand.Date)
	assert.Equal(t, "sig-buy-1", cand.Signature)
}

func TestClassifier_Sell(t *testing.T) {
	c := NewClassifier()

	cand, skip := c.Classify(RawSwapRecord{
		Signature:     "sig-sell-1",
		TimestampMs:   1700000000000,
		From:          tokenLeg(testTokenMint, "400"),
		To:            solLeg("1.3"),
		WalletAddress: testWallet,
	})

	require.NotNil(t, cand)
	assert.Empty(t, skip)
	assert.Equal(t, testTokenMint, cand.ContractAddress)
	assert.True(t, cand.SellAmount.Equal(decimal.RequireFromString("1.3")))
	assert.True(t, cand.BuyAmount.IsZero())
	assert.True(t, cand.TokenAmount.Equal(decimal.NewFromInt(400)))
}

func TestClassifier_Skips(t *testing.T) {
	c := NewClassifier()

	valid := func() RawSwapRecord {
		return RawSwapRecord{
			Signature:     "sig",
			TimestampMs:   1700000000000,
			From:          solLeg("1"),
			To:            tokenLeg(testTokenMint, "10"),
			WalletAddress: testWallet,
		}
	}

	tests := []struct {
		name   string
		mutate func(*RawSwapRecord)
		want   SkipReason
	}{
		{
			name:   "missing signature",
			mutate: func(r *RawSwapRecord) { r.Signature = "" },
			want:   SkipMissingFields,
		},
		{
			name:   "missing timestamp",
			mutate: func(r *RawSwapRecord) { r.TimestampMs = 0 },
			want:   SkipMissingFields,
		},
		{
			name:   "missing from leg",
			mutate: func(r *RawSwapRecord) { r.From = nil },
			want:   SkipMissingFields,
		},
		{
			name:   "missing to leg",
			mutate: func(r *RawSwapRecord) { r.To = nil },
			want:   SkipMissingFields,
		},
		{
			name:   "missing wallet",
			mutate: func(r *RawSwapRecord) { r.WalletAddress = "" },
			want:   SkipMissingFields,
		},
		{
			name: "token to token",
			mutate: func(r *RawSwapRecord) {
				r.From = tokenLeg(testOtherMint, "5")
				r.To = tokenLeg(testTokenMint, "10")
			},
			want: SkipNotSOLRouted,
		},
		{
			name: "sol to sol",
			mutate: func(r *RawSwapRecord) {
				r.From = solLeg("1")
				r.To = solLeg("1")
			},
			want: SkipNotSOLRouted,
		},
		{
			name:   "unparseable amount",
			mutate: func(r *RawSwapRecord) { r.To.Amount = "not-a-number" },
			want:   SkipBadAmount,
		},
		{
			name:   "negative amount",
			mutate: func(r *RawSwapRecord) { r.From.Amount = "-1" },
			want:   SkipBadAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := valid()
			tt.mutate(&raw)

			cand, skip := c.Classify(raw)
			assert.Nil(t, cand)
			assert.Equal(t, tt.want, skip)
		})
	}
}

func TestClassifier_MetaOptional(t *testing.T) {
	c := NewClassifier()

	cand, skip := c.Classify(RawSwapRecord{
		Signature:     "sig-no-meta",
		TimestampMs:   1700000000000,
		From:          solLeg("1"),
		To:            &SwapLeg{AssetAddress: testTokenMint, Amount: "10"},
		WalletAddress: testWallet,
	})

	require.NotNil(t, cand)
	assert.Empty(t, skip)
	assert.Empty(t, cand.TokenName)
	assert.Empty(t, cand.TokenSymbol)
}
