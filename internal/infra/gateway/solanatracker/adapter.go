package solanatracker

import (
	"context"

	"github.com/avkuzmin/tradetape/internal/platform/ingest"
)

// SwapProviderAdapter maps the SolanaTracker wire types onto the ingestion
// boundary types.
type SwapProviderAdapter struct {
	client *Client
}

// NewSwapProviderAdapter creates an adapter implementing ingest.SwapProvider
func NewSwapProviderAdapter(client *Client) *SwapProviderAdapter {
	return &SwapProviderAdapter{client: client}
}

var _ ingest.SwapProvider = (*SwapProviderAdapter)(nil)

// GetWalletTrades fetches and converts one page of the wallet trade feed
func (a *SwapProviderAdapter) GetWalletTrades(ctx context.Context, address, cursor string) (*ingest.TradePage, error) {
	resp, err := a.client.GetWalletTrades(ctx, address, cursor)
	if err != nil {
		return nil, err
	}

	page := &ingest.TradePage{
		Trades:      make([]ingest.RawSwapRecord, 0, len(resp.Trades)),
		NextCursor:  string(resp.NextCursor),
		HasNextPage: resp.HasNextPage,
	}
	for _, t := range resp.Trades {
		page.Trades = append(page.Trades, ingest.RawSwapRecord{
			Signature:     t.Tx,
			TimestampMs:   t.Time,
			From:          toLeg(t.From),
			To:            toLeg(t.To),
			WalletAddress: t.Wallet,
			Venue:         t.Program,
		})
	}
	return page, nil
}

func toLeg(l *TradeLeg) *ingest.SwapLeg {
	if l == nil {
		return nil
	}
	leg := &ingest.SwapLeg{
		AssetAddress: l.Address,
		Amount:       l.Amount.String(),
	}
	if l.Token != nil {
		leg.Meta = &ingest.AssetMeta{
			Name:   l.Token.Name,
			Symbol: l.Token.Symbol,
			Image:  l.Token.Image,
		}
	}
	return leg
}
