package solanatracker

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avkuzmin/tradetape/pkg/logger"
)

const testAddress = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func newTestClient(serverURL string) *Client {
	c := NewClient("test-api-key", logger.New("test", io.Discard))
	c.SetBaseURL(serverURL)
	return c
}

func TestGetWalletTrades_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet/"+testAddress+"/trades", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Empty(t, r.URL.Query().Get("cursor"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"trades": [
				{
					"tx": "5KtP3xyz",
					"time": 1700000000000,
					"from": {"address": "So11111111111111111111111111111111111111112", "amount": 2.5},
					"to": {
						"address": "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
						"amount": 1000,
						"token": {"name": "Bonk", "symbol": "BONK", "image": "https://img/bonk.png", "decimals": 5}
					},
					"wallet": "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
					"program": "raydium"
				}
			],
			"nextCursor": 1699999999999,
			"hasNextPage": true
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.GetWalletTrades(context.Background(), testAddress, "")

	require.NoError(t, err)
	require.Len(t, page.Trades, 1)
	assert.Equal(t, "5KtP3xyz", page.Trades[0].Tx)
	assert.Equal(t, int64(1700000000000), page.Trades[0].Time)
	assert.Equal(t, "2.5", page.Trades[0].From.Amount.String())
	require.NotNil(t, page.Trades[0].To.Token)
	assert.Equal(t, "BONK", page.Trades[0].To.Token.Symbol)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, Cursor("1699999999999"), page.NextCursor)
}

func TestGetWalletTrades_OpaqueStringCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trades": [], "nextCursor": "eyJwYWdlIjoyfQ==", "hasNextPage": true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.GetWalletTrades(context.Background(), testAddress, "")

	require.NoError(t, err)
	assert.Equal(t, Cursor("eyJwYWdlIjoyfQ=="), page.NextCursor)
	assert.True(t, page.HasNextPage)
}

func TestGetWalletTrades_NullCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trades": [], "nextCursor": null, "hasNextPage": false}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.GetWalletTrades(context.Background(), testAddress, "")

	require.NoError(t, err)
	assert.Empty(t, page.NextCursor)
}

func TestGetWalletTrades_CursorPassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("cursor"))
		w.Write([]byte(`{"trades": [], "hasNextPage": false}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.GetWalletTrades(context.Background(), testAddress, "abc123")

	require.NoError(t, err)
	assert.Empty(t, page.Trades)
	assert.False(t, page.HasNextPage)
}

func TestGetWalletTrades_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ratelimit-remaining", "0")
		w.Header().Set("x-ratelimit-reset", "1700000060")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetWalletTrades(context.Background(), testAddress, "")

	require.Error(t, err)
	assert.True(t, IsRateLimitError(err))

	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, "1700000060", rle.Reset)
}

func TestGetWalletTrades_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetWalletTrades(context.Background(), testAddress, "")

	require.Error(t, err)
	assert.False(t, IsRateLimitError(err))
	assert.Contains(t, err.Error(), "status 500")
}

func TestGetWalletTrades_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetWalletTrades(context.Background(), testAddress, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestAdapter_MapsWireTypes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"trades": [
				{
					"tx": "sig-1",
					"time": 1700000000000,
					"from": {"address": "So11111111111111111111111111111111111111112", "amount": 1.5},
					"to": {
						"address": "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
						"amount": 250,
						"token": {"name": "Bonk", "symbol": "BONK"}
					},
					"wallet": "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
					"program": "jupiter"
				}
			],
			"nextCursor": 1699999990000,
			"hasNextPage": true
		}`))
	}))
	defer server.Close()

	adapter := NewSwapProviderAdapter(newTestClient(server.URL))
	page, err := adapter.GetWalletTrades(context.Background(), testAddress, "")

	require.NoError(t, err)
	require.Len(t, page.Trades, 1)

	rec := page.Trades[0]
	assert.Equal(t, "sig-1", rec.Signature)
	assert.Equal(t, int64(1700000000000), rec.TimestampMs)
	assert.Equal(t, testAddress, rec.WalletAddress)
	assert.Equal(t, "jupiter", rec.Venue)
	require.NotNil(t, rec.From)
	assert.Equal(t, "1.5", rec.From.Amount)
	require.NotNil(t, rec.To)
	assert.Equal(t, "250", rec.To.Amount)
	require.NotNil(t, rec.To.Meta)
	assert.Equal(t, "BONK", rec.To.Meta.Symbol)
	assert.Equal(t, "1699999990000", page.NextCursor)
	assert.True(t, page.HasNextPage)
}
