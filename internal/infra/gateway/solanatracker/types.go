package solanatracker

import "encoding/json"

// Cursor is the opaque pagination token. The API has served it both as a
// JSON string and as a bare number, so decoding accepts either form.
type Cursor string

func (c *Cursor) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*c = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cursor(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Cursor(n.String())
	return nil
}

// TradesResponse is the top-level response of the wallet trades endpoint
type TradesResponse struct {
	Trades      []TradeData `json:"trades"`
	NextCursor  Cursor      `json:"nextCursor"`
	HasNextPage bool        `json:"hasNextPage"`
}

// TradeData is one raw swap as reported by the data API
type TradeData struct {
	Tx      string      `json:"tx"`
	Time    int64       `json:"time"` // unix milliseconds
	From    *TradeLeg   `json:"from"`
	To      *TradeLeg   `json:"to"`
	Wallet  string      `json:"wallet"`
	Program string      `json:"program"`
	Volume  json.Number `json:"volume"` // USD volume, unused
}

// TradeLeg is one side of a swap
type TradeLeg struct {
	Address string      `json:"address"`
	Amount  json.Number `json:"amount"`
	Token   *TokenInfo  `json:"token"`
}

// TokenInfo describes the asset of a leg
type TokenInfo struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Image    string `json:"image"`
	Decimals int    `json:"decimals"`
}
