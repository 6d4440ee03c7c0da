package wallet

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAddress = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr error
	}{
		{name: "valid address", address: validAddress},
		{name: "valid with whitespace", address: "  " + validAddress + "  "},
		{name: "wrapped sol mint", address: "So11111111111111111111111111111111111111112"},
		{name: "empty", address: "", wantErr: ErrMissingAddress},
		{name: "whitespace only", address: "   ", wantErr: ErrMissingAddress},
		{name: "too short", address: "abc123", wantErr: ErrInvalidAddress},
		{name: "too long", address: strings.Repeat("1", 45), wantErr: ErrInvalidAddress},
		{name: "zero not in alphabet", address: strings.Repeat("0", 40), wantErr: ErrInvalidAddress},
		{name: "uppercase O not in alphabet", address: validAddress[:43] + "O", wantErr: ErrInvalidAddress},
		{name: "evm address rejected", address: "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", wantErr: ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAddress(tt.address)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.address), got)
		})
	}
}

func TestTrackedWallet_ValidateCreate(t *testing.T) {
	w := &TrackedWallet{
		UserID:  uuid.New(),
		Label:   "degen wallet",
		Address: "  " + validAddress,
	}

	require.NoError(t, w.ValidateCreate())
	assert.Equal(t, validAddress, w.Address, "address is normalized")

	t.Run("missing user", func(t *testing.T) {
		w := &TrackedWallet{Address: validAddress}
		assert.ErrorIs(t, w.ValidateCreate(), ErrInvalidUserID)
	})

	t.Run("label too long", func(t *testing.T) {
		w := &TrackedWallet{
			UserID:  uuid.New(),
			Label:   strings.Repeat("x", 101),
			Address: validAddress,
		}
		assert.ErrorIs(t, w.ValidateCreate(), ErrLabelTooLong)
	})
}
