package wallet

import "strings"

const (
	minAddressLen = 32
	maxAddressLen = 44
)

// base58Alphabet is the Bitcoin base58 alphabet used by Solana addresses
// (no 0, O, I, l).
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ValidateAddress checks a Solana address and returns its trimmed form.
// Solana addresses are base58-encoded 32-byte public keys, 32-44 characters.
func ValidateAddress(address string) (string, error) {
	address = strings.TrimSpace(address)

	if address == "" {
		return "", ErrMissingAddress
	}

	if len(address) < minAddressLen || len(address) > maxAddressLen {
		return "", ErrInvalidAddress
	}

	for _, r := range address {
		if !strings.ContainsRune(base58Alphabet, r) {
			return "", ErrInvalidAddress
		}
	}

	return address, nil
}
