// Package address validates contract addresses per chain.
package address

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"

	"bubblemaps-bot/internal/domain"
)

// solanaKeyLen is the byte length of an ed25519 public key.
const solanaKeyLen = 32

// ErrInvalidAddress is returned when text is not a contract address on the chain.
var ErrInvalidAddress = errors.New("invalid contract address")

// Hint returns the user-facing prompt for a valid address on chain.
func Hint(chain domain.Chain) string {
	if chain.IsSolana() {
		return "Please send a valid Solana contract address"
	}
	return "Please send a valid contract address (0x... format) for EVM chains"
}

// Validate checks that text is a well-formed contract address for chain.
// Surrounding whitespace is not accepted; callers trim first.
func Validate(chain domain.Chain, text string) error {
	if !chain.IsValid() {
		return fmt.Errorf("%w: unsupported chain %q", ErrInvalidAddress, chain)
	}
	if chain.IsSolana() {
		return validateSolana(text)
	}
	return validateEVM(text)
}

// IsValid reports whether text passes Validate.
func IsValid(chain domain.Chain, text string) bool {
	return Validate(chain, text) == nil
}

func validateSolana(text string) error {
	if text == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	raw, err := base58.Decode(text)
	if err != nil {
		return fmt.Errorf("%w: not base58: %v", ErrInvalidAddress, err)
	}
	if len(raw) != solanaKeyLen {
		return fmt.Errorf("%w: decoded to %d bytes, want %d", ErrInvalidAddress, len(raw), solanaKeyLen)
	}
	return nil
}

func validateEVM(text string) error {
	if !strings.HasPrefix(text, "0x") {
		return fmt.Errorf("%w: missing 0x prefix", ErrInvalidAddress)
	}
	if !common.IsHexAddress(text) {
		return fmt.Errorf("%w: want 40 hex digits after 0x", ErrInvalidAddress)
	}
	return nil
}
