package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ToDisplayUnit converts an amount of atomic units (satoshi, wei) into the chain's display unit.
// Example: amount=1234500000000000000, decimals=18 => 1.2345
func ToDisplayUnit(amount *big.Int, decimals int32) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -decimals)
}

// ParseAtomic parses a base-10 integer string of atomic units and converts it to the display unit.
// Fractional, negative, empty or otherwise malformed input is rejected.
func ParseAtomic(raw string, decimals int32) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty atomic amount")
	}
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return decimal.Zero, fmt.Errorf("malformed atomic amount %q", raw)
	}
	if n.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("negative atomic amount %q", raw)
	}
	return ToDisplayUnit(n, decimals), nil
}
