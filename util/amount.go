package util

import (
	"fmt"
	"math/big"
)

// StrToBigInt parses a base-10 unsigned amount string into a big.Int.
// The ledger reports all token amounts in integral base units.
func StrToBigInt(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount string: %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative amount string: %q", s)
	}

	return v, nil
}

// BigIntToStr formats an amount for persistence. Nil counts as zero.
func BigIntToStr(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
