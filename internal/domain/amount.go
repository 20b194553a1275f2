package domain

import (
	sdkmath "cosmossdk.io/math"
)

// Checked balance arithmetic. Every ledger mutation goes through these so
// overflow and underflow abort the instruction instead of wrapping.

func AddAmount(a, b uint64) (uint64, error) {
	sum := sdkmath.NewIntFromUint64(a).Add(sdkmath.NewIntFromUint64(b))
	if !sum.IsUint64() {
		return 0, ErrBalanceOverflow
	}
	return sum.Uint64(), nil
}

func SubAmount(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrInsufficientFunds
	}
	return a - b, nil
}
