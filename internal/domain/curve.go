package domain

import (
	sdkmath "cosmossdk.io/math"
)

// SwapQuote prices a trade against the communal pool with a constant-product
// curve (no fee): the product of reserves never decreases across a trade.
// The intermediate product exceeds uint64 range, hence big-int arithmetic.
//
//	out = reserveOut - ceil(reserveIn * reserveOut / (reserveIn + amountIn))
//
// Rounding the new output reserve up keeps the truncation in the pool's
// favor, so buy-then-sell round trips return at most the original holdings.
func SwapQuote(reserveIn, reserveOut, amountIn uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, ErrZeroAmount
	}
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrInsufficientLiquidity
	}

	in := sdkmath.NewIntFromUint64(reserveIn)
	out := sdkmath.NewIntFromUint64(reserveOut)
	product := in.Mul(out)
	newIn := in.Add(sdkmath.NewIntFromUint64(amountIn))

	// ceil(product / newIn)
	newOut := product.Add(newIn.SubRaw(1)).Quo(newIn)

	quote := out.Sub(newOut)
	if !quote.IsUint64() {
		return 0, ErrInsufficientLiquidity
	}
	amountOut := quote.Uint64()
	if amountOut >= reserveOut {
		return 0, ErrInsufficientLiquidity
	}
	return amountOut, nil
}
