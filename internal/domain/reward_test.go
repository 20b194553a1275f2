package domain

import (
	"errors"
	"math"
	"testing"
)

func TestSplitReward(t *testing.T) {
	cases := []struct {
		name        string
		principal   uint64
		stakes      []Staker
		poolBalance uint64
		refunds     map[string]uint64
		err         error
	}{
		{
			name:        "principal and refunds",
			principal:   900,
			stakes:      []Staker{{Staker: "dosa", Amount: 100}, {Staker: "dosb", Amount: 250}},
			poolBalance: 350,
			refunds:     map[string]uint64{"dosa": 100, "dosb": 250},
		},
		{
			name:        "no stakers",
			principal:   500,
			stakes:      nil,
			poolBalance: 0,
			refunds:     map[string]uint64{},
		},
		{
			name:        "empty issue pool still refunds",
			principal:   0,
			stakes:      []Staker{{Staker: "dosa", Amount: 40}},
			poolBalance: 40,
			refunds:     map[string]uint64{"dosa": 40},
		},
		{
			name:        "zero stakes skipped",
			principal:   10,
			stakes:      []Staker{{Staker: "dosa", Amount: 0}, {Staker: "dosb", Amount: 30}},
			poolBalance: 30,
			refunds:     map[string]uint64{"dosb": 30},
		},
		{
			name:        "repeat staker accumulates",
			principal:   0,
			stakes:      []Staker{{Staker: "dosa", Amount: 20}, {Staker: "dosa", Amount: 30}},
			poolBalance: 50,
			refunds:     map[string]uint64{"dosa": 50},
		},
		{
			name:        "pool cannot cover stakes",
			principal:   100,
			stakes:      []Staker{{Staker: "dosa", Amount: 60}, {Staker: "dosb", Amount: 60}},
			poolBalance: 100,
			err:         ErrInvariant,
		},
		{
			name:        "stakes beyond any possible pool",
			principal:   0,
			stakes:      []Staker{{Staker: "dosa", Amount: math.MaxUint64}, {Staker: "dosa", Amount: 1}},
			poolBalance: math.MaxUint64,
			err:         ErrInvariant,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			breakdown, err := SplitReward(tc.principal, tc.stakes, tc.poolBalance)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitReward failed: %v", err)
			}
			if breakdown.Principal != tc.principal {
				t.Fatalf("principal should pass through untouched, got %d", breakdown.Principal)
			}
			if len(breakdown.Refunds) != len(tc.refunds) {
				t.Fatalf("unexpected refund set: %v", breakdown.Refunds)
			}
			for staker, amount := range tc.refunds {
				if breakdown.Refunds[staker] != amount {
					t.Fatalf("expected %d refunded to %s, got %d", amount, staker, breakdown.Refunds[staker])
				}
			}
		})
	}
}
