package domain

// SplitReward computes how a claim distributes funds: the whole issue pool
// principal goes to the pull request creator, and every stake recorded on
// the winning pull request is refunded to its staker. Stakes from one
// staker accumulate into a single refund. The pull request pool must cover
// every recorded stake; anything less means the ledger is corrupt.
func SplitReward(principal uint64, stakes []Staker, prPoolBalance uint64) (RewardBreakdown, error) {
	breakdown := RewardBreakdown{
		Principal: principal,
		Refunds:   map[string]uint64{},
	}
	for _, stake := range stakes {
		if stake.Amount == 0 {
			continue
		}
		remaining, err := SubAmount(prPoolBalance, stake.Amount)
		if err != nil {
			return RewardBreakdown{}, InvariantError{Reason: "pull request pool cannot cover recorded stakes"}
		}
		prPoolBalance = remaining

		refund, err := AddAmount(breakdown.Refunds[stake.Staker], stake.Amount)
		if err != nil {
			return RewardBreakdown{}, InvariantError{Reason: "refund overflow"}
		}
		breakdown.Refunds[stake.Staker] = refund
	}
	return breakdown, nil
}
