package domain

// CommunalPool is the two-asset reserve enabling swap between a repository's
// reward token and the quote asset. Reserve balances live in the token
// ledger under RewardPool/QuotePool.
type CommunalPool struct {
	Address    string `json:"address"`
	Mint       string `json:"mint"`
	QuoteMint  string `json:"quoteMint"`
	RewardPool string `json:"rewardPool"`
	QuotePool  string `json:"quotePool"`
	Authority  string `json:"authority"`
}
