package domain

// TokenAccount is a ledger row holding balance of one mint for one owner.
// Pool accounts are owned by the program authority; wallet accounts by end
// users.
type TokenAccount struct {
	Address string `json:"address"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
}
