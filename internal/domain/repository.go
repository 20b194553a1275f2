package domain

import "time"

// Repository owns a reward token and an issue counter.
type Repository struct {
	Address    string    `json:"address"`
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	URI        string    `json:"uri"`
	Creator    string    `json:"creator"`
	Mint       string    `json:"mint"`
	IssueIndex uint64    `json:"issueIndex"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Mint is a reward token, either freshly minted under the program authority
// or imported from outside.
type Mint struct {
	Address   string `json:"address"`
	Authority string `json:"authority"`
	Supply    uint64 `json:"supply"`
	Imported  bool   `json:"imported"`
	Name      string `json:"name,omitempty"`
	Image     string `json:"image,omitempty"`
	Metadata  string `json:"metadata,omitempty"`
}

// VestingSchedule is an ordered release table. The default schedule is a
// singleton; repositories may carry their own override.
type VestingSchedule struct {
	Address   string          `json:"address"`
	Authority string          `json:"authority"`
	Entries   []ScheduleEntry `json:"entries"`
}

type ScheduleEntry struct {
	ReleaseTime time.Time `json:"releaseTime"`
	Amount      uint64    `json:"amount"`
}

// VestingAccount tracks the cumulative release of a repository creator's
// allocation out of the vesting pool.
type VestingAccount struct {
	Address    string `json:"address"`
	Repository string `json:"repository"`
	Schedule   string `json:"schedule"`
	Pool       string `json:"pool"`
	Released   uint64 `json:"released"`
}
