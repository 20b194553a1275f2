package domain

import "time"

// PullRequest moves Open → Accepted exactly once; the reward is claimable
// once after acceptance.
type PullRequest struct {
	Address     string            `json:"address"`
	Issue       string            `json:"issue"`
	Creator     string            `json:"creator"`
	MetadataURI string            `json:"metadataUri"`
	Status      PullRequestStatus `json:"status"`
	Claimed     bool              `json:"claimed"`
	Pool        string            `json:"pool"`
	Commits     []string          `json:"commits"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// RewardBreakdown reports how a claim distributed the issue pool.
type RewardBreakdown struct {
	Principal uint64            `json:"principal"`
	Refunds   map[string]uint64 `json:"refunds"`
}
