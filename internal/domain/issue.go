package domain

import "time"

// Issue is a unit of work under a repository with a token pool backing it.
type Issue struct {
	Address    string    `json:"address"`
	Repository string    `json:"repository"`
	Index      uint64    `json:"index"`
	URI        string    `json:"uri"`
	Creator    string    `json:"creator"`
	Pool       string    `json:"pool"`
	Closed     bool      `json:"closed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Staker records one staker's position on an issue or pull request pool.
type Staker struct {
	Address string `json:"address"`
	Target  string `json:"target"`
	Staker  string `json:"staker"`
	Amount  uint64 `json:"amount"`
}

// Commit is an immutable record of work referenced by pull requests.
type Commit struct {
	Address     string    `json:"address"`
	Issue       string    `json:"issue"`
	CommitHash  string    `json:"commitHash"`
	TreeHash    string    `json:"treeHash"`
	MetadataURI string    `json:"metadataUri"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
}
