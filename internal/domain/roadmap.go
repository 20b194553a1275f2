package domain

import "time"

// Roadmap is the metadata root objectives attach to. One per
// (repository, adder) derivation.
type Roadmap struct {
	Address     string    `json:"address"`
	Repository  string    `json:"repository"`
	Adder       string    `json:"adder"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Outlook     string    `json:"outlook"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Objective is a node of the roadmap tree. Parent is empty for roots; Depth
// caches the distance from the root so linking can enforce the cap without
// unbounded walks.
type Objective struct {
	Address     string    `json:"address"`
	Roadmap     string    `json:"roadmap"`
	Parent      string    `json:"parent,omitempty"`
	ID          string    `json:"id"`
	Adder       string    `json:"adder"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	Description string    `json:"description"`
	Deliverable string    `json:"deliverable"`
	Depth       int       `json:"depth"`
	Pool        string    `json:"pool"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Grant records one grantee's stake on an objective.
type Grant struct {
	Address   string `json:"address"`
	Objective string `json:"objective"`
	Grantee   string `json:"grantee"`
	Amount    uint64 `json:"amount"`
	URI       string `json:"uri"`
}
