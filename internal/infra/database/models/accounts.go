package models

import (
	"time"
)

type Router struct {
	Address           string    `json:"address" gorm:"primaryKey;type:text"`
	SigningDomain     string    `json:"signingDomain" gorm:"type:text;not null"`
	SignatureVersion  uint64    `json:"signatureVersion" gorm:"not null"`
	Creator           string    `json:"creator" gorm:"type:text;index;not null"`
	VerifiedUserCount uint64    `json:"verifiedUserCount" gorm:"not null;default:0"`
	CDate             time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type VerifiedUser struct {
	Address string `json:"address" gorm:"primaryKey;type:text"`
	Router  string `json:"router" gorm:"type:text;index:idx_verified_router_pubkey;not null"`
	// Pubkey shares the composite index so the verified-creator gate is one
	// indexed lookup.
	Pubkey   string    `json:"pubkey" gorm:"type:text;index:idx_verified_router_pubkey;not null"`
	Username string    `json:"username" gorm:"type:text;not null"`
	CDate    time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Repository struct {
	Address    string    `json:"address" gorm:"primaryKey;type:text"`
	RepoID     string    `json:"id" gorm:"type:text;not null"`
	Title      string    `json:"title" gorm:"type:text"`
	URI        string    `json:"uri" gorm:"type:text"`
	Creator    string    `json:"creator" gorm:"type:text;index;not null"`
	Mint       string    `json:"mint" gorm:"type:text;index;not null"`
	IssueIndex uint64    `json:"issueIndex" gorm:"not null;default:0"`
	CDate      time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Mint struct {
	Address   string `json:"address" gorm:"primaryKey;type:text"`
	Authority string `json:"authority" gorm:"type:text"`
	Supply    uint64 `json:"supply" gorm:"not null;default:0"`
	Imported  bool   `json:"imported" gorm:"not null;default:false"`
	Name      string `json:"name" gorm:"type:text"`
	Image     string `json:"image" gorm:"type:text"`
	Metadata  string `json:"metadata" gorm:"type:text"`
}

type VestingSchedule struct {
	Address   string `json:"address" gorm:"primaryKey;type:text"`
	Authority string `json:"authority" gorm:"type:text;not null"`
	// Entries is the ordered release table as JSON.
	Entries string `json:"entries" gorm:"type:text;not null"`
}

type VestingAccount struct {
	Address    string `json:"address" gorm:"primaryKey;type:text"`
	Repository string `json:"repository" gorm:"type:text;uniqueIndex;not null"`
	Schedule   string `json:"schedule" gorm:"type:text;not null"`
	Pool       string `json:"pool" gorm:"type:text;not null"`
	Released   uint64 `json:"released" gorm:"not null;default:0"`
}

type Issue struct {
	Address    string    `json:"address" gorm:"primaryKey;type:text"`
	Repository string    `json:"repository" gorm:"type:text;index;not null"`
	Index      uint64    `json:"index" gorm:"not null"`
	URI        string    `json:"uri" gorm:"type:text"`
	Creator    string    `json:"creator" gorm:"type:text;index;not null"`
	Pool       string    `json:"pool" gorm:"type:text;not null"`
	Closed     bool      `json:"closed" gorm:"not null;default:false"`
	CDate      time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

// Staker covers both issue-level and pull-request-level stake records; the
// target address disambiguates.
type Staker struct {
	Address string `json:"address" gorm:"primaryKey;type:text"`
	Target  string `json:"target" gorm:"type:text;index;not null"`
	Staker  string `json:"staker" gorm:"type:text;index;not null"`
	Amount  uint64 `json:"amount" gorm:"not null;default:0"`
}

type Commit struct {
	Address     string    `json:"address" gorm:"primaryKey;type:text"`
	Issue       string    `json:"issue" gorm:"type:text;index;not null"`
	CommitHash  string    `json:"commitHash" gorm:"type:text;not null"`
	TreeHash    string    `json:"treeHash" gorm:"type:text"`
	MetadataURI string    `json:"metadataUri" gorm:"type:text"`
	Creator     string    `json:"creator" gorm:"type:text;index;not null"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type PullRequest struct {
	Address     string    `json:"address" gorm:"primaryKey;type:text"`
	Issue       string    `json:"issue" gorm:"type:text;index;not null"`
	Creator     string    `json:"creator" gorm:"type:text;index;not null"`
	MetadataURI string    `json:"metadataUri" gorm:"type:text"`
	Status      string    `json:"status" gorm:"type:text;not null;default:'open'"`
	Claimed     bool      `json:"claimed" gorm:"not null;default:false"`
	Pool        string    `json:"pool" gorm:"type:text;not null"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type PullRequestCommit struct {
	PullRequest string `json:"pullRequest" gorm:"type:text;primaryKey"`
	Commit      string `json:"commit" gorm:"type:text;primaryKey"`
}

type Roadmap struct {
	Address     string    `json:"address" gorm:"primaryKey;type:text"`
	Repository  string    `json:"repository" gorm:"type:text;index;not null"`
	Adder       string    `json:"adder" gorm:"type:text;not null"`
	Title       string    `json:"title" gorm:"type:text"`
	Description string    `json:"description" gorm:"type:text"`
	Outlook     string    `json:"outlook" gorm:"type:text"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Objective struct {
	Address     string    `json:"address" gorm:"primaryKey;type:text"`
	Roadmap     string    `json:"roadmap" gorm:"type:text;index;not null"`
	Parent      string    `json:"parent" gorm:"type:text;index"`
	ObjectiveID string    `json:"id" gorm:"type:text;not null"`
	Adder       string    `json:"adder" gorm:"type:text;not null"`
	Title       string    `json:"title" gorm:"type:text"`
	Start       time.Time `json:"start" gorm:"type:timestamp with time zone"`
	Description string    `json:"description" gorm:"type:text"`
	Deliverable string    `json:"deliverable" gorm:"type:text"`
	Depth       int       `json:"depth" gorm:"not null;default:0"`
	Pool        string    `json:"pool" gorm:"type:text;not null"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Grant struct {
	Address   string `json:"address" gorm:"primaryKey;type:text"`
	Objective string `json:"objective" gorm:"type:text;index;not null"`
	Grantee   string `json:"grantee" gorm:"type:text;index;not null"`
	Amount    uint64 `json:"amount" gorm:"not null;default:0"`
	URI       string `json:"uri" gorm:"type:text"`
}

type CommunalPool struct {
	Address    string `json:"address" gorm:"primaryKey;type:text"`
	Mint       string `json:"mint" gorm:"type:text;uniqueIndex;not null"`
	QuoteMint  string `json:"quoteMint" gorm:"type:text;not null"`
	RewardPool string `json:"rewardPool" gorm:"type:text;not null"`
	QuotePool  string `json:"quotePool" gorm:"type:text;not null"`
	Authority  string `json:"authority" gorm:"type:text;not null"`
}

type TokenAccount struct {
	Address string `json:"address" gorm:"primaryKey;type:text"`
	Mint    string `json:"mint" gorm:"type:text;index;not null"`
	Owner   string `json:"owner" gorm:"type:text;index;not null"`
	Balance uint64 `json:"balance" gorm:"not null;default:0"`
}
