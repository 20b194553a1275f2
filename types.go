package defios

// Event is broadcast over the realtime channel after an instruction commits.
type Event struct {
	Type      string `json:"type"`
	Address   string `json:"address"`
	Signer    string `json:"signer,omitempty"`
	Amount    uint64 `json:"amount,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

const (
	EventRouterCreated     = "router.created"
	EventUserVerified      = "user.verified"
	EventRepositoryCreated = "repository.created"
	EventTokensUnlocked    = "tokens.unlocked"
	EventIssueCreated      = "issue.created"
	EventIssueStaked       = "issue.staked"
	EventIssueUnstaked     = "issue.unstaked"
	EventCommitCreated     = "commit.created"
	EventPullCreated       = "pull.created"
	EventPullStaked        = "pull.staked"
	EventPullUnstaked      = "pull.unstaked"
	EventPullAccepted      = "pull.accepted"
	EventRewardClaimed     = "reward.claimed"
	EventRoadmapCreated    = "roadmap.created"
	EventObjectiveCreated  = "objective.created"
	EventGrantStaked       = "grant.staked"
	EventGrantDispersed    = "grant.dispersed"
	EventPoolCreated       = "pool.created"
	EventTokensBought      = "tokens.bought"
	EventTokensSold        = "tokens.sold"
)

// WellKnownDefios describes a node for client discovery.
type WellKnownDefios struct {
	Version   string            `json:"version"`
	Domain    string            `json:"domain"`
	Authority string            `json:"authority"`
	Endpoints map[string]string `json:"endpoints"`
}

type ScheduleEntry struct {
	ReleaseTime int64  `json:"releaseTime"`
	Amount      uint64 `json:"amount"`
}

type CreateRouterRequest struct {
	SigningDomain    string `json:"signingDomain"`
	SignatureVersion uint64 `json:"signatureVersion"`
}

type AddVerifiedUserRequest struct {
	Username  string `json:"username"`
	Pubkey    string `json:"pubkey"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// TokenParams selects fresh-mint mode when present on CreateRepositoryRequest.
type TokenParams struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Metadata string `json:"metadata"`
}

type CreateRepositoryRequest struct {
	Router string       `json:"router"`
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	URI    string       `json:"uri"`
	Token  *TokenParams `json:"token,omitempty"`
	Mint   string       `json:"mint,omitempty"`
}

type ScheduleRequest struct {
	Entries []ScheduleEntry `json:"entries"`
}

type AddIssueRequest struct {
	Router string `json:"router"`
	URI    string `json:"uri"`
}

type StakeRequest struct {
	Amount uint64 `json:"amount"`
}

type AddCommitRequest struct {
	Router      string `json:"router"`
	CommitHash  string `json:"commitHash"`
	TreeHash    string `json:"treeHash"`
	MetadataURI string `json:"metadataUri"`
}

type AddPullRequestRequest struct {
	Router      string   `json:"router"`
	MetadataURI string   `json:"metadataUri"`
	Commits     []string `json:"commits,omitempty"`
}

type AttachCommitRequest struct {
	Router string `json:"router"`
	Commit string `json:"commit"`
}

type AcceptPullRequestRequest struct {
	Repository string `json:"repository"`
}

type AddRoadmapRequest struct {
	Router      string `json:"router"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Outlook     string `json:"outlook"`
}

type AddObjectiveRequest struct {
	Router      string `json:"router"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Start       int64  `json:"start"`
	Description string `json:"description"`
	Deliverable string `json:"deliverable"`
	Parent      string `json:"parent,omitempty"`
}

type LinkObjectiveRequest struct {
	Parent string `json:"parent"`
}

type GrantRequest struct {
	Router string `json:"router"`
	Amount uint64 `json:"amount"`
	URI    string `json:"uri"`
}

type DisperseRequest struct {
	Grantee string `json:"grantee"`
	Amount  uint64 `json:"amount"`
}

type SwapRequest struct {
	AmountIn uint64 `json:"amountIn"`
	MinOut   uint64 `json:"minOut"`
}

type SwapResponse struct {
	AmountOut uint64 `json:"amountOut"`
}
