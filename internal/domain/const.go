package domain

const (
	RequesterIdCtxKey = "defios-requesterId"
)

const (
	// EventChannel is the redis pub/sub channel carrying instruction events.
	EventChannel = "defios:events"

	// MaxObjectiveDepth bounds ancestor walks when linking objectives.
	MaxObjectiveDepth = 8
)

type PullRequestStatus string

const (
	PullRequestOpen     PullRequestStatus = "open"
	PullRequestAccepted PullRequestStatus = "accepted"
)
