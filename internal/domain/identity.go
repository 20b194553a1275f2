package domain

import "time"

// Router anchors a trust domain: the creator's key attests every verified
// user created under it.
type Router struct {
	Address           string    `json:"address"`
	SigningDomain     string    `json:"signingDomain"`
	SignatureVersion  uint64    `json:"signatureVersion"`
	Creator           string    `json:"creator"`
	VerifiedUserCount uint64    `json:"verifiedUserCount"`
	CreatedAt         time.Time `json:"createdAt"`
}

// VerifiedUser is an attested (username, pubkey) pair. Existence implies the
// attestation signature was checked at creation; the record never mutates.
type VerifiedUser struct {
	Address   string    `json:"address"`
	Router    string    `json:"router"`
	Username  string    `json:"username"`
	Pubkey    string    `json:"pubkey"`
	CreatedAt time.Time `json:"createdAt"`
}
