package defios

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// ProgramID namespaces every derived address. Changing it moves every
// account, so it is part of the protocol's compatibility surface.
const ProgramID = "defios-protocol-v1"

// Derive computes a program-derived account address from seeds. Each seed is
// length-prefixed so adjacent seeds cannot collide across boundaries.
func Derive(seeds ...[]byte) string {
	h := sha3.New256()
	h.Write([]byte(ProgramID))
	var lenbuf [4]byte
	for _, seed := range seeds {
		binary.BigEndian.PutUint32(lenbuf[:], uint32(len(seed)))
		h.Write(lenbuf[:])
		h.Write(seed)
	}
	sum := h.Sum(nil)
	return derivedPrefix + hex.EncodeToString(sum[:20])
}

func u64seed(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

// RouterAddress derives the identity router account for a trust domain.
// Seeds: [signingDomain, signatureVersion, creator].
func RouterAddress(signingDomain string, signatureVersion uint64, creator string) string {
	return Derive([]byte(signingDomain), u64seed(signatureVersion), []byte(creator))
}

// VerifiedUserAddress derives a verified (username, pubkey) record under a
// router.
func VerifiedUserAddress(router, username, pubkey string) string {
	return Derive([]byte("user"), []byte(router), []byte(username), []byte(pubkey))
}

// RepositoryAddress derives a repository account.
func RepositoryAddress(id, creator string) string {
	return Derive([]byte("repository"), []byte(id), []byte(creator))
}

// MintAddress derives the reward mint created for a fresh-mint repository.
func MintAddress(repository string) string {
	return Derive([]byte("mint"), []byte(repository))
}

// VestingAddress derives the vesting state account of a repository.
func VestingAddress(repository string) string {
	return Derive([]byte("vesting"), []byte(repository))
}

// VestingPoolAddress derives the token account custodying a repository
// creator's unvested allocation.
func VestingPoolAddress(repository string) string {
	return Derive([]byte("vesting_pool"), []byte(repository))
}

// DefaultScheduleAddress derives the singleton default vesting schedule.
func DefaultScheduleAddress() string {
	return Derive([]byte("schedule"), []byte("default"))
}

// ScheduleAddress derives a repository-specific vesting schedule.
func ScheduleAddress(repository string) string {
	return Derive([]byte("schedule"), []byte(repository))
}

// IssueAddress derives an issue account.
// Seeds: ["issue", index, repository, creator].
func IssueAddress(index uint64, repository, creator string) string {
	return Derive([]byte("issue"), u64seed(index), []byte(repository), []byte(creator))
}

// PoolAddress derives the token pool backing an issue or pull request.
func PoolAddress(target string) string {
	return Derive([]byte("pool"), []byte(target))
}

// StakeAddress derives the per-staker stake record on an issue or pull
// request.
func StakeAddress(target, staker string) string {
	return Derive([]byte("stake"), []byte(target), []byte(staker))
}

// CommitAddress derives a commit record. The (hash, creator, issue) seeds
// make same-hash commits collide per author per issue.
func CommitAddress(commitHash, creator, issue string) string {
	return Derive([]byte("commit"), []byte(commitHash), []byte(creator), []byte(issue))
}

// PullRequestAddress derives a pull request account.
func PullRequestAddress(issue, creator string) string {
	return Derive([]byte("pullrequest"), []byte(issue), []byte(creator))
}

// RoadmapAddress derives the roadmap metadata root of a repository/adder
// pair.
func RoadmapAddress(repository, adder string) string {
	return Derive([]byte("roadmap"), []byte(repository), []byte(adder))
}

// ObjectiveAddress derives an objective account under a roadmap.
func ObjectiveAddress(id, adder, roadmap string) string {
	return Derive([]byte("objective"), []byte(id), []byte(adder), []byte(roadmap))
}

// GrantAddress derives the grantee record on an objective.
func GrantAddress(objective, grantee string) string {
	return Derive([]byte("grant"), []byte(objective), []byte(grantee))
}

// ObjectivePoolAddress derives the token account holding an objective's
// grant stake.
func ObjectivePoolAddress(objective string) string {
	return Derive([]byte("objective_pool"), []byte(objective))
}

// CommunalAddress derives the communal pool for a reward mint. The seed
// constants are fixed so the pool is globally discoverable per mint.
func CommunalAddress(mint string) string {
	return Derive([]byte("communal"), []byte(mint))
}

// CommunalPoolAddress derives one of the communal pool's two token accounts.
// side is "reward" or "quote".
func CommunalPoolAddress(mint, side string) string {
	return Derive([]byte("communal_pool"), []byte(mint), []byte(side))
}

// AuthorityAddress derives the program signing authority that owns every
// pool, vesting, and communal token account.
func AuthorityAddress() string {
	return Derive([]byte("authority"))
}

// TokenAccountAddress derives a wallet-owned token account for a mint.
func TokenAccountAddress(mint, owner string) string {
	return Derive([]byte("token"), []byte(mint), []byte(owner))
}
