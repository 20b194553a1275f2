package repository

import (
	"context"
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/zeebo/xxh3"

	"github.com/defios/defios/internal/domain"
)

// CachedIdentityRepository wraps IdentityRepository with a memcached
// lookaside on the verified-user gate, which runs on every
// verified-creator instruction. Only positive results are cached: a user
// can become verified at any moment, but never unverified.
type CachedIdentityRepository struct {
	*IdentityRepository
	mc *memcache.Client
}

func NewCachedIdentityRepository(inner *IdentityRepository, mc *memcache.Client) *CachedIdentityRepository {
	return &CachedIdentityRepository{IdentityRepository: inner, mc: mc}
}

// verifiedCacheKey hashes the pair down to a fixed-size key; memcached caps
// keys at 250 bytes and usernames/addresses are caller-controlled.
func verifiedCacheKey(router, pubkey string) string {
	sum := xxh3.HashString(router + "\x00" + pubkey)
	return fmt.Sprintf("defios:verified:%016x", sum)
}

func (r *CachedIdentityRepository) IsVerified(ctx context.Context, router, pubkey string) (bool, error) {
	key := verifiedCacheKey(router, pubkey)
	if _, err := r.mc.Get(key); err == nil {
		return true, nil
	}

	ok, err := r.IdentityRepository.IsVerified(ctx, router, pubkey)
	if err != nil || !ok {
		return ok, err
	}

	// Best effort; the database remains authoritative.
	_ = r.mc.Set(&memcache.Item{Key: key, Value: []byte{1}, Expiration: 600})
	return true, nil
}

func (r *CachedIdentityRepository) CreateVerifiedUser(ctx context.Context, user domain.VerifiedUser) error {
	err := r.IdentityRepository.CreateVerifiedUser(ctx, user)
	if err == nil {
		_ = r.mc.Set(&memcache.Item{
			Key:        verifiedCacheKey(user.Router, user.Pubkey),
			Value:      []byte{1},
			Expiration: 600,
		})
	}
	return err
}
