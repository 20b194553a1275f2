package database

import (
	"github.com/bradfitz/gomemcache/memcache"
)

// NewMemcached opens the lookaside cache for verified-user checks.
func NewMemcached(server string) *memcache.Client {
	return memcache.New(server)
}
