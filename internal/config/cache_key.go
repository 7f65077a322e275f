package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// PublicMembersKey returns the cache key for the public member directory.
func (r *CacheKeyStruct) PublicMembersKey() string {
	return "public:members"
}

// PublicMemberKey returns the cache key for one public member detail page.
func (r *CacheKeyStruct) PublicMemberKey(memberID int) string {
	return fmt.Sprintf("public:member:%d", memberID)
}

// PublicEventsKey returns the cache key for a public event listing.
// kind is "upcoming", "past" or "all".
func (r *CacheKeyStruct) PublicEventsKey(kind string) string {
	return fmt.Sprintf("public:events:%s", kind)
}

// AdminActivityChannel returns the Redis PubSub channel for the back-office
// live activity feed.
func (r *CacheKeyStruct) AdminActivityChannel() string {
	return "admin:activity"
}

var CacheKey = NewCacheKeyStruct()
