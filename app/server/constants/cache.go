package constants

import "time"

const (
	CacheKeyUserByID       = "usuarios:user:id:%d"
	CacheKeyUserByUsername = "usuarios:user:username:%s"
	CacheKeyUserWriteLock  = "usuarios:user:writing:%d"
)

const (
	CacheExpireUser = 10 * time.Minute
	// Reads that started before a write and finish within this window
	// do not repopulate the cache.
	CacheExpireUserWriteLock = 30 * time.Second
)
