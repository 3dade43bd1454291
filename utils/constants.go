// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// SlotLockPrefix is the prefix for per-(schedule,date) booking locks.
const SlotLockPrefix = "slotlock:"

// SlotLockTTL bounds how long a booking request may hold a slot lock.
const SlotLockTTL = 5 * time.Second

// CheckInEarlyWindow is how early before class start a member may check in.
const CheckInEarlyWindow = 30 * time.Minute
