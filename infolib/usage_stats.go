package infolib

import (
	"encoding/json"
	"sync"
	"time"
)

// UsageStats tracks how often a provider was asked and how often it
// has answered.
type UsageStats struct {
	Name string

	mutex        sync.Mutex
	lastUsed     time.Time
	lastSuccess  time.Time
	successCount uint64
	failureCount uint64
}

// Used records a result of a single lookup.
func (u *UsageStats) Used(err error) {
	now := time.Now()

	u.mutex.Lock()
	defer u.mutex.Unlock()

	u.lastUsed = now

	if err == nil {
		u.successCount++
		u.lastSuccess = now
	} else {
		u.failureCount++
	}
}

// Counters returns a number of successful and failed lookups.
func (u *UsageStats) Counters() (success, failure uint64) {
	u.mutex.Lock()
	defer u.mutex.Unlock()

	return u.successCount, u.failureCount
}

func (u *UsageStats) MarshalJSON() ([]byte, error) {
	var lastUsedTime, lastSuccessTime int64

	u.mutex.Lock()

	if !u.lastUsed.IsZero() {
		lastUsedTime = u.lastUsed.Unix()
	}

	if !u.lastSuccess.IsZero() {
		lastSuccessTime = u.lastSuccess.Unix()
	}

	rawStruct := struct {
		Name         string `json:"name"`
		LastUsed     int64  `json:"last_used"`
		LastSuccess  int64  `json:"last_success"`
		SuccessCount uint64 `json:"success_count"`
		FailureCount uint64 `json:"failure_count"`
	}{
		Name:         u.Name,
		LastUsed:     lastUsedTime,
		LastSuccess:  lastSuccessTime,
		SuccessCount: u.successCount,
		FailureCount: u.failureCount,
	}

	u.mutex.Unlock()

	return json.Marshal(&rawStruct)
}
