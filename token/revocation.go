package token

import (
	"sync"
	"time"
)

// RevocationList holds the jti of access tokens logged out before their exp.
// An entry is dropped once its token would have expired anyway.
type RevocationList struct {
	mu    sync.Mutex
	until map[string]time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{until: make(map[string]time.Time)}
}

// Revoke records jti until exp. An empty jti is ignored.
func (l *RevocationList) Revoke(jti string, exp time.Time) {
	if jti == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.until[jti] = exp
}

// Revoked reports whether jti is revoked at now, pruning lapsed entries.
func (l *RevocationList) Revoked(jti string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, exp := range l.until {
		if now.After(exp) {
			delete(l.until, id)
		}
	}
	_, ok := l.until[jti]
	return ok && jti != ""
}

// Len is the number of live entries.
func (l *RevocationList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.until)
}
