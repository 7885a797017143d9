package handlers

import "sync"

// SyncBanner holds the most recent live-sync failure so the next page
// render can surface it as a blocking banner. The message is delivered
// once: Take clears it.
type SyncBanner struct {
	mu  sync.Mutex
	msg string
}

// Set records a failure message, replacing any unseen one.
func (b *SyncBanner) Set(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msg = msg
}

// Take returns the pending message, if any, and clears it.
func (b *SyncBanner) Take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg := b.msg
	b.msg = ""
	return msg
}
