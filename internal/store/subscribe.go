package store

import (
	"encoding/json"
	"sync"
)

// SnapshotFunc receives the full current contents of a collection. A nil
// error means docs is authoritative as of this notification; a non-nil
// error means the snapshot read failed and docs is nil.
type SnapshotFunc func(docs []Document, err error)

// DocSnapshotFunc receives the current state of a single document.
type DocSnapshotFunc func(data json.RawMessage, exists bool, err error)

type subscription struct {
	fn    SnapshotFunc
	dirty chan struct{}
	quit  chan struct{}
	once  sync.Once
}

func (sub *subscription) stop() {
	sub.once.Do(func() { close(sub.quit) })
}

type docSubscription struct {
	fn    DocSnapshotFunc
	dirty chan struct{}
	quit  chan struct{}
	once  sync.Once
}

func (sub *docSubscription) stop() {
	sub.once.Do(func() { close(sub.quit) })
}

// Subscribe opens a live query on a collection. fn fires once with the
// current snapshot and again after every committed write. Notifications
// for one collection are delivered in order from a single goroutine, so
// a later snapshot always supersedes an earlier one. The returned cancel
// is idempotent; after it returns no further calls to fn are started,
// though one already in flight may still complete.
func (s *Store) Subscribe(collection string, fn SnapshotFunc) (cancel func()) {
	sub := &subscription{
		fn:    fn,
		dirty: make(chan struct{}, 1),
		quit:  make(chan struct{}),
	}
	sub.dirty <- struct{}{} // initial snapshot

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]*subscription)
	}
	s.subs[collection][id] = sub
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.quit:
				return
			case <-sub.dirty:
				docs, err := s.List(collection)
				select {
				case <-sub.quit:
					return
				default:
				}
				sub.fn(docs, err)
			}
		}
	}()

	return func() {
		s.mu.Lock()
		delete(s.subs[collection], id)
		s.mu.Unlock()
		sub.stop()
	}
}

// SubscribeDoc is Subscribe for a single document, used for the settings
// singleton.
func (s *Store) SubscribeDoc(collection, id string, fn DocSnapshotFunc) (cancel func()) {
	sub := &docSubscription{
		fn:    fn,
		dirty: make(chan struct{}, 1),
		quit:  make(chan struct{}),
	}
	sub.dirty <- struct{}{}

	key := docKey{collection: collection, id: id}
	s.mu.Lock()
	subID := s.nextSub
	s.nextSub++
	if s.docSubs[key] == nil {
		s.docSubs[key] = make(map[int]*docSubscription)
	}
	s.docSubs[key][subID] = sub
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.quit:
				return
			case <-sub.dirty:
				data, exists, err := s.GetDoc(collection, id)
				select {
				case <-sub.quit:
					return
				default:
				}
				sub.fn(data, exists, err)
			}
		}
	}()

	return func() {
		s.mu.Lock()
		delete(s.docSubs[key], subID)
		s.mu.Unlock()
		sub.stop()
	}
}

// notifyCollection marks every subscription on the collection dirty.
// Signals coalesce: a subscriber that is already dirty gets one fresh
// snapshot covering both writes.
func (s *Store) notifyCollection(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs[collection] {
		select {
		case sub.dirty <- struct{}{}:
		default:
		}
	}
}

func (s *Store) notifyDoc(collection, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.docSubs[docKey{collection: collection, id: id}] {
		select {
		case sub.dirty <- struct{}{}:
		default:
		}
	}
}
