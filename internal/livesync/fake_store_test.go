package livesync

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dkrauss/inkwell/internal/store"
)

// fakeStore is an in-memory document store with synchronous snapshot
// delivery, so tests observe notifications deterministically.
type fakeStore struct {
	mu      sync.Mutex
	nextID  int
	nextSub int
	docs    map[string][]fakeDoc // collection → ordered documents
	subs    map[string]map[int]store.SnapshotFunc
	docSubs map[string]map[int]store.DocSnapshotFunc

	holdSettings bool // suppress the initial settings delivery
	failUpdates  int  // number of Update calls to fail before succeeding
	failCreates  int
}

type fakeDoc struct {
	id   string
	data json.RawMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:    make(map[string][]fakeDoc),
		subs:    make(map[string]map[int]store.SnapshotFunc),
		docSubs: make(map[string]map[int]store.DocSnapshotFunc),
	}
}

func (f *fakeStore) Create(collection string, v any) (string, error) {
	f.mu.Lock()
	if f.failCreates > 0 {
		f.failCreates--
		f.mu.Unlock()
		return "", fmt.Errorf("simulated create failure")
	}
	data, err := json.Marshal(v)
	if err != nil {
		f.mu.Unlock()
		return "", err
	}
	f.nextID++
	id := fmt.Sprintf("doc-%d", f.nextID)
	f.docs[collection] = append(f.docs[collection], fakeDoc{id: id, data: data})
	f.mu.Unlock()
	f.notify(collection)
	return id, nil
}

func (f *fakeStore) Update(collection, id string, v any) error {
	f.mu.Lock()
	if f.failUpdates > 0 {
		f.failUpdates--
		f.mu.Unlock()
		return fmt.Errorf("simulated update failure")
	}
	data, err := json.Marshal(v)
	if err != nil {
		f.mu.Unlock()
		return err
	}
	for i, doc := range f.docs[collection] {
		if doc.id == id {
			f.docs[collection][i].data = data
			f.mu.Unlock()
			f.notify(collection)
			return nil
		}
	}
	f.mu.Unlock() // missing id absorbed, like the real store
	return nil
}

func (f *fakeStore) Delete(collection, id string) error {
	f.mu.Lock()
	kept := f.docs[collection][:0]
	removed := false
	for _, doc := range f.docs[collection] {
		if doc.id == id {
			removed = true
			continue
		}
		kept = append(kept, doc)
	}
	f.docs[collection] = kept
	f.mu.Unlock()
	if removed {
		f.notify(collection)
	}
	return nil
}

func (f *fakeStore) Merge(collection, id string, fields map[string]any) error {
	f.mu.Lock()
	current := make(map[string]any)
	idx := -1
	for i, doc := range f.docs[collection] {
		if doc.id == id {
			json.Unmarshal(doc.data, &current)
			idx = i
			break
		}
	}
	for k, v := range fields {
		current[k] = v
	}
	data, err := json.Marshal(current)
	if err != nil {
		f.mu.Unlock()
		return err
	}
	if idx >= 0 {
		f.docs[collection][idx].data = data
	} else {
		f.docs[collection] = append(f.docs[collection], fakeDoc{id: id, data: data})
	}
	f.mu.Unlock()
	f.notifyDoc(collection, id)
	f.notify(collection)
	return nil
}

func (f *fakeStore) BatchDelete(refs []store.DocRef) error {
	for _, ref := range refs {
		f.Delete(ref.Collection, ref.ID)
	}
	return nil
}

func (f *fakeStore) List(collection string) ([]store.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked(collection), nil
}

func (f *fakeStore) snapshotLocked(collection string) []store.Document {
	out := make([]store.Document, 0, len(f.docs[collection]))
	for _, doc := range f.docs[collection] {
		out = append(out, store.Document{ID: doc.id, Data: doc.data})
	}
	return out
}

func (f *fakeStore) Subscribe(collection string, fn store.SnapshotFunc) func() {
	f.mu.Lock()
	f.nextSub++
	id := f.nextSub
	if f.subs[collection] == nil {
		f.subs[collection] = make(map[int]store.SnapshotFunc)
	}
	f.subs[collection][id] = fn
	snapshot := f.snapshotLocked(collection)
	f.mu.Unlock()
	fn(snapshot, nil)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs[collection], id)
	}
}

func (f *fakeStore) SubscribeDoc(collection, id string, fn store.DocSnapshotFunc) func() {
	key := collection + "/" + id
	f.mu.Lock()
	f.nextSub++
	subID := f.nextSub
	if f.docSubs[key] == nil {
		f.docSubs[key] = make(map[int]store.DocSnapshotFunc)
	}
	f.docSubs[key][subID] = fn
	hold := f.holdSettings
	data, exists := f.findDocLocked(collection, id)
	f.mu.Unlock()
	if !hold {
		fn(data, exists, nil)
	}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.docSubs[key], subID)
	}
}

func (f *fakeStore) findDocLocked(collection, id string) (json.RawMessage, bool) {
	for _, doc := range f.docs[collection] {
		if doc.id == id {
			return doc.data, true
		}
	}
	return nil, false
}

func (f *fakeStore) notify(collection string) {
	f.mu.Lock()
	subs := make([]store.SnapshotFunc, 0, len(f.subs[collection]))
	for _, fn := range f.subs[collection] {
		subs = append(subs, fn)
	}
	snapshot := f.snapshotLocked(collection)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(snapshot, nil)
	}
}

func (f *fakeStore) notifyDoc(collection, id string) {
	key := collection + "/" + id
	f.mu.Lock()
	subs := make([]store.DocSnapshotFunc, 0, len(f.docSubs[key]))
	for _, fn := range f.docSubs[key] {
		subs = append(subs, fn)
	}
	data, exists := f.findDocLocked(collection, id)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(data, exists, nil)
	}
}

// failCollection pushes an error through every subscriber of the
// collection, as a lost-connectivity subscription would.
func (f *fakeStore) failCollection(collection string, err error) {
	f.mu.Lock()
	subs := make([]store.SnapshotFunc, 0, len(f.subs[collection]))
	for _, fn := range f.subs[collection] {
		subs = append(subs, fn)
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(nil, err)
	}
}

// releaseSettings delivers the settings snapshot held back by
// holdSettings.
func (f *fakeStore) releaseSettings() {
	f.notifyDoc(store.SettingsCollection, store.SettingsDocID)
}

// settingsSubscribers snapshots the current settings listeners so a test
// can deliver to them after their subscription was cancelled, like a
// notification already in flight when the listener shut down.
func (f *fakeStore) settingsSubscribers() []store.DocSnapshotFunc {
	key := store.SettingsCollection + "/" + store.SettingsDocID
	f.mu.Lock()
	defer f.mu.Unlock()
	subs := make([]store.DocSnapshotFunc, 0, len(f.docSubs[key]))
	for _, fn := range f.docSubs[key] {
		subs = append(subs, fn)
	}
	return subs
}
