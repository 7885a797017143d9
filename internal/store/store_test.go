package store

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Migrate("../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type testDoc struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCreateAndList(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Create(CollectionInventory, testDoc{Name: "Black ink", Count: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected store-assigned id")
	}

	docs, err := s.List(CollectionInventory)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != id {
		t.Fatalf("unexpected snapshot %+v", docs)
	}

	var got testDoc
	if err := json.Unmarshal(docs[0].Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Black ink" || got.Count != 3 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestUpdateMissingIDIsAbsorbed(t *testing.T) {
	s := newTestStore(t)

	if err := s.Update(CollectionBookings, "no-such-id", testDoc{Name: "x"}); err != nil {
		t.Fatalf("update of missing id must not error: %v", err)
	}
	docs, err := s.List(CollectionBookings)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("missing-id update must not create documents: %+v", docs)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Create(CollectionExpenses, testDoc{Name: "rent"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(CollectionExpenses, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Second delete of the same id, and a delete of a never-existing id.
	if err := s.Delete(CollectionExpenses, id); err != nil {
		t.Fatalf("repeat delete must be a no-op: %v", err)
	}
	if err := s.Delete(CollectionExpenses, "ghost"); err != nil {
		t.Fatalf("delete of unknown id must be a no-op: %v", err)
	}

	docs, _ := s.List(CollectionExpenses)
	if len(docs) != 0 {
		t.Fatalf("expected empty collection, got %+v", docs)
	}
}

func TestMergeKeepsUnnamedFields(t *testing.T) {
	s := newTestStore(t)

	if err := s.Merge(SettingsCollection, SettingsDocID, map[string]any{
		"company_name":  "Inkwell Studio",
		"contact_email": "hello@inkwell.example",
	}); err != nil {
		t.Fatalf("initial merge: %v", err)
	}
	if err := s.Merge(SettingsCollection, SettingsDocID, map[string]any{
		"contact_email": "bookings@inkwell.example",
	}); err != nil {
		t.Fatalf("partial merge: %v", err)
	}

	data, exists, err := s.GetDoc(SettingsCollection, SettingsDocID)
	if err != nil || !exists {
		t.Fatalf("get settings: exists=%v err=%v", exists, err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fields["company_name"] != "Inkwell Studio" {
		t.Fatalf("unnamed field lost: %v", fields)
	}
	if fields["contact_email"] != "bookings@inkwell.example" {
		t.Fatalf("named field not merged: %v", fields)
	}
}

func collectSnapshots(t *testing.T, s *Store, collection string) (<-chan []Document, func()) {
	t.Helper()
	ch := make(chan []Document, 16)
	cancel := s.Subscribe(collection, func(docs []Document, err error) {
		if err != nil {
			t.Errorf("snapshot error: %v", err)
			return
		}
		ch <- docs
	})
	return ch, cancel
}

func recvSnapshot(t *testing.T, ch <-chan []Document) []Document {
	t.Helper()
	select {
	case docs := <-ch:
		return docs
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeSeesEveryWrite(t *testing.T) {
	s := newTestStore(t)

	ch, cancel := collectSnapshots(t, s, CollectionPortfolio)
	defer cancel()

	if docs := recvSnapshot(t, ch); len(docs) != 0 {
		t.Fatalf("initial snapshot should be empty, got %+v", docs)
	}

	id, err := s.Create(CollectionPortfolio, testDoc{Name: "rose"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if docs := recvSnapshot(t, ch); len(docs) != 1 || docs[0].ID != id {
		t.Fatalf("create not reflected: %+v", docs)
	}

	if err := s.Update(CollectionPortfolio, id, testDoc{Name: "rose, reworked"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	docs := recvSnapshot(t, ch)
	var got testDoc
	json.Unmarshal(docs[0].Data, &got)
	if got.Name != "rose, reworked" {
		t.Fatalf("update not reflected: %+v", got)
	}

	if err := s.Delete(CollectionPortfolio, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if docs := recvSnapshot(t, ch); len(docs) != 0 {
		t.Fatalf("delete not reflected: %+v", docs)
	}

	// After all notifications drained, the snapshot matches the store.
	stored, _ := s.List(CollectionPortfolio)
	if len(stored) != 0 {
		t.Fatalf("store and snapshot disagree: %+v", stored)
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	s := newTestStore(t)

	var mu sync.Mutex
	count := 0
	first := make(chan struct{})
	cancel := s.Subscribe(CollectionSpecials, func(docs []Document, err error) {
		mu.Lock()
		count++
		if count == 1 {
			close(first)
		}
		mu.Unlock()
	})

	<-first
	cancel()
	cancel() // idempotent

	if _, err := s.Create(CollectionSpecials, testDoc{Name: "flash"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Fatalf("cancelled subscription still delivered, count=%d", count)
	}
}

func TestSubscribeDocSingleton(t *testing.T) {
	s := newTestStore(t)

	type state struct {
		data   json.RawMessage
		exists bool
	}
	ch := make(chan state, 16)
	cancel := s.SubscribeDoc(SettingsCollection, SettingsDocID, func(data json.RawMessage, exists bool, err error) {
		if err != nil {
			t.Errorf("doc snapshot error: %v", err)
			return
		}
		ch <- state{data: data, exists: exists}
	})
	defer cancel()

	select {
	case st := <-ch:
		if st.exists {
			t.Fatalf("settings should not exist yet")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for initial doc snapshot")
	}

	if err := s.Merge(SettingsCollection, SettingsDocID, map[string]any{"company_name": "Inkwell"}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	select {
	case st := <-ch:
		if !st.exists {
			t.Fatalf("settings should exist after merge")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for merged doc snapshot")
	}
}

func TestBatchDeleteClearsEverything(t *testing.T) {
	s := newTestStore(t)

	var refs []DocRef
	for _, collection := range Collections {
		id, err := s.Create(collection, testDoc{Name: collection})
		if err != nil {
			t.Fatalf("create in %s: %v", collection, err)
		}
		refs = append(refs, DocRef{Collection: collection, ID: id})
	}
	// Unknown ids are absorbed, not fatal.
	refs = append(refs, DocRef{Collection: CollectionBookings, ID: "ghost"})

	if err := s.BatchDelete(refs); err != nil {
		t.Fatalf("batch delete: %v", err)
	}
	for _, collection := range Collections {
		docs, _ := s.List(collection)
		if len(docs) != 0 {
			t.Fatalf("%s not cleared: %+v", collection, docs)
		}
	}
}

func TestConcurrentUpdatesLastWriteWinsWhole(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Create(CollectionBookings, testDoc{Name: "a", Count: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first := testDoc{ID: id, Name: "first", Count: 10}
	second := testDoc{ID: id, Name: "second", Count: 20}

	var wg sync.WaitGroup
	for _, doc := range []testDoc{first, second} {
		wg.Add(1)
		go func(d testDoc) {
			defer wg.Done()
			if err := s.Update(CollectionBookings, id, d); err != nil {
				t.Errorf("update: %v", err)
			}
		}(doc)
	}
	wg.Wait()

	docs, _ := s.List(CollectionBookings)
	var got testDoc
	json.Unmarshal(docs[0].Data, &got)
	// Whichever write landed last, the document is one whole body,
	// never a field-level mix of the two.
	if !reflect.DeepEqual(got, first) && !reflect.DeepEqual(got, second) {
		t.Fatalf("document is a partial merge of concurrent writes: %+v", got)
	}
}

func TestMigrateProvisionsUserStorage(t *testing.T) {
	// The migrations are the only schema source; the cli seeds users
	// through them before the server ever runs.
	s := newTestStore(t)

	if err := s.CreateUser("juliette", "hashed-secret"); err != nil {
		t.Fatalf("create user on migrated schema: %v", err)
	}
	user, err := s.GetUserByUsername("juliette")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user == nil || user.Password != "hashed-secret" {
		t.Fatalf("unexpected user row: %+v", user)
	}

	missing, err := s.GetUserByUsername("nobody")
	if err != nil || missing != nil {
		t.Fatalf("missing user must be nil, nil; got %+v, %v", missing, err)
	}
}
