package store

import (
	"database/sql"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Collection names. Every document in the system lives in one of these
// or in the settings singleton.
const (
	CollectionPortfolio = "portfolio"
	CollectionShowroom  = "showroom"
	CollectionSpecials  = "specials"
	CollectionBookings  = "bookings"
	CollectionExpenses  = "expenses"
	CollectionInventory = "inventory"

	SettingsCollection = "settings"
	SettingsDocID      = "site"
)

// Collections lists the six data collections, excluding the settings
// singleton.
var Collections = []string{
	CollectionPortfolio,
	CollectionShowroom,
	CollectionSpecials,
	CollectionBookings,
	CollectionExpenses,
	CollectionInventory,
}

// Store is the document database. Documents are JSON bodies keyed by
// (collection, id); subscribers receive a full collection snapshot after
// every committed write.
type Store struct {
	DB *sql.DB

	mu      sync.Mutex
	nextSub int
	subs    map[string]map[int]*subscription
	docSubs map[docKey]map[int]*docSubscription
}

type docKey struct {
	collection string
	id         string
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &Store{
		DB:      db,
		subs:    make(map[string]map[int]*subscription),
		docSubs: make(map[docKey]map[int]*docSubscription),
	}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	for _, subs := range s.subs {
		for _, sub := range subs {
			sub.stop()
		}
	}
	for _, subs := range s.docSubs {
		for _, sub := range subs {
			sub.stop()
		}
	}
	s.subs = make(map[string]map[int]*subscription)
	s.docSubs = make(map[docKey]map[int]*docSubscription)
	s.mu.Unlock()
	return s.DB.Close()
}
