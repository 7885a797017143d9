// Package livesync keeps an in-memory snapshot of every collection in
// step with the document store. The Manager owns the application's only
// persistent listeners; the Gateway issues writes that become visible to
// the rest of the application strictly through the Manager's next
// notification, never through a local state update.
package livesync

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dkrauss/inkwell/internal/models"
	"github.com/dkrauss/inkwell/internal/store"
)

// LiveStore is the subscription surface of the document store.
type LiveStore interface {
	Subscribe(collection string, fn store.SnapshotFunc) (cancel func())
	SubscribeDoc(collection, id string, fn store.DocSnapshotFunc) (cancel func())
}

// NotifyFunc surfaces a subscription failure to the user. The view layer
// renders it as a blocking banner; it must not panic.
type NotifyFunc func(err error)

// Manager holds the live snapshot of each collection plus the settings
// singleton. Snapshots are replaced wholesale on every notification; the
// Manager never merges incrementally and never writes to the store.
type Manager struct {
	store  LiveStore
	notify NotifyFunc

	mu      sync.RWMutex
	stopped bool
	cancels []func()

	portfolio []models.PortfolioItem
	showroom  []models.ShowroomGenre
	specials  []models.SpecialItem
	bookings  []models.Booking
	expenses  []models.Expense
	inventory []models.InventoryItem

	settings      models.SiteSettings
	settingsReady bool
}

func NewManager(st LiveStore, notify NotifyFunc) *Manager {
	return &Manager{store: st, notify: notify}
}

// Start opens one subscription per collection plus one for the settings
// document. Calling Start on a stopped Manager is a no-op.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.stopped || len(m.cancels) > 0 {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	cancels := []func(){
		watch(m, store.CollectionPortfolio, func(m *Manager, items []models.PortfolioItem) { m.portfolio = items }),
		watch(m, store.CollectionShowroom, func(m *Manager, items []models.ShowroomGenre) { m.showroom = items }),
		watch(m, store.CollectionSpecials, func(m *Manager, items []models.SpecialItem) { m.specials = items }),
		watch(m, store.CollectionBookings, func(m *Manager, items []models.Booking) { m.bookings = items }),
		watch(m, store.CollectionExpenses, func(m *Manager, items []models.Expense) { m.expenses = items }),
		watch(m, store.CollectionInventory, func(m *Manager, items []models.InventoryItem) { m.inventory = items }),
		m.watchSettings(),
	}

	m.mu.Lock()
	if m.stopped {
		// Stop raced Start; release what was just opened.
		m.mu.Unlock()
		for _, cancel := range cancels {
			cancel()
		}
		return
	}
	m.cancels = cancels
	m.mu.Unlock()
}

// Stop releases every subscription. Idempotent; once it returns, no
// further state update is applied, even for a notification already in
// flight.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancels := m.cancels
	m.cancels = nil
	m.stopped = true
	m.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Loading reports whether the first settings notification is still
// outstanding. The six collection subscriptions do not gate this, so a
// page can render with empty collections for a moment.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.settingsReady
}

// Accessors return deep copies down to the nested slices, so a caller
// mutating the result can never write through to the live snapshot.

func (m *Manager) Portfolio() []models.PortfolioItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.portfolio)
	for i := range out {
		out[i].GalleryImages = slices.Clone(out[i].GalleryImages)
	}
	return out
}

func (m *Manager) Showroom() []models.ShowroomGenre {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.showroom)
	for i := range out {
		out[i].Items = slices.Clone(out[i].Items)
		for j := range out[i].Items {
			out[i].Items[j].Images = slices.Clone(out[i].Items[j].Images)
		}
	}
	return out
}

func (m *Manager) Specials() []models.SpecialItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.specials)
	for i := range out {
		out[i].Details = slices.Clone(out[i].Details)
	}
	return out
}

func (m *Manager) Bookings() []models.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.bookings)
	for i := range out {
		out[i].ReferenceImages = slices.Clone(out[i].ReferenceImages)
	}
	return out
}

func (m *Manager) Expenses() []models.Expense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.expenses)
}

func (m *Manager) Inventory() []models.InventoryItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.inventory)
}

func (m *Manager) Settings() models.SiteSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.settings
	s.SocialLinks = slices.Clone(s.SocialLinks)
	return s
}

// watch subscribes to one collection and replaces its snapshot on every
// notification. apply runs with the state lock held.
func watch[T any](m *Manager, collection string, apply func(m *Manager, items []T)) func() {
	return m.store.Subscribe(collection, func(docs []store.Document, err error) {
		if err != nil {
			m.report(fmt.Errorf("subscription to %s failed: %w", collection, err))
			return
		}
		items := make([]T, 0, len(docs))
		for _, doc := range docs {
			v, err := decodeDoc[T](doc)
			if err != nil {
				m.report(fmt.Errorf("decode %s/%s: %w", collection, doc.ID, err))
				return
			}
			items = append(items, v)
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.stopped {
			return
		}
		apply(m, items)
	})
}

func (m *Manager) watchSettings() func() {
	return m.store.SubscribeDoc(store.SettingsCollection, store.SettingsDocID, func(data json.RawMessage, exists bool, err error) {
		if err != nil {
			// The page still renders; an errored settings load ends the
			// loading state with defaults in place.
			m.mu.Lock()
			if m.stopped {
				m.mu.Unlock()
				return
			}
			m.settingsReady = true
			m.mu.Unlock()
			m.report(fmt.Errorf("settings subscription failed: %w", err))
			return
		}
		var settings models.SiteSettings
		if exists {
			if err := json.Unmarshal(data, &settings); err != nil {
				m.report(fmt.Errorf("decode settings: %w", err))
				return
			}
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.stopped {
			return
		}
		m.settings = settings
		m.settingsReady = true
	})
}

// report surfaces a subscription error without stopping any listener.
func (m *Manager) report(err error) {
	slog.Error("live sync error", "error", err)
	if m.notify != nil {
		m.notify(err)
	}
}

// decodeDoc unmarshals a document body and stamps the authoritative
// store id over whatever the body carried.
func decodeDoc[T any](doc store.Document) (T, error) {
	var v T
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc.Data, &fields); err != nil {
		return v, err
	}
	idJSON, _ := json.Marshal(doc.ID)
	fields["id"] = idJSON
	merged, err := json.Marshal(fields)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(merged, &v); err != nil {
		return v, err
	}
	return v, nil
}
