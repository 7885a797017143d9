package livesync

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkrauss/inkwell/internal/models"
	"github.com/dkrauss/inkwell/internal/store"
)

// ErrNotConfirmed blocks destructive bulk operations that were not
// explicitly confirmed by the user.
var ErrNotConfirmed = errors.New("destructive operation not confirmed")

// supplyWriteRetries bounds the retry loop inside FinalizeSupplyUsage.
const supplyWriteRetries = 3

// DocStore is the write surface of the document store.
type DocStore interface {
	Create(collection string, v any) (string, error)
	Update(collection, id string, v any) error
	Delete(collection, id string) error
	Merge(collection, id string, fields map[string]any) error
	BatchDelete(refs []store.DocRef) error
	List(collection string) ([]store.Document, error)
}

// Record is any document body that can validate itself before a write.
type Record interface {
	Validate() error
}

// Gateway issues writes to the document store. It never touches Manager
// state: a successful write becomes observable only through the next
// subscription notification, so a read of local state immediately after
// a write may be stale.
type Gateway struct {
	store DocStore
}

func NewGateway(st DocStore) *Gateway {
	return &Gateway{store: st}
}

// Create validates and submits a new document. The store assigns the id;
// the returned id is informational and the record itself surfaces via
// the next snapshot.
func (g *Gateway) Create(collection string, rec Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	id, err := g.store.Create(collection, rec)
	if err != nil {
		slog.Error("create failed", "collection", collection, "error", err)
		return "", err
	}
	return id, nil
}

// Update overwrites every field of the document at id. A missing id is
// absorbed by the store's own not-found semantics.
func (g *Gateway) Update(collection, id string, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := g.store.Update(collection, id, rec); err != nil {
		slog.Error("update failed", "collection", collection, "id", id, "error", err)
		return err
	}
	return nil
}

// Delete removes a document. Deleting a nonexistent id is a no-op.
func (g *Gateway) Delete(collection, id string) error {
	if err := g.store.Delete(collection, id); err != nil {
		slog.Error("delete failed", "collection", collection, "id", id, "error", err)
		return err
	}
	return nil
}

// SaveSettings merges only the fields the patch sets into the settings
// document; everything else keeps its stored value.
func (g *Gateway) SaveSettings(patch models.SettingsPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	if err := g.store.Merge(store.SettingsCollection, store.SettingsDocID, fields); err != nil {
		slog.Error("settings save failed", "error", err)
		return err
	}
	return nil
}

// ClearAll wipes every document in all six collections in one
// best-effort batch. The confirmation flag is a hard precondition: the
// wipe never runs without it.
func (g *Gateway) ClearAll(confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	var refs []store.DocRef
	for _, collection := range store.Collections {
		docs, err := g.store.List(collection)
		if err != nil {
			slog.Error("clear-all could not list collection", "collection", collection, "error", err)
			return err
		}
		for _, doc := range docs {
			refs = append(refs, store.DocRef{Collection: collection, ID: doc.ID})
		}
	}
	slog.Warn("clearing all collections", "documents", len(refs))
	return g.store.BatchDelete(refs)
}

// SupplyUsage records how much of one inventory item a completed booking
// consumed.
type SupplyUsage struct {
	Item     models.InventoryItem
	Quantity float64
}

// FinalizeSupplyUsage logs the supplies a completed booking consumed.
// For each entry with a positive quantity it appends a Supplies expense
// and decrements the inventory item, clamped so stock never goes
// negative. The two writes per entry are independent documents, so each
// is retried up to supplyWriteRetries times; if one side still fails the
// returned error names the partial state that was left behind.
func (g *Gateway) FinalizeSupplyUsage(booking models.Booking, usages []SupplyUsage) error {
	var errs []error
	for _, u := range usages {
		if u.Quantity <= 0 {
			continue
		}
		used := u.Quantity
		if used > u.Item.Quantity {
			used = u.Item.Quantity
		}

		expense := models.Expense{
			Date:        booking.BookingDate,
			Category:    models.ExpenseSupplies,
			Description: supplyDescription(booking, u.Item),
			Amount:      used * u.Item.Cost,
		}
		expenseErr := g.retry(func() error {
			_, err := g.store.Create(store.CollectionExpenses, &expense)
			return err
		})

		item := u.Item
		item.Quantity -= used
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		stockErr := g.retry(func() error {
			return g.store.Update(store.CollectionInventory, item.ID, &item)
		})

		switch {
		case expenseErr != nil && stockErr != nil:
			errs = append(errs, fmt.Errorf("item %s: neither expense nor stock recorded: %w", u.Item.Name, expenseErr))
		case expenseErr != nil:
			errs = append(errs, fmt.Errorf("item %s: stock decremented but expense not logged: %w", u.Item.Name, expenseErr))
		case stockErr != nil:
			errs = append(errs, fmt.Errorf("item %s: expense logged but stock not decremented: %w", u.Item.Name, stockErr))
		}
	}
	return errors.Join(errs...)
}

func (g *Gateway) retry(write func() error) error {
	var err error
	for attempt := 0; attempt < supplyWriteRetries; attempt++ {
		if err = write(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return err
}

func supplyDescription(booking models.Booking, item models.InventoryItem) string {
	desc := fmt.Sprintf("Supplies for booking %s (%s): %s", booking.Name, booking.BookingDate.Format("2006-01-02"), item.Name)
	if item.LotNumber != "" {
		desc += fmt.Sprintf(", %s lot %s", item.Brand, item.LotNumber)
	}
	return desc
}
