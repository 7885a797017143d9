package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dkrauss/inkwell/internal/finance"
	"github.com/dkrauss/inkwell/internal/models"
	"github.com/dkrauss/inkwell/internal/store"
)

// ListExpenses shows the expense ledger with a monthly summary for the
// selected year.
func (h *AdminHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		year = time.Now().Year()
	}
	bookings := h.Live.Bookings()
	expenses := h.Live.Expenses()

	h.render(w, r, "admin_expenses.html", map[string]interface{}{
		"Expenses": expenses,
		"Year":     year,
		"Trend":    finance.Trend(bookings, expenses, year),
	})
}

func (h *AdminHandler) SaveExpense(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", r.FormValue("date"))
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Expense date is required.", "/admin/expenses")
		return
	}
	amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid amount.", "/admin/expenses")
		return
	}

	id := r.FormValue("id")
	expense := models.Expense{
		ID:          id,
		Date:        date,
		Category:    models.ExpenseCategory(r.FormValue("category")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Amount:      amount,
	}

	if id == "" {
		_, err = h.Gateway.Create(store.CollectionExpenses, &expense)
	} else {
		err = h.Gateway.Update(store.CollectionExpenses, id, &expense)
	}
	if err != nil {
		h.flashAndRedirect(w, r, "error", err.Error(), "/admin/expenses")
		return
	}
	h.flashAndRedirect(w, r, "success", "Expense saved.", "/admin/expenses")
}

func (h *AdminHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Gateway.Delete(store.CollectionExpenses, r.FormValue("id")); err != nil {
		h.flashAndRedirect(w, r, "error", "Delete failed: "+err.Error(), "/admin/expenses")
		return
	}
	h.flashAndRedirect(w, r, "success", "Expense deleted.", "/admin/expenses")
}

func (h *AdminHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items := h.Live.Inventory()
	h.render(w, r, "admin_inventory.html", map[string]interface{}{
		"Items":      items,
		"StockValue": finance.StockValue(items),
	})
}

func (h *AdminHandler) SaveInventoryItem(w http.ResponseWriter, r *http.Request) {
	quantity, err := strconv.ParseFloat(r.FormValue("quantity"), 64)
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid quantity.", "/admin/inventory")
		return
	}
	cost, err := strconv.ParseFloat(r.FormValue("cost"), 64)
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Invalid cost.", "/admin/inventory")
		return
	}

	id := r.FormValue("id")
	item := models.InventoryItem{
		ID:        id,
		Name:      strings.TrimSpace(r.FormValue("name")),
		Category:  r.FormValue("category"),
		Quantity:  quantity,
		Cost:      cost,
		Supplier:  strings.TrimSpace(r.FormValue("supplier")),
		Brand:     strings.TrimSpace(r.FormValue("brand")),
		LotNumber: strings.TrimSpace(r.FormValue("lot_number")),
	}

	if id == "" {
		_, err = h.Gateway.Create(store.CollectionInventory, &item)
	} else {
		err = h.Gateway.Update(store.CollectionInventory, id, &item)
	}
	if err != nil {
		h.flashAndRedirect(w, r, "error", err.Error(), "/admin/inventory")
		return
	}
	h.flashAndRedirect(w, r, "success", "Inventory item saved.", "/admin/inventory")
}

func (h *AdminHandler) DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Gateway.Delete(store.CollectionInventory, r.FormValue("id")); err != nil {
		h.flashAndRedirect(w, r, "error", "Delete failed: "+err.Error(), "/admin/inventory")
		return
	}
	h.flashAndRedirect(w, r, "success", "Inventory item deleted.", "/admin/inventory")
}
