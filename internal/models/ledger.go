package models

import (
	"errors"
	"time"
)

type ExpenseCategory string

const (
	ExpenseSupplies  ExpenseCategory = "Supplies"
	ExpenseRent      ExpenseCategory = "Rent"
	ExpenseUtilities ExpenseCategory = "Utilities"
	ExpenseMarketing ExpenseCategory = "Marketing"
	ExpenseOther     ExpenseCategory = "Other"
)

func ValidExpenseCategory(c ExpenseCategory) bool {
	switch c {
	case ExpenseSupplies, ExpenseRent, ExpenseUtilities, ExpenseMarketing, ExpenseOther:
		return true
	}
	return false
}

// Expense is an independent ledger entry. Entries created by the
// supply-usage flow reference their booking in the description only.
type Expense struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Category    ExpenseCategory `json:"category"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
}

func (e *Expense) Validate() error {
	if !ValidExpenseCategory(e.Category) {
		return errors.New("invalid expense category")
	}
	if e.Amount < 0 {
		return errors.New("expense amount cannot be negative")
	}
	if e.Date.IsZero() {
		return errors.New("expense requires a date")
	}
	return nil
}

type InventoryItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  float64 `json:"quantity"`
	Cost      float64 `json:"cost"`
	Supplier  string  `json:"supplier,omitempty"`
	Brand     string  `json:"brand,omitempty"`
	LotNumber string  `json:"lot_number,omitempty"`
}

func (i *InventoryItem) Validate() error {
	if i.Name == "" {
		return errors.New("inventory item requires a name")
	}
	if i.Quantity < 0 {
		return errors.New("inventory quantity cannot be negative")
	}
	if i.Cost < 0 {
		return errors.New("inventory cost cannot be negative")
	}
	return nil
}
