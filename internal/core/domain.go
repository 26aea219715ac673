package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// IncomeCategory is the reserved category label. Transactions carrying it
// count as income and are excluded from every spending aggregate.
const IncomeCategory = "Income"

// DefaultBudget is the monthly spending ceiling a fresh ledger starts with.
const DefaultBudget = 50000

type (
	// Transaction is one recorded expense or income event. Records are
	// immutable once created; the only removal path is a bulk clear.
	Transaction struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Amount   float64 `json:"amount"`
		Date     string  `json:"date"` // RFC3339, set to "now" at creation
		Category string  `json:"category"`
		Icon     string  `json:"icon"`
		Color    string  `json:"color"`
	}

	// Ledger is the persisted snapshot shape: the transaction sequence
	// (newest-first by insertion) plus the monthly budget.
	Ledger struct {
		Transactions []Transaction `json:"transactions"`
		Budget       float64       `json:"budget"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidDate   = errors.New("invalid date")
)

// NewTransaction builds a record for the given description, amount and
// category. The id is opaque and generation-order-independent, the date is
// fixed to now, and the icon/color presentation hints are derived from the
// category once and frozen onto the record.
func NewTransaction(name string, amount float64, category string, now time.Time) Transaction {
	if strings.TrimSpace(name) == "" {
		name = "Expense"
	}
	return Transaction{
		ID:       uuid.NewString(),
		Name:     name,
		Amount:   amount,
		Date:     now.Format(time.RFC3339),
		Category: category,
		Icon:     IconForCategory(category),
		Color:    ColorForCategory(category),
	}
}

// Validate checks the fields callers are responsible for before handing a
// record to the store. The store itself does not re-validate.
func (t Transaction) Validate() error {
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if _, err := time.Parse(time.RFC3339, t.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// OccurredAt parses the record's creation timestamp.
func (t Transaction) OccurredAt() (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, t.Date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return ts, nil
}

// NewLedger returns a ledger with first-launch defaults.
func NewLedger() Ledger {
	return Ledger{Transactions: []Transaction{}, Budget: DefaultBudget}
}

// Clone returns a deep copy so selector callers can never mutate the
// store's backing slice.
func (l Ledger) Clone() Ledger {
	out := Ledger{Budget: l.Budget, Transactions: make([]Transaction, len(l.Transactions))}
	copy(out.Transactions, l.Transactions)
	return out
}

// ParseAmount converts a user-entered decimal string into a positive
// amount. Both dot and comma decimal separators are accepted; signs are
// rejected because amounts are magnitudes.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return 0, ErrInvalidAmount
			}
		}
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value <= 0 {
		return 0, ErrInvalidAmount
	}
	return value, nil
}

var categoryIcons = map[string]string{
	"Food":      "🍔",
	"Transport": "🚗",
	"Shopping":  "🛍️",
	"Bills":     "💡",
	"Health":    "🏥",
}

var categoryColors = map[string]string{
	"Food":      "bg-green-100",
	"Transport": "bg-yellow-100",
	"Shopping":  "bg-blue-100",
}

// IconForCategory returns the presentation icon for a category label.
// Unknown categories fall back to the parcel icon.
func IconForCategory(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return "📦"
}

// ColorForCategory returns the presentation color class for a category
// label. Unknown categories fall back to gray.
func ColorForCategory(category string) string {
	if color, ok := categoryColors[category]; ok {
		return color
	}
	return "bg-gray-100"
}
