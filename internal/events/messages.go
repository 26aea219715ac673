package events

import (
	"encoding/json"
	"time"
)

// Kind names a ledger mutation.
type Kind string

const (
	KindTransactionAdded Kind = "transaction_added"
	KindBudgetChanged    Kind = "budget_changed"
	KindHistoryCleared   Kind = "history_cleared"
)

// LedgerEvent is the message published after a mutation lands. It carries
// identifiers rather than the full record; consumers that need more can
// read the snapshot themselves.
type LedgerEvent struct {
	Kind          Kind      `json:"kind"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Category      string    `json:"category,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	Budget        float64   `json:"budget,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
