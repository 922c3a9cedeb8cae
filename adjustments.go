package hfledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CmdAdjust is the command name of adjustment lines in a snapshot.
const CmdAdjust = "adjust"

// Reason tells which override produced an Adjustment.
type Reason string

const (
	// ReasonSetBalance comes from SetPrimaryBalance.
	ReasonSetBalance Reason = "set-balance"
	// ReasonClearPool comes from ClearPool.
	ReasonClearPool Reason = "clear-pool"
	// ReasonImport reconciles imported balances with their imported log.
	ReasonImport Reason = "import"
)

// Adjustment records the signed change made to a pool by a direct override.
//
// It is not a transaction: it cannot be deleted nor reverted. It exists so
// that the log of transactions plus the adjustments always replays to the
// current balances.
type Adjustment struct {
	ID     string
	Time   time.Time
	Pool   Pool
	Delta  Money
	Reason Reason
}

// MarshalJSON writes the adjustment as a single snapshot line.
func (a Adjustment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", CmdAdjust)
	w.Append("id", a.ID)
	w.Append("time", a.Time.UTC().Format(time.RFC3339Nano))
	w.Append("pool", a.Pool)
	w.Append("amount", a.Delta.Decimal())
	w.Optional("reason", a.Reason)
	return w.MarshalJSON()
}

// UnmarshalJSON reads what MarshalJSON writes.
func (a *Adjustment) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID     string          `json:"id"`
		Time   time.Time       `json:"time"`
		Pool   string          `json:"pool"`
		Amount decimal.Decimal `json:"amount"`
		Reason Reason          `json:"reason"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	pool, err := ParsePool(temp.Pool)
	if err != nil {
		return fmt.Errorf("invalid adjustment %q: %w", temp.ID, err)
	}
	*a = Adjustment{
		ID:     temp.ID,
		Time:   temp.Time,
		Pool:   pool,
		Delta:  M(temp.Amount, ""),
		Reason: temp.Reason,
	}
	return nil
}
