package renderer

import (
	"fmt"

	"github.com/etnz/hfledger"
)

// Transaction renders a transaction to a one line sentence.
func Transaction(tx hfledger.Transaction) string {
	var s string
	switch tx.Kind {
	case hfledger.KindDeposit:
		s = fmt.Sprintf("Deposited %s", tx.Amount)
	case hfledger.KindBill:
		s = fmt.Sprintf("Bill of %s", tx.Amount)
		if tx.Cleared {
			s += ", cleared"
		}
	case hfledger.KindDiscretionarySpend:
		s = fmt.Sprintf("Spent %s from discretionary", tx.Amount)
	case hfledger.KindDiscretionaryTopup:
		s = fmt.Sprintf("Moved %s to discretionary", tx.Amount)
	case hfledger.KindReserveFund:
		s = fmt.Sprintf("Reserved %s", tx.Amount)
	case hfledger.KindReserveRelease:
		s = fmt.Sprintf("Released %s from reserve", tx.Amount)
	default:
		s = tx.String()
	}
	if tx.Note != "" {
		s += fmt.Sprintf(" (%s)", tx.Note)
	}
	return fmt.Sprintf("%s [%s]", s, ShortID(tx.ID))
}
