package hfledger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// CmdBalances is the command name of the header line of a snapshot.
const CmdBalances = "balances"

// balancesCmd is the header line of a snapshot.
type balancesCmd struct {
	Command       string          `json:"command"`
	Currency      string          `json:"currency"`
	Primary       decimal.Decimal `json:"primary"`
	Discretionary decimal.Decimal `json:"discretionary"`
	Reserved      decimal.Decimal `json:"reserved"`
}

// DecodeSnapshot decodes a snapshot from a stream of JSONL data.
//
// The first line may be a "balances" header holding the currency and the pool
// balances. Every other line is either an "adjust" line or a transaction whose
// command is its kind. Without header, the balances are replayed from the log
// and the currency is left empty for the caller to choose.
//
// Decoding errors wrap ErrCorruptSnapshot.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	s := &Snapshot{}
	var header *balancesCmd

	reader := bufio.NewReader(r)
	n := 0
	for {
		lineBytes, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("error reading from input: %w", err)
		}
		if len(lineBytes) > 0 {
			n++
			if err := s.decodeLine(lineBytes, n, &header); err != nil {
				return nil, err
			}
		}
		if err == io.EOF {
			break
		}
	}

	if header == nil {
		// The currency is left to the reader, balances are weak.
		if _, err := FromSnapshot(s); err != nil {
			return nil, err
		}
		s.Balances = replay(zeroBalances(""), slices.All(s.Transactions), s.Adjustments)
		return s, nil
	}
	s.Currency = header.Currency
	s.Balances = Balances{
		Primary:       M(header.Primary, header.Currency),
		Discretionary: M(header.Discretionary, header.Currency),
		Reserved:      M(header.Reserved, header.Currency),
	}
	return s, nil
}

// decodeLine decodes the nth line of a snapshot into s. Blank lines are
// skipped.
func (s *Snapshot) decodeLine(lineBytes []byte, n int, header **balancesCmd) error {
	lineBytes = bytes.TrimSpace(lineBytes)
	if len(lineBytes) == 0 {
		return nil
	}

	var identifier struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(lineBytes, &identifier); err != nil {
		return fmt.Errorf("%w: line %d: could not identify command in %q: %v", ErrCorruptSnapshot, n, string(lineBytes), err)
	}

	switch identifier.Command {
	case CmdBalances:
		if *header != nil {
			return fmt.Errorf("%w: line %d: duplicated %q header", ErrCorruptSnapshot, n, CmdBalances)
		}
		*header = new(balancesCmd)
		if err := json.Unmarshal(lineBytes, *header); err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrCorruptSnapshot, n, err)
		}
	case CmdAdjust:
		var a Adjustment
		if err := json.Unmarshal(lineBytes, &a); err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrCorruptSnapshot, n, err)
		}
		s.Adjustments = append(s.Adjustments, a)
	default:
		var tx Transaction
		if err := json.Unmarshal(lineBytes, &tx); err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrCorruptSnapshot, n, err)
		}
		s.Transactions = append(s.Transactions, tx)
	}
	return nil
}

// EncodeSnapshot writes a snapshot in JSONL format: the balances header, the
// transactions in insertion order, then the adjustments.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	var h jsonObjectWriter
	h.Append("command", CmdBalances)
	h.Append("currency", s.Currency)
	h.EmbedFrom(s.Balances)
	header, err := h.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal balances: %w", err)
	}
	if _, err := w.Write(append(header, '\n')); err != nil {
		return fmt.Errorf("failed to write balances: %w", err)
	}

	for _, tx := range s.Transactions {
		if err := encodeLine(w, tx); err != nil {
			return fmt.Errorf("transaction %q: %w", tx.ID, err)
		}
	}
	for _, a := range s.Adjustments {
		if err := encodeLine(w, a); err != nil {
			return fmt.Errorf("adjustment %q: %w", a.ID, err)
		}
	}
	return nil
}

// encodeLine marshals v to JSON and writes it followed by a newline.
func encodeLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	return nil
}
