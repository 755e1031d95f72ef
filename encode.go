package girohist

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// jsonTx is the wire shape of one ledger line.
type jsonTx struct {
	Time     time.Time        `json:"time"`
	Kind     string           `json:"kind"`
	Asset    string           `json:"asset,omitempty"`
	Shares   *decimal.Decimal `json:"shares,omitempty"`
	Amount   decimal.Decimal  `json:"amount"`
	Currency string           `json:"currency"`
}

// DecodeLedger reads transactions from a JSONL stream, one object per line,
// and returns the validated, sorted ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue // Skip empty lines
		}
		var temp jsonTx
		if err := json.Unmarshal(raw, &temp); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		kind, err := ParseKind(temp.Kind)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tx := Transaction{
			Timestamp: temp.Time,
			Kind:      kind,
			Asset:     temp.Asset,
			Amount:    M(temp.Amount, temp.Currency),
		}
		if temp.Shares != nil {
			tx.Shares = Q(*temp.Shares)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return NewLedger(txs)
}

// EncodeTransaction writes one transaction as a JSON line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	temp := jsonTx{
		Time:     tx.Timestamp,
		Kind:     string(tx.Kind),
		Asset:    tx.Asset,
		Amount:   tx.Amount.Decimal(),
		Currency: tx.Amount.Currency(),
	}
	if tx.IsTrade() {
		shares := tx.Shares.Decimal()
		temp.Shares = &shares
	}
	raw, err := json.Marshal(temp)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger persists a ledger to a writer in canonical JSONL form,
// sorted by timestamp with ties in input order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for tx := range ledger.Transactions() {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// WriteSnapshots dumps a reconstruction as date-indexed CSV, one row per
// (date, asset), in the run's row order.
func WriteSnapshots(w io.Writer, result *Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "asset", "holding", "investment", "close", "value"}); err != nil {
		return err
	}
	for _, snap := range result.Snapshots {
		for _, row := range snap.Rows {
			record := []string{
				snap.Date.String(),
				row.Asset,
				row.Holding.String(),
				row.Investment.Decimal().String(),
				row.Close.Decimal().String(),
				row.Value.Decimal().String(),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReturns dumps a return series as date-indexed CSV, aligned row for
// row with the snapshot sequence it came from.
func WriteReturns(w io.Writer, points []ReturnPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "daily", "cumulative"}); err != nil {
		return err
	}
	for _, p := range points {
		record := []string{
			p.Date.String(),
			strconv.FormatFloat(p.Daily, 'g', -1, 64),
			strconv.FormatFloat(p.Cumulative, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
