package girohist

import (
	"fmt"
	"regexp"
	"time"
)

// Kind identifies the nature of a ledger entry.
type Kind string

const (
	Deposit    Kind = "deposit"
	Withdrawal Kind = "withdrawal"
	Buy        Kind = "buy"
	Sell       Kind = "sell"
	Dividend   Kind = "dividend"
	Fee        Kind = "fee"
	FX         Kind = "fx" // currency conversion leg inside the account
)

// ParseKind parses a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Deposit, Withdrawal, Buy, Sell, Dividend, Fee, FX:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction kind %q", s)
	}
}

// isinRegex checks the basic ISIN structure: 2 letters, 9 alphanumeric, 1 digit.
var isinRegex = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// ValidateISIN reports whether a string is structurally a valid ISIN.
func ValidateISIN(isin string) error {
	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("invalid ISIN %q", isin)
	}
	return nil
}

// Transaction is one normalized ledger entry, as produced by the external
// statement-normalization collaborator.
//
// The timestamp (not just the date) is the source of ordering: two entries on
// the same day keep the statement's order, which matters when a deposit funds
// a purchase minutes later.
type Transaction struct {
	Timestamp time.Time // date and time of the entry
	Asset     string    // ISIN; empty for pure cash movements
	Kind      Kind
	Shares    Quantity // signed share delta; only buy/sell carry one
	Amount    Money    // signed cash leg in the entry's native currency
}

// Date returns the calendar date the entry lands on.
func (t Transaction) Date() Date { return DateOf(t.Timestamp) }

// IsTrade reports whether the entry moves shares.
func (t Transaction) IsTrade() bool { return t.Kind == Buy || t.Kind == Sell }

// IsExternalFlow reports whether the entry is an external cash flow for the
// purpose of return attribution. Trades, dividends, fees and fx conversions
// are internal reallocations and must not distort the measured return.
func (t Transaction) IsExternalFlow() bool { return t.Kind == Deposit || t.Kind == Withdrawal }

func (t Transaction) String() string {
	if t.IsTrade() {
		return fmt.Sprintf("%s %s %s %s %s", t.Date(), t.Kind, t.Shares, t.Asset, t.Amount)
	}
	return fmt.Sprintf("%s %s %s", t.Date(), t.Kind, t.Amount)
}

// validate checks the kind/field invariants of a single entry.
func (t Transaction) validate() error {
	if t.Timestamp.IsZero() {
		return fmt.Errorf("missing timestamp")
	}
	if _, err := ParseKind(string(t.Kind)); err != nil {
		return err
	}
	if err := ValidateCurrency(t.Amount.Currency()); err != nil {
		return err
	}

	switch t.Kind {
	case Buy, Sell:
		if t.Shares.IsZero() {
			return fmt.Errorf("%s without share delta", t.Kind)
		}
		if t.Asset == "" {
			return fmt.Errorf("%s without asset id", t.Kind)
		}
		if t.Kind == Buy && (t.Shares.IsNegative() || t.Amount.IsPositive()) {
			return fmt.Errorf("buy must add shares and spend cash, got %s shares %s cash", t.Shares, t.Amount)
		}
		if t.Kind == Sell && (t.Shares.IsPositive() || t.Amount.IsNegative()) {
			return fmt.Errorf("sell must remove shares and receive cash, got %s shares %s cash", t.Shares, t.Amount)
		}
	case Dividend:
		if t.Asset == "" {
			return fmt.Errorf("dividend without asset id")
		}
		if !t.Shares.IsZero() {
			return fmt.Errorf("dividend carries a share delta")
		}
	case Deposit:
		if t.Asset != "" {
			return fmt.Errorf("deposit references asset %q", t.Asset)
		}
		if !t.Shares.IsZero() {
			return fmt.Errorf("deposit carries a share delta")
		}
		if !t.Amount.IsPositive() {
			return fmt.Errorf("deposit amount must be positive, got %s", t.Amount)
		}
	case Withdrawal:
		if t.Asset != "" {
			return fmt.Errorf("withdrawal references asset %q", t.Asset)
		}
		if !t.Shares.IsZero() {
			return fmt.Errorf("withdrawal carries a share delta")
		}
		if !t.Amount.IsNegative() {
			return fmt.Errorf("withdrawal amount must be negative, got %s", t.Amount)
		}
	case Fee, FX:
		// Fees and conversions may or may not reference an asset
		// (e.g. a per-security transaction fee vs an account fee).
		if !t.Shares.IsZero() {
			return fmt.Errorf("%s carries a share delta", t.Kind)
		}
	}

	if t.Asset != "" {
		if err := ValidateISIN(t.Asset); err != nil {
			return err
		}
	}
	return nil
}
