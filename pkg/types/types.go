package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date and timestamp layouts used across the on-disk tables
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// LoanStatus represents the repayment state of a loan
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "Activo"
	LoanStatusCancelled LoanStatus = "Cancelado"
	LoanStatusOverdue   LoanStatus = "Vencido"
)

// cancelTolerance absorbs sub-cent residue left in legacy seed data.
var cancelTolerance = decimal.New(1, -2) // 0.01

// Account is one row of the cuentas table.
// Disk format: id,client_id,balance,opened_on
type Account struct {
	ID       int
	ClientID string
	Balance  decimal.Decimal
	OpenedOn time.Time
}

// ParseAccount decodes one account record line.
func ParseAccount(line string) (Account, error) {
	fields := strings.Split(strings.TrimRight(line, "\n"), ",")
	if len(fields) != 4 {
		return Account{}, fmt.Errorf("account record has %d fields, want 4", len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Account{}, fmt.Errorf("invalid account id %q: %w", fields[0], err)
	}
	balance, err := ParseMoney(fields[2])
	if err != nil {
		return Account{}, err
	}
	opened, err := time.Parse(DateLayout, fields[3])
	if err != nil {
		return Account{}, fmt.Errorf("invalid account opened_on %q: %w", fields[3], err)
	}
	return Account{ID: id, ClientID: fields[1], Balance: balance, OpenedOn: opened}, nil
}

// Record encodes the account as one table line (without newline).
func (a Account) Record() string {
	return strings.Join([]string{
		strconv.Itoa(a.ID),
		a.ClientID,
		FormatMoney(a.Balance),
		a.OpenedOn.Format(DateLayout),
	}, ",")
}

// Loan is one row of the prestamos table.
// Disk format: id,client_id,total,paid,status,deadline
type Loan struct {
	ID       int
	ClientID string
	Total    decimal.Decimal
	Paid     decimal.Decimal
	Status   LoanStatus
	Deadline time.Time
}

// ParseLoan decodes one loan record line.
func ParseLoan(line string) (Loan, error) {
	fields := strings.Split(strings.TrimRight(line, "\n"), ",")
	if len(fields) != 6 {
		return Loan{}, fmt.Errorf("loan record has %d fields, want 6", len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Loan{}, fmt.Errorf("invalid loan id %q: %w", fields[0], err)
	}
	total, err := ParseMoney(fields[2])
	if err != nil {
		return Loan{}, err
	}
	paid, err := ParseMoney(fields[3])
	if err != nil {
		return Loan{}, err
	}
	deadline, err := time.Parse(DateLayout, fields[5])
	if err != nil {
		return Loan{}, fmt.Errorf("invalid loan deadline %q: %w", fields[5], err)
	}
	return Loan{
		ID:       id,
		ClientID: fields[1],
		Total:    total,
		Paid:     paid,
		Status:   LoanStatus(fields[4]),
		Deadline: deadline,
	}, nil
}

// Record encodes the loan as one table line (without newline).
func (l Loan) Record() string {
	return strings.Join([]string{
		strconv.Itoa(l.ID),
		l.ClientID,
		FormatMoney(l.Total),
		FormatMoney(l.Paid),
		string(l.Status),
		l.Deadline.Format(DateLayout),
	}, ",")
}

// Remaining returns the outstanding amount, total - paid.
func (l Loan) Remaining() decimal.Decimal {
	return Quantize(l.Total.Sub(l.Paid))
}

// EffectiveStatus recomputes the loan status as of the given day
// (normally Today()). The stored status column may lag behind payments
// and is advisory only: a loan is Cancelado once the outstanding
// amount is within the cent tolerance, Vencido past its deadline,
// Activo otherwise.
func (l Loan) EffectiveStatus(today time.Time) LoanStatus {
	if l.Remaining().LessThanOrEqual(cancelTolerance) {
		return LoanStatusCancelled
	}
	if l.Deadline.Before(today) {
		return LoanStatusOverdue
	}
	return LoanStatusActive
}

// Today returns the current date at UTC midnight, comparable against
// parsed table dates.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedTransaction is one row of the transacciones table. The worker
// reads these as static seed data and never mutates them.
// Disk format: id,account_id,kind,amount,timestamp
type SeedTransaction struct {
	ID        int
	AccountID int
	Kind      string
	Amount    decimal.Decimal
	Timestamp time.Time
}

// ParseSeedTransaction decodes one seed transaction line.
func ParseSeedTransaction(line string) (SeedTransaction, error) {
	fields := strings.Split(strings.TrimRight(line, "\n"), ",")
	if len(fields) != 5 {
		return SeedTransaction{}, fmt.Errorf("transaction record has %d fields, want 5", len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return SeedTransaction{}, fmt.Errorf("invalid transaction id %q: %w", fields[0], err)
	}
	accountID, err := strconv.Atoi(fields[1])
	if err != nil {
		return SeedTransaction{}, fmt.Errorf("invalid transaction account id %q: %w", fields[1], err)
	}
	amount, err := ParseMoney(fields[3])
	if err != nil {
		return SeedTransaction{}, err
	}
	ts, err := time.Parse(TimestampLayout, fields[4])
	if err != nil {
		return SeedTransaction{}, fmt.Errorf("invalid transaction timestamp %q: %w", fields[4], err)
	}
	return SeedTransaction{ID: id, AccountID: accountID, Kind: fields[2], Amount: amount, Timestamp: ts}, nil
}

// Record encodes the seed transaction as one table line (without newline).
func (t SeedTransaction) Record() string {
	return strings.Join([]string{
		strconv.Itoa(t.ID),
		strconv.Itoa(t.AccountID),
		t.Kind,
		FormatMoney(t.Amount),
		t.Timestamp.Format(TimestampLayout),
	}, ",")
}
